package file

// Part is an opaque file payload placed into a multipart body as-is.
type Part struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Size returns the payload length.
func (p *Part) Size() int64 {
	return int64(len(p.Data))
}
