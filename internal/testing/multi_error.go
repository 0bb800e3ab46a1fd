package testing

import "strings"

// MultiError aggregates multiple errors into one.
type MultiError []error

func (m MultiError) Error() string {
	msgs := make([]string, 0, len(m))
	for _, err := range m {
		if err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	return strings.Join(msgs, "\n")
}

// AppendErr appends err to m if err is not nil.
func AppendErr(m *MultiError, err error) {
	if err == nil {
		return
	}
	*m = append(*m, err)
}
