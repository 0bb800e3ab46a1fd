// Package id builds resource ids.
package id

// Unique asks the server to generate a unique id.
func Unique() string {
	return "unique()"
}

// Custom returns a caller chosen id. Valid ids are up to 36 characters of
// a-z, A-Z, 0-9, period, hyphen and underscore, not starting with a special
// character.
func Custom(id string) string {
	return id
}
