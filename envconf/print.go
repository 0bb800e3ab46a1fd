package envconf

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	colorBlue  = "\x1b[34;1m"
	colorReset = "\x1b[0m"
	unset      = "<unset>"
)

// Print writes the fields of config to stdout. Fields are listed under
// their env tag name when present, secrets are masked and zero values are
// shown as <unset>.
func Print(config interface{}) {
	fmt.Print(toString(config))
}

func toString(config interface{}) string {
	v := reflect.ValueOf(config)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return ""
	}
	t := v.Type()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s%s:\n%s", colorBlue, title(t.Name()), colorReset))
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Name
		if tag, ok := field.Tag.Lookup("env"); ok {
			name, _ = parseTag(tag)
		}

		str := unset
		if !v.Field(i).IsZero() {
			str = valueString(v.Field(i))
		}
		b.WriteString(fmt.Sprintf("- %s: %s\n", name, str))
	}
	return b.String()
}

func title(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// valueString returns the printed form of v, dereferencing pointers. Nil
// pointers print as the empty string.
func valueString(v reflect.Value) string {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}

	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", v.Interface())
}
