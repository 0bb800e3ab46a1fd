// Package envconf fills configuration structs from environment variables
// described by `env` struct tags.
//
// Tag format: `env:"NAME[,option]"` where option is one of:
//
//	required       the variable must be set and non-empty
//	file           the value must be an existing file path
//	dir            the value must be an existing directory path
//	opt[a,b,'c,d'] the value must be one of the listed options
package envconf

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/bitrise-io/go-utils/v2/env"
)

// ErrNotStructPtr indicates a type is not a pointer to a struct.
var ErrNotStructPtr = errors.New("must be a pointer to a struct")

// ErrRequired indicates a required variable is not set.
var ErrRequired = errors.New("required variable is not present")

// ErrNoValue indicates that a validated variable has no value.
var ErrNoValue = errors.New("empty value")

// ErrInvalidOption indicates a tag option that does not exist.
var ErrInvalidOption = errors.New("invalid tag option")

// Secret is a string that is masked when printed.
type Secret string

// String implements fmt.Stringer.
func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "*****"
}

// EnvGetter reads environment variables. env.Repository implements it.
type EnvGetter interface {
	Get(key string) string
}

// Parse fills conf from the process environment.
func Parse(conf interface{}) error {
	return parse(conf, env.NewRepository())
}

func parse(conf interface{}, getter EnvGetter) error {
	c := reflect.ValueOf(conf)
	if c.Kind() != reflect.Ptr || c.IsNil() {
		return ErrNotStructPtr
	}
	c = c.Elem()
	if c.Kind() != reflect.Struct {
		return ErrNotStructPtr
	}
	t := c.Type()

	var errs []string
	for i := 0; i < c.NumField(); i++ {
		tag, ok := t.Field(i).Tag.Lookup("env")
		if !ok {
			continue
		}
		key, constraint := parseTag(tag)
		value := getter.Get(key)

		if err := setField(c.Field(i), value, constraint); err != nil {
			errs = append(errs, fmt.Sprintf("- %s: %s", t.Field(i).Name, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to parse config:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}

func parseTag(tag string) (string, string) {
	key, constraint, _ := strings.Cut(tag, ",")
	return key, constraint
}

func setField(field reflect.Value, value, constraint string) error {
	if err := validate(value, constraint); err != nil {
		return err
	}

	if value == "" {
		return nil
	}

	if field.Kind() == reflect.Ptr {
		// Allocate a new value of the pointed type and fill that.
		ptr := reflect.New(field.Type().Elem())
		if err := setValue(ptr.Elem(), value); err != nil {
			return err
		}
		field.Set(ptr)
		return nil
	}

	return setValue(field, value)
}

func setValue(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("can't convert %q to bool", value)
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("can't convert %q to int", value)
		}
		field.SetInt(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("can't convert %q to float", value)
		}
		field.SetFloat(f)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", field.Type())
		}
		field.Set(reflect.ValueOf(strings.Split(value, "|")).Convert(field.Type()))
	default:
		return fmt.Errorf("type is not supported (%s)", field.Kind())
	}
	return nil
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	}
	return strconv.ParseBool(value)
}

func validate(value, constraint string) error {
	switch constraint {
	case "":
		return nil
	case "required":
		if value == "" {
			return ErrRequired
		}
	case "file", "dir":
		if err := checkPath(value, constraint == "dir"); err != nil {
			return err
		}
	default:
		if strings.HasPrefix(constraint, "opt[") && strings.HasSuffix(constraint, "]") {
			return checkOption(value, parseOptions(constraint[len("opt["):len(constraint)-1]))
		}
		return fmt.Errorf("%w: %s", ErrInvalidOption, constraint)
	}
	return nil
}

func checkPath(path string, dir bool) error {
	if path == "" {
		return ErrNoValue
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("check path %s: %w", path, err)
	}
	if info.IsDir() != dir {
		if dir {
			return fmt.Errorf("%s is not a directory", path)
		}
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

func checkOption(value string, options []string) error {
	for _, option := range options {
		if option == value {
			return nil
		}
	}
	return fmt.Errorf("value %q is not in value options (%s)", value, strings.Join(options, ", "))
}

// parseOptions splits a comma separated option list. Options containing a
// comma are wrapped in single quotes.
func parseOptions(list string) []string {
	var (
		options []string
		current strings.Builder
		quoted  bool
	)
	for _, r := range list {
		switch {
		case r == '\'':
			quoted = !quoted
		case r == ',' && !quoted:
			options = append(options, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(options, current.String())
}
