package envconf

// InputParser fills configuration structs from a variable source.
type InputParser interface {
	Parse(input interface{}) error
}

type defaultInputParser struct {
	envGetter EnvGetter
}

// NewInputParser creates an InputParser reading variables from envGetter.
func NewInputParser(envGetter EnvGetter) InputParser {
	return defaultInputParser{
		envGetter: envGetter,
	}
}

// Parse fills input, which must be a pointer to a struct.
func (p defaultInputParser) Parse(input interface{}) error {
	return parse(input, p.envGetter)
}
