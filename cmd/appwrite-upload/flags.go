package main

import (
	"strings"

	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "APPWRITE_"

// configGetter resolves variable names for envconf with CLI flag precedence:
// positional arguments > explicitly set flags > environment > config file >
// flag defaults. APPWRITE_CHUNK_SIZE maps to the chunk_size flag.
type configGetter struct {
	args  map[string]string
	flags *pflag.FlagSet
	env   env.Repository
	v     *viper.Viper
}

func newConfigGetter(cmd *cobra.Command, v *viper.Viper, args map[string]string) configGetter {
	return configGetter{
		args:  args,
		flags: cmd.Flags(),
		env:   env.NewRepository(),
		v:     v,
	}
}

// Get implements envconf.EnvGetter.
func (g configGetter) Get(key string) string {
	if value, ok := g.args[key]; ok {
		return value
	}

	name := flagName(key)
	f := g.flags.Lookup(name)
	if f != nil && f.Changed {
		return flagValue(f)
	}
	if value := g.env.Get(key); value != "" {
		return value
	}

	_, isSlice := flagSliceValue(f)
	if g.v.IsSet(name) {
		if isSlice {
			return strings.Join(g.v.GetStringSlice(name), "|")
		}
		return g.v.GetString(name)
	}
	if f == nil || isSlice {
		return ""
	}
	return f.DefValue
}

func flagName(key string) string {
	return strings.ToLower(strings.TrimPrefix(key, envPrefix))
}

func flagValue(f *pflag.Flag) string {
	if values, ok := flagSliceValue(f); ok {
		return strings.Join(values, "|")
	}
	return f.Value.String()
}

func flagSliceValue(f *pflag.Flag) ([]string, bool) {
	if f == nil {
		return nil, false
	}
	slice, ok := f.Value.(pflag.SliceValue)
	if !ok {
		return nil, false
	}
	return slice.GetSlice(), true
}
