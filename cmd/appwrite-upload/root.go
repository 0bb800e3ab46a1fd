package main

import (
	"fmt"
	"os"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/appwrite-go/client-go/client"
	"github.com/appwrite-go/client-go/envconf"
	"github.com/appwrite-go/client-go/storage"
)

var (
	cfgFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "appwrite-upload",
	Short: "Upload and manage files in Appwrite storage buckets",
	Long: `appwrite-upload talks to the Appwrite storage API. Large files are uploaded
in resumable chunks.

Settings are read from flags, APPWRITE_* environment variables or a config
file, in that order of precedence.`,
	PersistentPreRunE: initConfig,
	SilenceUsage:      true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (yaml, json or toml)")
	flags.String("endpoint", client.DefaultEndpoint, "API endpoint")
	flags.String("project", "", "Project ID")
	flags.String("key", "", "API key (or set APPWRITE_KEY)")
	flags.String("jwt", "", "JWT for user scoped requests")
	flags.String("locale", "", "Locale of response messages")
	flags.String("chunk_size", "5MiB", "Upload chunk size")
	flags.Float64("rate_limit", 0, "Maximum requests per second, 0 for unlimited")
	flags.Bool("self_signed", false, "Accept self-signed certificates")
	flags.Bool("verbose", false, "Enable debug logging and print the resolved configuration")
}

func initConfig(cmd *cobra.Command, args []string) error {
	if cfgFile == "" {
		return nil
	}
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", cfgFile, err)
	}
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type globalConfig struct {
	Verbose bool `env:"APPWRITE_VERBOSE"`
}

func newStorage(getter envconf.EnvGetter) (*storage.Service, log.Logger, error) {
	var global globalConfig
	if err := envconf.NewInputParser(getter).Parse(&global); err != nil {
		return nil, nil, err
	}
	logger := log.NewLogger()
	logger.EnableDebugLog(global.Verbose)

	cfg, err := clientConfig(getter, global.Verbose, logger)
	if err != nil {
		return nil, nil, err
	}
	c, err := client.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return storage.New(c), logger, nil
}

func clientConfig(getter envconf.EnvGetter, verbose bool, logger log.Logger) (client.Config, error) {
	envCfg, err := client.ParseEnvConfig(getter)
	if err != nil {
		return client.Config{}, err
	}
	if verbose {
		envconf.Print(envCfg)
	}

	cfg, err := envCfg.Config(logger)
	if err != nil {
		return client.Config{}, err
	}
	if cfg.Project == "" {
		return client.Config{}, fmt.Errorf("project is not set: use --project or APPWRITE_PROJECT")
	}
	return cfg, nil
}
