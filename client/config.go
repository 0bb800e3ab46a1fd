package client

import (
	"fmt"

	"github.com/bitrise-io/go-utils/v2/log"

	"github.com/appwrite-go/client-go/chunkuploader"
	"github.com/appwrite-go/client-go/envconf"
)

const (
	// DefaultEndpoint is the public cloud API endpoint.
	DefaultEndpoint = "https://cloud.appwrite.io/v1"

	sdkName           = "Go"
	sdkPlatform       = "server"
	sdkLanguage       = "go"
	sdkVersion        = "0.1.0"
	responseFormat    = "1.5.0"
	multipartFormData = "multipart/form-data"
	applicationJSON   = "application/json"
)

// Config holds the settings a Client is created with.
type Config struct {
	Endpoint   string
	Project    string
	Key        string
	JWT        string
	Locale     string
	SelfSigned bool

	// ChunkSize bounds the size of a single upload request.
	ChunkSize int64

	// RateLimit caps outgoing requests per second. Zero disables limiting.
	RateLimit float64
	// RateBurst is the limiter's bucket size. Defaults to 1.
	RateBurst int

	// Transport sends requests. Defaults to a retryablehttp client with
	// retries disabled.
	Transport Transport

	Logger log.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Endpoint:  DefaultEndpoint,
		ChunkSize: chunkuploader.DefaultChunkSize,
		RateBurst: 1,
	}
}

// EnvConfig is the environment variable representation of Config.
type EnvConfig struct {
	Endpoint   string         `env:"APPWRITE_ENDPOINT,required"`
	Project    string         `env:"APPWRITE_PROJECT"`
	Key        envconf.Secret `env:"APPWRITE_KEY"`
	JWT        envconf.Secret `env:"APPWRITE_JWT"`
	Locale     string         `env:"APPWRITE_LOCALE"`
	SelfSigned bool           `env:"APPWRITE_SELF_SIGNED"`
	ChunkSize  string         `env:"APPWRITE_CHUNK_SIZE"`
	RateLimit  float64        `env:"APPWRITE_RATE_LIMIT"`
}

// Config converts the parsed environment into a Config.
func (e EnvConfig) Config(logger log.Logger) (Config, error) {
	cfg := DefaultConfig()
	cfg.Endpoint = e.Endpoint
	cfg.Project = e.Project
	cfg.Key = string(e.Key)
	cfg.JWT = string(e.JWT)
	cfg.Locale = e.Locale
	cfg.SelfSigned = e.SelfSigned
	cfg.RateLimit = e.RateLimit
	cfg.Logger = logger

	if e.ChunkSize != "" {
		size, err := chunkuploader.ParseChunkSize(e.ChunkSize)
		if err != nil {
			return Config{}, err
		}
		cfg.ChunkSize = size
	}
	return cfg, nil
}

// ParseEnvConfig reads APPWRITE_* variables from getter.
func ParseEnvConfig(getter envconf.EnvGetter) (EnvConfig, error) {
	var envCfg EnvConfig
	if err := envconf.NewInputParser(getter).Parse(&envCfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse environment: %w", err)
	}
	return envCfg, nil
}

// NewFromEnv creates a Client configured from the APPWRITE_* variables of
// the process environment.
func NewFromEnv(logger log.Logger) (*Client, error) {
	var envCfg EnvConfig
	if err := envconf.Parse(&envCfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg, err := envCfg.Config(logger)
	if err != nil {
		return nil, err
	}
	return New(cfg)
}
