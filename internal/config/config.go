// Package config loads the coordinator's options from defaults, an optional
// JSON config file, a .env file, environment variables and command-line
// flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Credential store backends.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

// Options holds the configuration values for the application.
type Options struct {
	// Address is the bridge's listening address (ip:port).
	Address string `mapstructure:"address"`

	// GraphQLEndpoint is the catalog service URL.
	GraphQLEndpoint string `mapstructure:"graphql_endpoint"`

	// YoutubeAPIKey enables the Data API path of the channel fetcher.
	YoutubeAPIKey  string `mapstructure:"youtube_api_key"`
	YoutubeBaseURL string `mapstructure:"youtube_base_url"`

	// Store selects the credential backend: file, postgres, redis or memory.
	Store     string `mapstructure:"store"`
	StorePath string `mapstructure:"store_path"`

	// DatabaseDSN holds the PostgreSQL connection string for store=postgres.
	DatabaseDSN string `mapstructure:"database_dsn"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	RedisPrefix   string `mapstructure:"redis_prefix"`

	LogLevel string `mapstructure:"log_level"`

	// AllowedOrigins lists the extension origins accepted by the bridge. Empty
	// admits any chrome-extension:// or moz-extension:// origin, never a web page.
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// HTTPTimeout bounds outbound requests. Zero means no timeout.
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`

	CAFile   string `mapstructure:"ca_file"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`

	// Config is the path to the JSON config file.
	Config string `mapstructure:"config"`
}

var defaults = map[string]any{
	"address":          "127.0.0.1:8787",
	"graphql_endpoint": "http://localhost:4000/graphql",
	"youtube_api_key":  "",
	"youtube_base_url": "https://www.googleapis.com/youtube/v3",
	"store":            StoreFile,
	"store_path":       "credentials.json",
	"database_dsn":     "",
	"redis_addr":       "",
	"redis_password":   "",
	"redis_db":         0,
	"redis_prefix":     "shorthub:",
	"log_level":        "info",
	"allowed_origins":  []string{},
	"http_timeout":     "0s",
	"ca_file":          "",
	"cert_file":        "",
	"key_file":         "",
	"config":           "config.json",
}

// flag name -> config key
var flagKeys = map[string]string{
	"address":          "address",
	"graphql-endpoint": "graphql_endpoint",
	"youtube-api-key":  "youtube_api_key",
	"youtube-base-url": "youtube_base_url",
	"store":            "store",
	"store-path":       "store_path",
	"database-dsn":     "database_dsn",
	"redis-addr":       "redis_addr",
	"redis-password":   "redis_password",
	"redis-db":         "redis_db",
	"redis-prefix":     "redis_prefix",
	"log-level":        "log_level",
	"allowed-origins":  "allowed_origins",
	"http-timeout":     "http_timeout",
	"ca-file":          "ca_file",
	"cert-file":        "cert_file",
	"key-file":         "key_file",
	"config":           "config",
}

func newFlagSet(name string) (*pflag.FlagSet, *string) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP("address", "a", "127.0.0.1:8787", "run bridge on ip:port")
	fs.StringP("graphql-endpoint", "e", "http://localhost:4000/graphql", "catalog GraphQL endpoint")
	fs.String("youtube-api-key", "", "YouTube Data API key")
	fs.String("youtube-base-url", "https://www.googleapis.com/youtube/v3", "YouTube Data API base URL")
	fs.StringP("store", "s", StoreFile, "credential store: file, postgres, redis or memory")
	fs.String("store-path", "credentials.json", "credential file for store=file")
	fs.StringP("database-dsn", "d", "", "PostgreSQL DSN for store=postgres")
	fs.String("redis-addr", "", "Redis address for store=redis")
	fs.String("redis-password", "", "Redis password")
	fs.Int("redis-db", 0, "Redis database number")
	fs.String("redis-prefix", "shorthub:", "Redis key prefix")
	fs.StringP("log-level", "l", "info", "log level")
	fs.StringSlice("allowed-origins", nil, "extension origins allowed to call the bridge")
	fs.Duration("http-timeout", 0, "outbound request timeout (0 = none)")
	fs.String("ca-file", "", "extra CA bundle for the catalog endpoint")
	fs.String("cert-file", "", "client certificate for the catalog endpoint")
	fs.String("key-file", "", "client key for the catalog endpoint")
	fs.StringP("config", "c", "config.json", "path to JSON config file")
	envFile := fs.String("env-file", ".env", "dotenv file loaded into the environment")
	return fs, envFile
}

// Parse reads configuration for the program called name from args
// (typically os.Args[1:]).
func Parse(name string, args []string) (*Options, error) {
	fs, envFile := newFlagSet(name)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", *envFile, err)
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	for flagName, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(flagName)); err != nil {
			return nil, err
		}
	}
	v.AutomaticEnv()
	if err := v.BindEnv("address", "SERVER_ADDRESS", "ADDRESS"); err != nil {
		return nil, err
	}

	if path := v.GetString("config"); path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("json")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error while parsing config file: %w", err)
			}
		}
	}

	var opts Options
	if err := v.Unmarshal(&opts, func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &opts, nil
}

// Validate checks cross-field requirements.
func (o *Options) Validate() error {
	if o.GraphQLEndpoint == "" {
		return errors.New("graphql_endpoint is required")
	}
	switch o.Store {
	case StoreFile:
		if o.StorePath == "" {
			return errors.New("store_path is required for store=file")
		}
	case StorePostgres:
		if o.DatabaseDSN == "" {
			return errors.New("database_dsn is required for store=postgres")
		}
	case StoreRedis:
		if o.RedisAddr == "" {
			return errors.New("redis_addr is required for store=redis")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store %q", o.Store)
	}
	if o.HTTPTimeout < 0 {
		return errors.New("http_timeout must not be negative")
	}
	return nil
}
