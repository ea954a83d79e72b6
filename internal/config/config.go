// Package config provides functionality for loading and accessing application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Environment is the current running environment (development, staging, production)
	Environment string `mapstructure:"environment"`

	// Server configuration
	Server struct {
		// Port is the HTTP server port
		Port int `mapstructure:"port"`
		// Host is the HTTP server host
		Host string `mapstructure:"host"`
		// ReadTimeout is the maximum duration for reading the entire request
		ReadTimeout time.Duration `mapstructure:"read_timeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `mapstructure:"write_timeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request
		IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	} `mapstructure:"server"`

	// Probe configures the HTTP client used for availability probing
	Probe struct {
		// Timeout is the per-request timeout; the prober has no timeout of its own
		Timeout time.Duration `mapstructure:"timeout"`
		// MaxIdleConns is the connection pool size for probe requests
		MaxIdleConns int `mapstructure:"max_idle_conns"`
		// IdleConnTimeout is how long idle probe connections are kept
		IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout"`
	} `mapstructure:"probe"`

	// Preview configuration
	Preview struct {
		// CandidateFilenames are tried in order in place of the base
		// reference's basename
		CandidateFilenames []string `mapstructure:"candidate_filenames"`
		// SongsBaseURL is the base URL song directories are served under;
		// when set, songs without a preview reference derive one from it
		SongsBaseURL string `mapstructure:"songs_base_url"`
	} `mapstructure:"preview"`

	// Logging configuration
	Logging struct {
		// Level is the logging level
		Level string `mapstructure:"level"`
		// OutputPaths is the list of output paths for logs
		OutputPaths []string `mapstructure:"output_paths"`
		// ErrorOutputPaths is the list of output paths for error logs
		ErrorOutputPaths []string `mapstructure:"error_output_paths"`
	} `mapstructure:"logging"`

	// Feature flags
	Features struct {
		// EnableMetrics determines whether the /metrics endpoint is exposed
		EnableMetrics bool `mapstructure:"enable_metrics"`
		// EnableCORS determines whether CORS headers are emitted
		EnableCORS bool `mapstructure:"enable_cors"`
	} `mapstructure:"features"`
}

// LoadConfig loads the configuration from file and environment variables.
// It looks for a configuration file in the following locations:
// 1. Path specified in the CONFIG_FILE environment variable
// 2. ./configs directory
// 3. ../configs directory
// 4. /etc/drumline directory
func LoadConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("app")
	v.SetConfigType("yaml")

	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("/etc/drumline")
	}

	// A missing config file is fine; defaults and env vars still apply
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Merge an optional environment-specific overlay (app.<env>.yaml). An
	// explicit CONFIG_FILE pins the config path, so the overlay only
	// applies in the search-path case.
	if configFile == "" {
		v.SetConfigName(fmt.Sprintf("app.%s", env))
		if err := v.MergeInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to merge environment config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.Environment = env

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets the default values for the configuration
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")

	// Probe defaults
	v.SetDefault("probe.timeout", "10s")
	v.SetDefault("probe.max_idle_conns", 10)
	v.SetDefault("probe.idle_conn_timeout", "30s")

	// Preview defaults
	v.SetDefault("preview.candidate_filenames", []string{"preview.ogg", "preview.mp3"})
	v.SetDefault("preview.songs_base_url", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.output_paths", []string{"stdout"})
	v.SetDefault("logging.error_output_paths", []string{"stderr"})

	// Feature flags defaults
	v.SetDefault("features.enable_metrics", true)
	v.SetDefault("features.enable_cors", true)
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return errors.New("server port must be between 1 and 65535")
	}

	if config.Probe.Timeout <= 0 {
		return errors.New("probe timeout must be positive")
	}

	if len(config.Preview.CandidateFilenames) == 0 {
		return errors.New("at least one preview candidate filename must be provided")
	}
	for _, name := range config.Preview.CandidateFilenames {
		if name == "" || strings.ContainsAny(name, "/?") {
			return fmt.Errorf("invalid preview candidate filename: %q", name)
		}
	}

	return nil
}

// GetConfigString returns a formatted string with the current configuration
func GetConfigString(config *Config) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Environment: %s\n", config.Environment))
	sb.WriteString(fmt.Sprintf("Server: %s:%d\n", config.Server.Host, config.Server.Port))
	sb.WriteString(fmt.Sprintf("Probe Timeout: %s\n", config.Probe.Timeout))
	sb.WriteString(fmt.Sprintf("Candidate Filenames: %s\n", strings.Join(config.Preview.CandidateFilenames, ", ")))
	sb.WriteString(fmt.Sprintf("Songs Base URL: %s\n", config.Preview.SongsBaseURL))
	sb.WriteString("Features:\n")
	sb.WriteString(fmt.Sprintf("  Metrics Enabled: %t\n", config.Features.EnableMetrics))
	sb.WriteString(fmt.Sprintf("  CORS Enabled: %t\n", config.Features.EnableCORS))

	return sb.String()
}
