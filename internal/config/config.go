package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Storage   StorageConfig   `yaml:"storage"`
	History   HistoryConfig   `yaml:"history"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `yaml:"host" envconfig:"SERVER_HOST"`
	Port         int           `yaml:"port" envconfig:"SERVER_PORT"`
	ReadTimeout  time.Duration `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT"`
}

// ExtractorConfig holds extraction engine configuration.
type ExtractorConfig struct {
	// Engine selects the extraction implementation: "ytdlp" shells out to
	// the yt-dlp binary, "youtube" uses the built-in YouTube-only client.
	Engine string `yaml:"engine" envconfig:"EXTRACTOR_ENGINE"`

	// BinaryPath is the yt-dlp executable used by the ytdlp engine.
	BinaryPath string `yaml:"binary_path" envconfig:"EXTRACTOR_BINARY"`

	// CallTimeout bounds a single metadata or fetch call. Zero disables the
	// deadline and lets a hung engine call run until the client gives up.
	CallTimeout time.Duration `yaml:"call_timeout" envconfig:"EXTRACTOR_CALL_TIMEOUT"`
}

// StorageConfig holds filesystem configuration for download staging.
type StorageConfig struct {
	// TempPath is the root under which each download request gets its own
	// uniquely named directory. Empty means the system temp directory.
	TempPath string `yaml:"temp_path" envconfig:"STORAGE_TEMP_PATH"`
}

// HistoryConfig holds request-history persistence configuration.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" envconfig:"HISTORY_ENABLED"`
	DBPath  string `yaml:"db_path" envconfig:"HISTORY_DB_PATH"`
}

// Default returns the configuration used when neither file nor environment
// says otherwise.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8743,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Minute,
		},
		Extractor: ExtractorConfig{
			Engine:     "ytdlp",
			BinaryPath: "yt-dlp",
		},
		History: HistoryConfig{
			Enabled: true,
			DBPath:  "vidgate-history.db",
		},
	}
}

// Load reads configuration from file and environment variables.
// Environment variables override file values, file values override
// defaults.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	// Load from YAML file if provided
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// Override with environment variables
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	switch c.Extractor.Engine {
	case "ytdlp", "youtube":
	default:
		return fmt.Errorf("unknown extractor engine %q", c.Extractor.Engine)
	}
	if c.Extractor.Engine == "ytdlp" && c.Extractor.BinaryPath == "" {
		return fmt.Errorf("EXTRACTOR_BINARY is required for the ytdlp engine")
	}
	if c.History.Enabled && c.History.DBPath == "" {
		return fmt.Errorf("HISTORY_DB_PATH is required when history is enabled")
	}
	return nil
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
