// Package config loads runtime settings for the palette server and CLI.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/papapumpkin/adaptive-palette/internal/tables"
)

// ErrInvalid indicates a configuration value is out of range.
var ErrInvalid = errors.New("invalid configuration")

// ServerConfig holds settings for the static and API server.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ClientDir       string        `mapstructure:"client_dir"`
	Gzip            bool          `mapstructure:"gzip"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// TablesConfig says where the blissary map and symbol table come from. A
// non-empty BlissaryMapFile wins over BlissaryMapURL.
type TablesConfig struct {
	BlissaryMapURL  string        `mapstructure:"blissary_map_url"`
	BlissaryMapFile string        `mapstructure:"blissary_map_file"`
	SymbolsFile     string        `mapstructure:"symbols_file"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// Source converts the settings into a tables.Source.
func (t TablesConfig) Source() tables.Source {
	return tables.Source{
		BlissaryMapURL:  t.BlissaryMapURL,
		BlissaryMapFile: t.BlissaryMapFile,
		SymbolsFile:     t.SymbolsFile,
		Timeout:         t.Timeout,
	}
}

// PalettesConfig locates the palette definitions.
type PalettesConfig struct {
	Dir     string `mapstructure:"dir"`
	FileMap string `mapstructure:"file_map"`
	Watch   bool   `mapstructure:"watch"`
}

// CodecConfig tunes symbol decomposition.
type CodecConfig struct {
	MaxDepth int `mapstructure:"max_depth"`
}

// LogConfig selects the log level and encoder ("console" or "json").
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig enables the JSONL event stream when Path is set.
type TelemetryConfig struct {
	Path string `mapstructure:"path"`
}

// Config holds all runtime configuration.
// Values are populated from .palette.yaml, PALETTE_* env vars, and CLI flags.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Tables    TablesConfig    `mapstructure:"tables"`
	Palettes  PalettesConfig  `mapstructure:"palettes"`
	Codec     CodecConfig     `mapstructure:"codec"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// SetDefaults registers the built-in default for every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.client_dir", "client")
	v.SetDefault("server.gzip", true)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("tables.blissary_map_url", tables.DefaultBlissaryMapURL)
	v.SetDefault("tables.blissary_map_file", "")
	v.SetDefault("tables.symbols_file", "public/data/bliss_symbol_explanations.json")
	v.SetDefault("tables.timeout", 30*time.Second)
	v.SetDefault("palettes.dir", "public/palettes")
	v.SetDefault("palettes.file_map", "palette_file_map.json")
	v.SetDefault("palettes.watch", false)
	v.SetDefault("codec.max_depth", 32)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("telemetry.path", "")
}

// Load reads configuration from the global viper instance, applying
// built-in defaults for any values not set by config file, environment, or
// flags.
func Load() (Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom is Load for a specific viper instance.
func LoadFrom(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges that viper cannot express.
func (c Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: %w: server.port %d out of range", ErrInvalid, c.Server.Port)
	}
	if c.Codec.MaxDepth < 1 {
		return fmt.Errorf("config: %w: codec.max_depth must be positive, got %d", ErrInvalid, c.Codec.MaxDepth)
	}
	if c.Tables.SymbolsFile == "" {
		return fmt.Errorf("config: %w: tables.symbols_file is required", ErrInvalid)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: %w: log.format %q (want console or json)", ErrInvalid, c.Log.Format)
	}
	return nil
}
