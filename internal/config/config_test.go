package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/papapumpkin/adaptive-palette/internal/tables"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper() {
	viper.Reset()
}

func TestLoad_Defaults(t *testing.T) {
	resetViper()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Server.Port", cfg.Server.Port, 3000},
		{"Server.ClientDir", cfg.Server.ClientDir, "client"},
		{"Server.Gzip", cfg.Server.Gzip, true},
		{"Server.ShutdownTimeout", cfg.Server.ShutdownTimeout, 5 * time.Second},
		{"Tables.BlissaryMapURL", cfg.Tables.BlissaryMapURL, tables.DefaultBlissaryMapURL},
		{"Tables.BlissaryMapFile", cfg.Tables.BlissaryMapFile, ""},
		{"Tables.SymbolsFile", cfg.Tables.SymbolsFile, "public/data/bliss_symbol_explanations.json"},
		{"Tables.Timeout", cfg.Tables.Timeout, 30 * time.Second},
		{"Palettes.Dir", cfg.Palettes.Dir, "public/palettes"},
		{"Palettes.FileMap", cfg.Palettes.FileMap, "palette_file_map.json"},
		{"Palettes.Watch", cfg.Palettes.Watch, false},
		{"Codec.MaxDepth", cfg.Codec.MaxDepth, 32},
		{"Log.Level", cfg.Log.Level, "info"},
		{"Log.Format", cfg.Log.Format, "console"},
		{"Telemetry.Path", cfg.Telemetry.Path, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{
			name:   "server.port",
			envKey: "PALETTE_SERVER_PORT",
			envVal: "8080",
			field:  func(c Config) any { return c.Server.Port },
			want:   8080,
		},
		{
			name:   "server.gzip",
			envKey: "PALETTE_SERVER_GZIP",
			envVal: "false",
			field:  func(c Config) any { return c.Server.Gzip },
			want:   false,
		},
		{
			name:   "tables.blissary_map_file",
			envKey: "PALETTE_TABLES_BLISSARY_MAP_FILE",
			envVal: "/data/map.json",
			field:  func(c Config) any { return c.Tables.BlissaryMapFile },
			want:   "/data/map.json",
		},
		{
			name:   "tables.timeout",
			envKey: "PALETTE_TABLES_TIMEOUT",
			envVal: "2s",
			field:  func(c Config) any { return c.Tables.Timeout },
			want:   2 * time.Second,
		},
		{
			name:   "palettes.watch",
			envKey: "PALETTE_PALETTES_WATCH",
			envVal: "true",
			field:  func(c Config) any { return c.Palettes.Watch },
			want:   true,
		},
		{
			name:   "codec.max_depth",
			envKey: "PALETTE_CODEC_MAX_DEPTH",
			envVal: "4",
			field:  func(c Config) any { return c.Codec.MaxDepth },
			want:   4,
		},
		{
			name:   "log.level",
			envKey: "PALETTE_LOG_LEVEL",
			envVal: "debug",
			field:  func(c Config) any { return c.Log.Level },
			want:   "debug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			// Nested keys map to PALETTE_SECTION_KEY env vars.
			viper.SetEnvPrefix("PALETTE")
			viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
			viper.AutomaticEnv()

			t.Setenv(tt.envKey, tt.envVal)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() returned unexpected error: %v", err)
			}
			got := tt.field(cfg)
			if got != tt.want {
				t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	resetViper()

	path := filepath.Join(t.TempDir(), ".palette.yaml")
	yaml := "server:\n  port: 4000\npalettes:\n  dir: /srv/palettes\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("Server.Port = %d, want 4000", cfg.Server.Port)
	}
	if cfg.Palettes.Dir != "/srv/palettes" {
		t.Errorf("Palettes.Dir = %q, want /srv/palettes", cfg.Palettes.Dir)
	}
	if cfg.Palettes.FileMap != "palette_file_map.json" {
		t.Errorf("Palettes.FileMap = %q, want default", cfg.Palettes.FileMap)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"port too large", "server.port", 70000},
		{"negative port", "server.port", -1},
		{"zero depth", "codec.max_depth", 0},
		{"empty symbols file", "tables.symbols_file", ""},
		{"unknown log format", "log.format", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.val)

			_, err := LoadFrom(v)
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("LoadFrom() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestTablesConfig_Source(t *testing.T) {
	tc := TablesConfig{
		BlissaryMapURL:  "http://example.test/map.json",
		BlissaryMapFile: "map.json.gz",
		SymbolsFile:     "symbols.json",
		Timeout:         time.Second,
	}
	want := tables.Source{
		BlissaryMapURL:  "http://example.test/map.json",
		BlissaryMapFile: "map.json.gz",
		SymbolsFile:     "symbols.json",
		Timeout:         time.Second,
	}
	if got := tc.Source(); got != want {
		t.Errorf("Source() = %+v, want %+v", got, want)
	}
}
