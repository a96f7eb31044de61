package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papapumpkin/adaptive-palette/internal/bliss"
	"github.com/papapumpkin/adaptive-palette/internal/config"
	"github.com/papapumpkin/adaptive-palette/internal/logging"
	"github.com/papapumpkin/adaptive-palette/internal/palette"
	"github.com/papapumpkin/adaptive-palette/internal/tables"
	"github.com/papapumpkin/adaptive-palette/internal/telemetry"
)

// env is what a command needs once configuration is loaded: the logger,
// the optional telemetry stream, and lazily the tables and palettes.
type env struct {
	cfg       config.Config
	log       *zap.Logger
	telemetry *telemetry.Emitter
}

func newEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Log.Level = "debug"
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, log: log}
	if cfg.Telemetry.Path != "" {
		em, err := telemetry.Open(cfg.Telemetry.Path)
		if err != nil {
			return nil, err
		}
		e.telemetry = em
	}
	return e, nil
}

func (e *env) close() {
	if err := e.telemetry.Close(); err != nil {
		e.log.Warn("closing telemetry", zap.Error(err))
	}
	_ = e.log.Sync()
}

func (e *env) emit(evt telemetry.Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	if err := e.telemetry.Emit(evt); err != nil {
		e.log.Warn("telemetry emit failed", zap.Error(err))
	}
}

// codec loads both tables and builds the codec.
func (e *env) codec(ctx context.Context) (*bliss.Codec, error) {
	start := time.Now()
	t, err := tables.Load(ctx, e.cfg.Tables.Source(), nil)
	if err != nil {
		return nil, err
	}
	codec := t.Codec(bliss.WithMaxDepth(e.cfg.Codec.MaxDepth))

	e.log.Debug("tables loaded",
		zap.Int("symbols", len(t.Symbols)),
		zap.Int("mappings", codec.MappingCount()),
		zap.Duration("took", time.Since(start)))
	e.emit(telemetry.Event{Kind: telemetry.KindTablesLoaded, Data: map[string]int{
		"symbols":  len(t.Symbols),
		"mappings": codec.MappingCount(),
	}})
	return codec, nil
}

// store opens the palette directory. With all set, every palette file is
// loaded up front; otherwise palettes load on first use through the file
// map.
func (e *env) store(all bool) (*palette.Store, error) {
	s := palette.NewStore(e.cfg.Palettes.Dir, e.cfg.Palettes.FileMap)
	if !all {
		if err := s.LoadFileMap(); err != nil {
			return nil, err
		}
		return s, nil
	}

	names, err := s.LoadDir()
	if err != nil {
		return nil, err
	}
	for _, n := range names {
		e.emit(telemetry.Event{Kind: telemetry.KindPaletteLoaded, Palette: n})
	}
	e.log.Debug("palettes loaded", zap.String("dir", s.Dir()), zap.Strings("names", names))
	return s, nil
}
