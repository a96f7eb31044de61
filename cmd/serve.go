package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papapumpkin/adaptive-palette/internal/config"
	"github.com/papapumpkin/adaptive-palette/internal/palette"
	"github.com/papapumpkin/adaptive-palette/internal/server"
	"github.com/papapumpkin/adaptive-palette/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the palette web client and the JSON API",
	Long: `Loads the symbol tables and palettes, then serves the web client from
the client directory together with /health and the /api endpoints. With
--watch, palette files edited on disk are reloaded without a restart.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "override server.port")
	serveCmd.Flags().String("client-dir", "", "override server.client_dir")
	serveCmd.Flags().Bool("watch", false, "reload palette files when they change")
	serveCmd.Flags().Bool("no-gzip", false, "disable response compression")
	rootCmd.AddCommand(serveCmd)
}

func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("port") {
		cfg.Server.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("client-dir") {
		cfg.Server.ClientDir, _ = cmd.Flags().GetString("client-dir")
	}
	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		cfg.Palettes.Watch = true
	}
	if noGzip, _ := cmd.Flags().GetBool("no-gzip"); noGzip {
		cfg.Server.Gzip = false
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()
	applyServeFlags(cmd, &e.cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	codec, err := e.codec(ctx)
	if err != nil {
		return fmt.Errorf("loading tables: %w", err)
	}
	store, err := e.store(true)
	if err != nil {
		return fmt.Errorf("loading palettes: %w", err)
	}

	if e.cfg.Palettes.Watch {
		w, err := palette.NewWatcher(store)
		if err != nil {
			return fmt.Errorf("watching palettes: %w", err)
		}
		if err := w.Start(); err != nil {
			return fmt.Errorf("watching palettes: %w", err)
		}
		defer w.Stop()
		go e.logChanges(w.Changes)
	}

	srv := server.New(server.Deps{
		Codec:     codec,
		Palettes:  store,
		Logger:    e.log,
		Telemetry: e.telemetry,
	}, server.Config{
		Port:      e.cfg.Server.Port,
		ClientDir: e.cfg.Server.ClientDir,
		Gzip:      e.cfg.Server.Gzip,
	})
	if err := srv.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Server is running at http://localhost:%d\n", e.cfg.Server.Port)

	<-ctx.Done()
	e.log.Info("shutting down")

	shutCtx, cancel := context.WithTimeout(context.Background(), e.cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Stop(shutCtx)
}

// logChanges reports palette reloads until the watcher stops.
func (e *env) logChanges(changes <-chan palette.Change) {
	for c := range changes {
		if c.Err != nil {
			e.log.Warn("palette file invalid, unloaded",
				zap.String("file", c.File), zap.String("palette", c.Palette), zap.Error(c.Err))
		} else {
			e.log.Info("palette "+c.Kind.String(), zap.String("file", c.File), zap.String("palette", c.Palette))
		}
		e.emit(telemetry.Event{
			Kind:    telemetry.KindPaletteReloaded,
			Palette: c.Palette,
			Data:    map[string]string{"change": c.Kind.String(), "file": c.File},
		})
	}
}
