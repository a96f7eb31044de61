package cmd

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/adaptive-palette/internal/config"
	"github.com/papapumpkin/adaptive-palette/internal/telemetry"
)

// errNoTelemetryFile is returned when neither --file nor telemetry.path is set.
var errNoTelemetryFile = errors.New("telemetry: no file configured (set telemetry.path or pass --file)")

var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "View the JSONL telemetry events written by the server",
	Long: `Reads and formats the JSONL telemetry file.

Without --file, reads the file named by telemetry.path.
With --follow (-f), watches the file for new events (like tail -f).`,
	RunE: runTelemetry,
}

func init() {
	telemetryCmd.Flags().String("file", "", "telemetry file (default: telemetry.path)")
	telemetryCmd.Flags().BoolP("follow", "f", false, "follow the file for new events")
	rootCmd.AddCommand(telemetryCmd)
}

func runTelemetry(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("file")
	follow, _ := cmd.Flags().GetBool("follow")

	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if path = cfg.Telemetry.Path; path == "" {
			return errNoTelemetryFile
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	defer f.Close()

	w := cmd.OutOrStdout()
	show := func(evt telemetry.Event) { fmt.Fprintln(w, evt) }
	if err := telemetry.Replay(f, show); err != nil {
		return err
	}
	if !follow {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return tailFollow(ctx, f, path, show)
}

// tailFollow shows events appended to f after the initial replay, waking on
// fsnotify writes, until ctx is done.
func tailFollow(ctx context.Context, f *os.File, path string, show func(telemetry.Event)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("telemetry: create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("telemetry: watch %s: %w", path, err)
	}

	reader := bufio.NewReader(f)
	var partial []byte
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("telemetry: watch %s: %w", path, err)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) {
				continue
			}
		}
		for {
			chunk, err := reader.ReadBytes('\n')
			partial = append(partial, chunk...)
			if err != nil {
				// Keep an unterminated line until the writer finishes it.
				break
			}
			if len(bytes.TrimSpace(partial)) > 0 {
				show(telemetry.ParseLine(partial))
			}
			partial = partial[:0]
		}
	}
}
