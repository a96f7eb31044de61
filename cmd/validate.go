package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/adaptive-palette/internal/bliss"
	"github.com/papapumpkin/adaptive-palette/internal/palette"
	"github.com/papapumpkin/adaptive-palette/internal/ui"
)

// errInvalidPalettes is returned when validate finds at least one problem.
var errInvalidPalettes = errors.New("palette validation failed")

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check palette files for structural errors",
	Long: `Checks every palette file in the palette directory (or dir). With
--check-ids, also loads the symbol tables and checks that every symbol a
cell emits decomposes and has a Blissary mapping.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().Bool("check-ids", false, "check cell identifiers against the symbol tables")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	dir := e.cfg.Palettes.Dir
	if len(args) == 1 {
		dir = args[0]
	}

	var codec *bliss.Codec
	if check, _ := cmd.Flags().GetBool("check-ids"); check {
		if codec, err = e.codec(cmd.Context()); err != nil {
			return err
		}
	}

	files, err := paletteFiles(dir, e.cfg.Palettes.FileMap)
	if err != nil {
		return err
	}

	out := ui.New(cmd.OutOrStdout())
	var problems int
	for _, path := range files {
		p, err := palette.LoadFile(path)
		if err != nil {
			out.Error(err.Error())
			problems++
			continue
		}
		if codec != nil {
			for _, msg := range checkIDs(codec, p) {
				out.Error(filepath.Base(path) + ": " + msg)
				problems++
			}
		}
	}

	if problems > 0 {
		return fmt.Errorf("%w: %d problem(s) in %s", errInvalidPalettes, problems, dir)
	}
	out.OK(fmt.Sprintf("%d palette file(s) valid", len(files)))
	return nil
}

func paletteFiles(dir, fileMap string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading palette directory: %w", err)
	}
	var files []string
	for _, ent := range entries {
		name := ent.Name()
		if ent.IsDir() || name == fileMap {
			continue
		}
		switch strings.ToLower(filepath.Ext(name)) {
		case ".json", ".toml":
			files = append(files, filepath.Join(dir, name))
		}
	}
	sort.Strings(files)
	return files, nil
}

// checkIDs reports cells whose identifier the tables cannot expand or render.
func checkIDs(codec *bliss.Codec, p *palette.Palette) []string {
	var msgs []string
	for _, cellID := range p.CellIDs() {
		cell := p.Cells[cellID]
		if cell.Type != palette.CellBmwCode && cell.Type != palette.CellIndicator {
			continue
		}
		id, err := cell.Options.ID()
		if err != nil {
			msgs = append(msgs, fmt.Sprintf("cell %s: %v", cellID, err))
			continue
		}
		if _, ok, err := codec.Expand(id); err != nil {
			msgs = append(msgs, fmt.Sprintf("cell %s: %v", cellID, err))
			continue
		} else if !ok {
			msgs = append(msgs, fmt.Sprintf("cell %s: unknown BCI-AV-ID %s", cellID, id))
			continue
		}
		if _, err := codec.BuilderString(id); err != nil {
			msgs = append(msgs, fmt.Sprintf("cell %s: %v", cellID, err))
		}
	}
	return msgs
}
