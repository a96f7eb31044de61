package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/adaptive-palette/internal/ui"
)

var palettesCmd = &cobra.Command{
	Use:   "palettes [name]",
	Short: "List palettes, or show one palette's cells",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPalettes,
}

func init() {
	palettesCmd.Flags().Bool("json", false, "print the palette as JSON")
	rootCmd.AddCommand(palettesCmd)
}

func runPalettes(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	out := ui.New(cmd.OutOrStdout())
	if len(args) == 0 {
		store, err := e.store(true)
		if err != nil {
			return err
		}
		out.PaletteList(store.Names())
		return nil
	}

	store, err := e.store(false)
	if err != nil {
		return err
	}
	p, err := store.Named(args[0])
	if err != nil {
		return err
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}
	out.Palette(p)
	return nil
}
