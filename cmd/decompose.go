package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/adaptive-palette/internal/bliss"
	"github.com/papapumpkin/adaptive-palette/internal/telemetry"
	"github.com/papapumpkin/adaptive-palette/internal/ui"
)

var decomposeCmd = &cobra.Command{
	Use:   "decompose <id>",
	Short: "Expand an identifier into its primitive parts",
	Long: `Expands a BCI-AV-ID, or a builder string in either dialect, into the
sequence of primitive symbols, indicators, and modifiers it is built from.
With --tree, shows each composition level of a BCI-AV-ID.`,
	Args: cobra.ExactArgs(1),
	RunE: runDecompose,
}

func init() {
	decomposeCmd.Flags().Bool("tree", false, "show the expansion level by level")
	decomposeCmd.Flags().Bool("json", false, "print the composition as JSON")
	decomposeCmd.Flags().Bool("expand", false, "also expand the symbols of a sequence argument")
	rootCmd.AddCommand(decomposeCmd)
}

func runDecompose(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()
	codec, err := e.codec(cmd.Context())
	if err != nil {
		return err
	}

	id, err := codec.ParseID(args[0])
	if err != nil {
		return err
	}
	out := ui.New(cmd.OutOrStdout())

	if tree, _ := cmd.Flags().GetBool("tree"); tree {
		scalar, ok := id.(bliss.Scalar)
		if !ok {
			return fmt.Errorf("--tree needs a single BCI-AV-ID, got %s", id)
		}
		root, err := ui.ExpansionTree(codec, int(scalar))
		if err != nil {
			return err
		}
		out.Tree(root)
		return nil
	}

	decompose := codec.Decompose
	if expand, _ := cmd.Flags().GetBool("expand"); expand {
		decompose = codec.Expand
	}
	parts, ok, err := decompose(id)
	if err != nil {
		return err
	}
	if !ok {
		e.emit(telemetry.Event{Kind: telemetry.KindLookupMiss, Symbol: id.String()})
		return &bliss.LookupError{Kind: "BCI-AV-ID", ID: int(id.(bliss.Scalar))}
	}
	e.emit(telemetry.Event{Kind: telemetry.KindComposition, Symbol: id.String()})

	asJSON, _ := cmd.Flags().GetBool("json")
	if scalar, isScalar := id.(bliss.Scalar); isScalar {
		comp := bliss.Composition{BciAvID: int(scalar), Parts: parts}
		if asJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(comp)
		}
		out.Composition(comp)
		return nil
	}

	if asJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(parts)
	}
	out.Parsed(id.String(), parts)
	out.Analysis(parts)
	return nil
}
