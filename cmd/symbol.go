package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/adaptive-palette/internal/bliss"
	"github.com/papapumpkin/adaptive-palette/internal/ui"
)

var symbolCmd = &cobra.Command{
	Use:   "symbol <bci-av-id>",
	Short: "Show the symbol-table entry for a BCI-AV-ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runSymbol,
}

func init() {
	rootCmd.AddCommand(symbolCmd)
}

func runSymbol(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || id < 0 {
		return fmt.Errorf("%w: %q is not a BCI-AV-ID", bliss.ErrInvalidID, args[0])
	}

	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()
	codec, err := e.codec(cmd.Context())
	if err != nil {
		return err
	}

	sym, ok := codec.FindSymbol(bliss.Scalar(id))
	if !ok {
		return &bliss.LookupError{Kind: "BCI-AV-ID", ID: id}
	}
	var mapping *bliss.BlissaryEntry
	if m, ok := codec.BlissaryID(id); ok {
		mapping = &m
	}
	ui.New(cmd.OutOrStdout()).Symbol(id, sym, mapping)
	return nil
}
