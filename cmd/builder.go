package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/adaptive-palette/internal/ui"
)

var builderCmd = &cobra.Command{
	Use:   "builder <id>",
	Short: "Render an identifier as a Blissary builder string",
	Long: `Renders a BCI-AV-ID, or a builder string in either dialect, in Blissary
notation. Example: "palette builder 15474/14947" prints B441/B310.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuilder,
}

func init() {
	builderCmd.Flags().BoolP("quiet", "q", false, "print only the builder string")
	rootCmd.AddCommand(builderCmd)
}

func runBuilder(cmd *cobra.Command, args []string) error {
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
	s, err := codec.BuilderString(id)
	if err != nil {
		return err
	}

	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		fmt.Fprintln(cmd.OutOrStdout(), s)
		return nil
	}
	ui.New(cmd.OutOrStdout()).Builder(id, s)
	return nil
}
