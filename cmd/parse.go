package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/adaptive-palette/internal/bliss"
	"github.com/papapumpkin/adaptive-palette/internal/ui"
)

var parseCmd = &cobra.Command{
	Use:   "parse <builder>",
	Short: "Parse a builder string into its sequence form",
	Long: `Parses a builder string such as "B403;B81" or "15474/K:-2/14947" into
its elements. The dialect is detected from the tokens unless --dialect is
given.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("dialect", "auto", "builder dialect: auto, blissary, bciav")
	parseCmd.Flags().Bool("json", false, "print the sequence as JSON")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("dialect")
	d, err := bliss.ParseDialect(name)
	if err != nil {
		return err
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

	c, err := codec.ParseBuilder(args[0], d)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(c)
	}
	ui.New(cmd.OutOrStdout()).Parsed(args[0], c)
	return nil
}
