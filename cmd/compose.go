package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/adaptive-palette/internal/palette"
	"github.com/papapumpkin/adaptive-palette/internal/ui"
)

var composeCmd = &cobra.Command{
	Use:   "compose <cell>...",
	Short: "Replay palette cell presses and print the resulting sentence",
	Long: `Starts on the home palette and activates each cell in turn, as a user
tapping through the palettes would. A cell is named by its ID in the
current palette, or as "palette:cell" for a cell in another palette such
as the command bar.

Example: palette compose tok-know ind-future br-people tok-conj`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompose,
}

func init() {
	composeCmd.Flags().String("home", "home", "palette to start from")
	rootCmd.AddCommand(composeCmd)
}

func runCompose(cmd *cobra.Command, args []string) error {
	home, _ := cmd.Flags().GetString("home")

	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()
	codec, err := e.codec(cmd.Context())
	if err != nil {
		return err
	}
	store, err := e.store(false)
	if err != nil {
		return err
	}

	sess, err := palette.NewSession(store, codec, home)
	if err != nil {
		return err
	}
	for _, ref := range args {
		if _, err := sess.Activate(ref); err != nil {
			return fmt.Errorf("cell %s: %w", ref, err)
		}
	}

	builder, err := sess.Encoding.Builder(codec)
	if err != nil {
		return err
	}
	ui.New(cmd.OutOrStdout()).Sentence(sess.Nav.Current().Name, sess.Encoding.Text(), builder)
	return nil
}
