package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "palette",
	Short: "Bliss symbol codec and palette server",
	Long: `palette translates Bliss symbol identifiers between BCI-AV-IDs, Blissary
and BCI-AV builder strings, and their decomposed parts. It also serves the
palette web client and a JSON API over the same codec.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .palette.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("symbols", "", "symbol table file (overrides tables.symbols_file)")
	rootCmd.PersistentFlags().String("blissary-map", "", "blissary map file (overrides tables.blissary_map_url)")
	rootCmd.PersistentFlags().String("palettes", "", "palette directory (overrides palettes.dir)")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("tables.symbols_file", rootCmd.PersistentFlags().Lookup("symbols"))
	_ = viper.BindPFlag("tables.blissary_map_file", rootCmd.PersistentFlags().Lookup("blissary-map"))
	_ = viper.BindPFlag("palettes.dir", rootCmd.PersistentFlags().Lookup("palettes"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".palette")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("PALETTE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}
