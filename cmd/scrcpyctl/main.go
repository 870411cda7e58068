package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"scrcpyctl/internal/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "scrcpyctl [command]",
	Short: "scrcpyctl: name and inspect running scrcpy sessions",
	Long: `scrcpyctl tracks running scrcpy mirroring sessions, gives them stable
numbered or custom names, groups them by Android device and checks extra
scrcpy flags before they are used.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.ConfigureRuntime()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to TOML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
