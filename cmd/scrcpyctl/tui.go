package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scrcpyctl/internal/tui"
)

func init() {
	rootCmd.AddCommand(cmdTUI)
}

var cmdTUI = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		defer ctrl.Close()

		if err := tui.Run(ctrl); err != nil {
			return fmt.Errorf("tui exited with error: %w", err)
		}
		return nil
	},
}
