package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"scrcpyctl/internal/adb"
	"scrcpyctl/internal/app"
)

func init() {
	rootCmd.AddCommand(cmdDevices)
}

var devicesInput string

func init() {
	cmdDevices.Flags().StringVar(&devicesInput, "devices-file", "", "Parse saved `adb devices -l` output (- for stdin) instead of scanning")
}

var cmdDevices = &cobra.Command{
	Use:   "devices",
	Short: "List the devices adb reports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var devices []adb.Device
		var warnings []string
		if devicesInput != "" {
			text, err := readInput(cmd.InOrStdin(), devicesInput)
			if err != nil {
				return fmt.Errorf("read devices output: %w", err)
			}
			devices = adb.ParseDevices(text)
		} else {
			ctrl, err := controller()
			if err != nil {
				return err
			}
			defer ctrl.Close()
			snap, err := ctrl.Refresh(cmd.Context(), app.RefreshParams{Timeout: 5 * time.Second})
			if err != nil {
				return err
			}
			devices, warnings = snap.Devices, snap.Warnings
		}

		out := cmd.OutOrStdout()
		for _, warning := range warnings {
			fmt.Fprintf(out, "warning: %s\n", warning)
		}
		if len(devices) == 0 {
			fmt.Fprintln(out, "No devices attached")
			return nil
		}
		online := adb.Online(devices)
		for _, d := range devices {
			model := d.Model
			if model == "" {
				model = "-"
			}
			mark := " "
			if online[d.Serial] {
				mark = "*"
			}
			fmt.Fprintf(out, "%s %s\t%s\t%s\n", mark, d.Serial, d.State, model)
		}
		return nil
	},
}
