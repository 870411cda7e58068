package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"scrcpyctl/internal/app"
)

func init() {
	keepScrcpyFlags(cmdDeviceFlagsSet)
	cmdDeviceFlags.AddCommand(cmdDeviceFlagsGet, cmdDeviceFlagsSet)
	rootCmd.AddCommand(cmdDeviceFlags)
}

var cmdDeviceFlags = &cobra.Command{
	Use:   "device-flags",
	Short: "Manage default scrcpy flags per device",
}

var cmdDeviceFlagsGet = &cobra.Command{
	Use:   "get <serial>",
	Short: "Print the default flags of a device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		defer ctrl.Close()

		defaults, err := ctrl.DeviceFlags(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(defaults) == 0 {
			fmt.Fprintln(out, "No default flags")
			return nil
		}
		keys := make([]string, 0, len(defaults))
		for k := range defaults {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "%s=%v\n", k, defaults[k])
		}
		return nil
	},
}

var cmdDeviceFlagsSet = &cobra.Command{
	Use:   "set <serial> [key=value...]",
	Short: "Replace the default flags of a device",
	Long: `Replaces the device's defaults with the given key=value pairs. true and
false are stored as switches; keys may be written with their dashes
(--max-size=800). With no pairs the defaults are cleared.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		head, pairs := passthroughArgs(args, 1)

		ctrl, err := controller()
		if err != nil {
			return err
		}
		defer ctrl.Close()

		defaults := app.ParseFlagDefaults(strings.Join(pairs, "\n"))
		if err := ctrl.SetDeviceFlags(cmd.Context(), app.SetDeviceFlagsParams{Serial: head[0], Flags: defaults}); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(defaults) == 0 {
			fmt.Fprintf(out, "Cleared default flags of %s\n", head[0])
			return nil
		}
		fmt.Fprintf(out, "Default flags of %s: %s\n", head[0], strings.Join(app.DefaultArgs(defaults), " "))
		return nil
	},
}
