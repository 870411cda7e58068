package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scrcpyctl/internal/app"
)

func init() {
	rootCmd.AddCommand(cmdArgv)
}

var (
	argvSerial   string
	argvTemplate string
)

func init() {
	cmdArgv.Flags().StringVarP(&argvSerial, "serial", "s", "", "Device serial to target")
	cmdArgv.Flags().StringVarP(&argvTemplate, "template", "T", "", "Template whose flags are added")
	cmdArgv.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w (put scrcpy flags after --)", err)
	})
}

var cmdArgv = &cobra.Command{
	Use:   "argv [-s serial] [-T template] [-- scrcpy-flags...]",
	Short: "Print the scrcpy argument list for a device",
	Long: `Combines the device's default flags, an optional template and extra flags,
checks them and prints the resulting scrcpy arguments, one per line. The
extra scrcpy flags go after "--" so they are not read as argv's own flags:

  scrcpyctl argv -s R58M -T low -- --fullscreen --max-size 1024`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		defer ctrl.Close()

		argv, err := ctrl.LaunchArgs(cmd.Context(), app.LaunchParams{
			Serial:   argvSerial,
			Template: argvTemplate,
			Flags:    joinArgs(args),
		})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, arg := range argv {
			fmt.Fprintf(out, "%q\n", arg)
		}
		return nil
	},
}
