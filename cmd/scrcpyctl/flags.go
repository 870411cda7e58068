package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmdFlags.AddCommand(cmdFlagsCheck)
	rootCmd.AddCommand(cmdFlags)
}

var cmdFlags = &cobra.Command{
	Use:   "flags",
	Short: "Work with extra scrcpy flags",
}

var cmdFlagsCheck = &cobra.Command{
	Use:   "check <flags...>",
	Short: "Tokenize and check extra flags",
	Long: `Parses the flags the way a template or launch would and prints one
argument per line. Everything after "check" is read as scrcpy flags:

  scrcpyctl flags check --window-title "My Phone" --max-size 1024
  scrcpyctl flags check '--window-title "My Phone" --max-size 1024'

Give -c before "flags"; after "check" only --config is recognised.`,
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		args, help, err := rawCommandArgs(args)
		if err != nil {
			return err
		}
		if help {
			return cmd.Help()
		}
		if len(args) == 0 {
			return errors.New("no flags given")
		}

		ctrl, err := controller()
		if err != nil {
			return err
		}
		defer ctrl.Close()

		res := ctrl.CheckFlags(joinArgs(args))
		if err := res.Err(); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, arg := range res.Args {
			fmt.Fprintf(out, "%q\n", arg)
		}
		return nil
	},
}
