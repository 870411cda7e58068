package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"scrcpyctl/internal/app"
)

func init() {
	rootCmd.AddCommand(cmdName)
}

var nameOutside bool

func init() {
	cmdName.Flags().BoolVar(&nameOutside, "outside", false, "Use the outside-device wording for the generated name")
}

var cmdName = &cobra.Command{
	Use:   "name <instance-key> [name...]",
	Short: "Set or clear the custom name of an instance",
	Long: `Sets the display name of the instance with the given key (as printed by
"scrcpyctl scan"). Without a name the custom name is removed and the
numbered name is shown again.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		defer ctrl.Close()

		name, err := ctrl.Rename(cmd.Context(), app.RenameParams{
			Key:     args[0],
			Name:    strings.Join(args[1:], " "),
			Outside: nameOutside,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), name)
		return nil
	},
}
