package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"scrcpyctl/internal/app"
)

func init() {
	keepScrcpyFlags(cmdTemplateSet)
	cmdTemplate.AddCommand(cmdTemplateList, cmdTemplateSet, cmdTemplateRm)
	rootCmd.AddCommand(cmdTemplate)
}

var cmdTemplate = &cobra.Command{
	Use:   "template",
	Short: "Manage named scrcpy flag templates",
}

var cmdTemplateList = &cobra.Command{
	Use:   "list",
	Short: "List templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		defer ctrl.Close()

		templates, err := ctrl.Templates(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(templates) == 0 {
			fmt.Fprintln(out, "No templates")
			return nil
		}
		for _, tpl := range templates {
			fmt.Fprintf(out, "%s\t%s\n", tpl.Name, tpl.Flags)
		}
		return nil
	},
}

var cmdTemplateSet = &cobra.Command{
	Use:   "set <name> <flags...>",
	Short: "Create or replace a template",
	Long: `Stores the flags under name. The flags are checked first; flags that pick
the device or transport (-s, --serial, -d, -e, --tcpip, ...) are refused.
Everything after the name is read as scrcpy flags:

  scrcpyctl template set low --max-size 800 --video-bit-rate 2M`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		head, scrcpyFlags := passthroughArgs(args, 1)
		if len(scrcpyFlags) == 0 {
			return errors.New("no flags given")
		}

		ctrl, err := controller()
		if err != nil {
			return err
		}
		defer ctrl.Close()

		res, err := ctrl.SaveTemplate(cmd.Context(), app.SaveTemplateParams{
			Name:  head[0],
			Flags: joinArgs(scrcpyFlags),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved template %q: %s\n", strings.TrimSpace(head[0]), res.Sanitized)
		return nil
	},
}

var cmdTemplateRm = &cobra.Command{
	Use:   "rm <name>",
	Short: "Remove a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		defer ctrl.Close()

		if err := ctrl.DeleteTemplate(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed template %q\n", strings.TrimSpace(args[0]))
		return nil
	},
}
