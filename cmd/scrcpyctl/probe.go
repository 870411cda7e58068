package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cmdProbe)
}

var cmdProbe = &cobra.Command{
	Use:   "probe",
	Short: "Ask the scan helper to describe its environment",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		defer ctrl.Close()

		info, err := ctrl.Probe(cmd.Context())
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(info))
		for k := range info {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := cmd.OutOrStdout()
		for _, k := range keys {
			fmt.Fprintf(out, "%s=%s\n", k, info[k])
		}
		return nil
	},
}
