package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"scrcpyctl/internal/app"
	"scrcpyctl/internal/inventory"
)

func init() {
	rootCmd.AddCommand(cmdScan)
}

var (
	scanFile    string
	devicesFile string
	scanTimeout time.Duration
)

func init() {
	cmdScan.Flags().StringVar(&scanFile, "scan-file", "", "Read scan helper output from a file (- for stdin) instead of running it")
	cmdScan.Flags().StringVar(&devicesFile, "devices-file", "", "Read `adb devices -l` output from a file instead of running adb")
	cmdScan.Flags().DurationVarP(&scanTimeout, "timeout", "t", 5*time.Second, "Timeout for the helper runs")
}

var cmdScan = &cobra.Command{
	Use:   "scan",
	Short: "List running scrcpy instances grouped by device",
	Long: `Runs the scan helper and adb (or reads their saved output), records the
running instances and prints them with their names.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		defer ctrl.Close()

		var snap app.Snapshot
		if scanFile != "" || devicesFile != "" {
			params, err := readSnapshotParams(cmd.InOrStdin(), scanFile, devicesFile)
			if err != nil {
				return err
			}
			snap, err = ctrl.Snapshot(cmd.Context(), params)
			if err != nil {
				return err
			}
		} else {
			spin := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
			spin.Suffix = " Scanning..."
			spin.Start()
			snap, err = ctrl.Refresh(cmd.Context(), app.RefreshParams{Timeout: scanTimeout})
			spin.Stop()
			if err != nil {
				return err
			}
		}

		printSnapshot(cmd.OutOrStdout(), snap)
		return nil
	},
}

func readSnapshotParams(stdin io.Reader, scanPath, devicesPath string) (app.SnapshotParams, error) {
	var params app.SnapshotParams
	if scanPath != "" {
		text, err := readInput(stdin, scanPath)
		if err != nil {
			return params, fmt.Errorf("read scan output: %w", err)
		}
		params.ScanOutput = text
	}
	if devicesPath != "" {
		text, err := readInput(stdin, devicesPath)
		if err != nil {
			return params, fmt.Errorf("read devices output: %w", err)
		}
		params.DevicesOutput = text
	}
	return params, nil
}

func readInput(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func printSnapshot(w io.Writer, snap app.Snapshot) {
	for _, warning := range snap.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	if len(snap.Groups) == 0 {
		fmt.Fprintln(w, "No devices or scrcpy instances found")
		return
	}
	for _, g := range snap.Groups {
		fmt.Fprintln(w, groupHeading(g))
		if len(g.Instances) == 0 {
			fmt.Fprintln(w, "  (no instances)")
			continue
		}
		for _, inst := range g.Instances {
			flags := strings.Join(inst.Flags, " ")
			if flags == "" {
				flags = "-"
			}
			fmt.Fprintf(w, "  [%d] %s  key=%s pid=%d conn=%s flags=%s\n",
				inst.Number, inst.Name, inst.Key, inst.Record.PID, inst.Conn, flags)
		}
	}
	if snap.Skipped > 0 {
		fmt.Fprintf(w, "%d unidentifiable process row(s) skipped\n", snap.Skipped)
	}
}

func groupHeading(g inventory.Group) string {
	switch {
	case g.Card != nil && g.Card.Title != g.Serial:
		return fmt.Sprintf("%s (%s)", g.Card.Title, g.Serial)
	case g.Card != nil:
		return g.Serial
	case g.Serial == inventory.UnknownSerial:
		return "Unknown device"
	default:
		return g.Serial + " (not connected)"
	}
}
