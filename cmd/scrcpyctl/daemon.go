package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

func init() {
	cmdDaemon.AddCommand(cmdDaemonStatus, cmdDaemonStop)
	rootCmd.AddCommand(cmdDaemon)
}

var (
	daemonForceRestart bool
	daemonStopForce    bool
)

func init() {
	cmdDaemon.Flags().BoolVarP(&daemonForceRestart, "force", "f", false, "Restart the daemon if it is already running")
	cmdDaemonStop.Flags().BoolVarP(&daemonStopForce, "force", "f", false, "Kill the daemon if it does not stop in time")
}

var cmdDaemon = &cobra.Command{
	Use:   "daemon",
	Short: "Start the store daemon",
	Long: `The daemon serves the configured store over a unix socket so several
scrcpyctl processes share one view of names, numbers and templates. Set
backend = "daemon" in the config to use it. If the daemon is already running
nothing happens unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		defer ctrl.Close()
		out := cmd.OutOrStdout()

		st, err := ctrl.Status()
		if st.Running {
			if !daemonForceRestart {
				message := "Daemon is already running. Stop it manually or re-run with --force."
				if st.PID != 0 {
					message = fmt.Sprintf("Daemon is already running (pid %d). Stop it manually or re-run with --force.", st.PID)
				}
				if err != nil {
					message = fmt.Sprintf("Error checking if daemon is running: %v", err)
				}
				fmt.Fprintln(out, message)
				return nil
			}
			fmt.Fprintln(out, "Stopping existing daemon process...")
			if err := ctrl.StopDaemon(true); err != nil {
				return err
			}
		}

		handle, err := ctrl.StartDaemon(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Started daemon process on %s\n", st.Socket)
		runSpin := spinner.New(spinner.CharSets[21], 120*time.Millisecond, spinner.WithWriter(os.Stderr))
		runSpin.Suffix = " Running..."
		runSpin.Start()

		sigc := make(chan os.Signal, 2)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigc)
		select {
		case <-sigc:
		case <-cmd.Context().Done():
		}
		runSpin.Stop()
		return handle.Close()
	},
}

var cmdDaemonStatus = &cobra.Command{
	Use:   "status",
	Short: "Report whether the daemon is running",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		defer ctrl.Close()

		st, err := ctrl.Status()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !st.Running {
			fmt.Fprintf(out, "Daemon is not running (socket %s)\n", st.Socket)
			return nil
		}
		if st.PID != 0 {
			fmt.Fprintf(out, "Daemon is running (pid %d, socket %s)\n", st.PID, st.Socket)
			return nil
		}
		fmt.Fprintf(out, "Daemon is running (socket %s)\n", st.Socket)
		return nil
	},
}

var cmdDaemonStop = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		defer ctrl.Close()

		if err := ctrl.StopDaemon(daemonStopForce); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Daemon stopped")
		return nil
	},
}
