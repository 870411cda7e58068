package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"scrcpyctl/internal/app"
	"scrcpyctl/internal/config"
	"scrcpyctl/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "Path to TOML config file")
	force := flag.Bool("force", false, "Stop an existing daemon before starting")
	flag.Parse()

	logging.ConfigureRuntime()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, *configPath, *force)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("daemon failed")
		os.Exit(1)
	}
}

// run serves the store until ctx is done. The controller is always closed
// before it returns.
func run(ctx context.Context, configPath string, force bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	controller := app.New(app.Options{Config: cfg})
	defer controller.Close()

	st, err := controller.Status()
	if st.Running {
		if !force {
			if err != nil {
				return fmt.Errorf("daemon appears running but pid check failed: %w", err)
			}
			log.Info().Int("pid", st.PID).Msg("daemon is already running, use --force to restart")
			return nil
		}
		log.Info().Msg("stopping existing daemon")
		if err := controller.StopDaemon(true); err != nil {
			return fmt.Errorf("stop running daemon: %w", err)
		}
	}

	handle, err := controller.StartDaemon(ctx)
	if err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}
	log.Info().Int("pid", os.Getpid()).Str("socket", st.Socket).Msg("daemon started, press Ctrl+C to stop")

	<-ctx.Done()
	log.Info().Msg("stopping daemon")
	if err := handle.Close(); err != nil {
		return fmt.Errorf("shut down daemon: %w", err)
	}
	log.Info().Msg("daemon stopped")
	return nil
}
