package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"scrcpyctl/internal/app"
	"scrcpyctl/internal/config"
	"scrcpyctl/internal/logging"
	"scrcpyctl/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "Path to TOML config file")
	flag.Parse()

	logging.ConfigureRuntime()

	if err := run(*configPath); err != nil {
		log.Error().Err(err).Msg("tui exited with error")
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	controller := app.New(app.Options{Config: cfg})
	defer controller.Close()

	return tui.Run(controller)
}
