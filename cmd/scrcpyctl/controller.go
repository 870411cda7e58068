package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"scrcpyctl/internal/app"
	"scrcpyctl/internal/config"
	"scrcpyctl/internal/flags"
	"scrcpyctl/internal/instance"
)

// controllerAPI is the slice of app.App the commands use.
type controllerAPI interface {
	Snapshot(ctx context.Context, params app.SnapshotParams) (app.Snapshot, error)
	Refresh(ctx context.Context, params app.RefreshParams) (app.Snapshot, error)
	Probe(ctx context.Context) (map[string]string, error)
	Rename(ctx context.Context, params app.RenameParams) (string, error)
	Templates(ctx context.Context) ([]instance.Template, error)
	SaveTemplate(ctx context.Context, params app.SaveTemplateParams) (flags.Result, error)
	DeleteTemplate(ctx context.Context, name string) error
	DeviceFlags(ctx context.Context, serial string) (instance.FlagDefaults, error)
	SetDeviceFlags(ctx context.Context, params app.SetDeviceFlagsParams) error
	CheckFlags(raw string) flags.Result
	LaunchArgs(ctx context.Context, params app.LaunchParams) ([]string, error)
	Ping(ctx context.Context, timeout time.Duration) (string, error)
	Status() (app.DaemonStatus, error)
	StopDaemon(force bool) error
	StartDaemon(ctx context.Context) (*app.DaemonHandle, error)
	Close() error
}

var controllerFactory = defaultController

func defaultController() (controllerAPI, error) {
	cfg, err := config.Load(resolveConfigPath(configPath))
	if err != nil {
		return nil, err
	}
	return app.New(app.Options{Config: cfg}), nil
}

// controller builds the controller for one command run.
func controller() (controllerAPI, error) {
	ctrl, err := controllerFactory()
	if err != nil {
		return nil, err
	}
	if ctrl == nil {
		return nil, errors.New("no controller")
	}
	return ctrl, nil
}

// resolveConfigPath returns explicit, or the per-user config.toml when it
// exists.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	candidate := filepath.Join(dir, "scrcpyctl", "config.toml")
	if _, err := os.Stat(candidate); err != nil {
		return ""
	}
	return candidate
}
