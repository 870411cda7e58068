package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"scrcpyctl/internal/config"
	"scrcpyctl/internal/daemon"
	"scrcpyctl/internal/store"
)

const daemonDialTimeout = 2 * time.Second

func openStore(ctx context.Context, cfg config.Config) (store.Store, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendDaemon:
		if !daemonIsRunning() {
			return nil, nil, daemon.ErrNotRunning
		}
		dialCtx, cancel := context.WithTimeout(ctx, daemonDialTimeout)
		defer cancel()
		client, conn, err := dialDaemonClient(dialCtx)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to daemon: %w", err)
		}
		return client, conn, nil
	case config.BackendSQLite:
		s, err := store.OpenSQLite(ctx, cfg.StorePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.BackendFile, "":
		f, err := store.OpenFile(cfg.StorePath)
		if err != nil {
			return nil, nil, err
		}
		return f, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// localConfig maps the daemon backend onto the file backend the daemon
// itself serves from.
func localConfig(cfg config.Config) (config.Config, error) {
	if cfg.Backend != config.BackendDaemon {
		return cfg, nil
	}
	cfg.Backend = config.BackendFile
	path, err := config.DefaultStorePath(cfg.Backend)
	if err != nil {
		return cfg, err
	}
	cfg.StorePath = path
	return cfg, nil
}
