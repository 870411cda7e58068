package app

import (
	"context"
	"io"

	"github.com/rs/zerolog/log"

	"scrcpyctl/internal/daemon"
)

// DaemonStatus represents current information about the daemon process.
type DaemonStatus struct {
	Running bool
	PID     int
	Socket  string
}

// Status returns whether the daemon is running and its PID if known.
func (a *App) Status() (DaemonStatus, error) {
	st := DaemonStatus{Socket: daemon.SocketPath()}
	if !daemonIsRunning() {
		return st, nil
	}
	st.Running = true
	pid, err := daemon.RunningPID()
	if err != nil {
		return st, err
	}
	st.PID = pid
	return st, nil
}

// StopDaemon attempts to stop the running daemon.
func (a *App) StopDaemon(force bool) error {
	return daemon.StopRunningDaemon(force)
}

// DaemonHandle holds a running daemon instance.
type DaemonHandle struct {
	srv     *daemon.Server
	backend io.Closer
}

// Close stops the running daemon instance and its backend.
func (h *DaemonHandle) Close() error {
	if h == nil || h.srv == nil {
		return nil
	}
	err := h.srv.Close()
	if h.backend != nil {
		if cerr := h.backend.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// StartDaemon serves the local store backend over the daemon socket. A
// daemon backend in the config falls back to the default file store.
func (a *App) StartDaemon(ctx context.Context) (*DaemonHandle, error) {
	cfg, err := localConfig(a.cfg)
	if err != nil {
		return nil, err
	}
	backend, closer, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	srv, err := daemon.StartDaemon(backend)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}
	log.Info().Str("backend", string(cfg.Backend)).Str("path", cfg.StorePath).Msg("daemon serving store")
	return &DaemonHandle{srv: srv, backend: closer}, nil
}
