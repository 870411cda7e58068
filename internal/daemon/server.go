package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"scrcpyctl/internal/store"
)

// RequestIDHeader carries the id the daemon assigned to a call.
const RequestIDHeader = "x-request-id"

// Server owns the UNIX listener and the gRPC server behind it.
type Server struct {
	grpc *grpc.Server
	ln   net.Listener
	path string
}

// NewGRPCServer returns a gRPC server exposing backend as the store service.
func NewGRPCServer(backend store.Store) *grpc.Server {
	s := grpc.NewServer(grpc.UnaryInterceptor(requestLogger))
	RegisterStoreServer(s, newService(backend))
	return s
}

// StartDaemon binds the UNIX socket, records the pid and serves backend.
func StartDaemon(backend store.Store) (*Server, error) {
	if err := EnsureRuntimeDir(); err != nil {
		return nil, fmt.Errorf("create runtime dir: %w", err)
	}
	path := SocketPath()

	// A socket file nobody answers on is left over from a crash.
	if _, err := os.Stat(path); err == nil {
		if IsRunning() {
			return nil, ErrAlreadyRunning
		}
		if err := os.Remove(path); err != nil {
			return nil, err
		}
	}

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(path, 0o600); err != nil {
		ln.Close()
		return nil, err
	}
	s := &Server{grpc: NewGRPCServer(backend), ln: ln, path: path}
	if err := WritePID(os.Getpid()); err != nil {
		s.Close()
		return nil, err
	}
	go func() {
		if err := s.grpc.Serve(ln); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			log.Error().Err(err).Str("socket", path).Msg("daemon serve stopped")
		}
	}()
	log.Info().Str("socket", path).Int("pid", os.Getpid()).Msg("daemon listening")
	return s, nil
}

// Close stops serving, unlinks the socket and removes the pid file.
func (s *Server) Close() error {
	if s.grpc != nil {
		s.grpc.GracefulStop()
	} else if s.ln != nil {
		if err := s.ln.Close(); err != nil {
			return err
		}
	}
	if s.path != "" {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return RemovePID()
}

func requestLogger(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	id := uuid.NewString()
	_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, id))

	start := time.Now()
	resp, err := handler(ctx, req)

	ev := log.Debug()
	if err != nil {
		ev = log.Warn().Err(err)
	}
	ev.Str("request_id", id).
		Str("method", info.FullMethod).
		Dur("elapsed", time.Since(start)).
		Msg("rpc")
	return resp, err
}

// StopRunningDaemon sends a termination signal to the currently running daemon if any.
func StopRunningDaemon(force bool) error {
	pid, err := RunningPID()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if IsRunning() {
				return fmt.Errorf("daemon is running but PID file %q is missing; stop it manually", PIDPath())
			}
			return nil
		}
		return fmt.Errorf("unable to read daemon PID: %w", err)
	}
	if pid == os.Getpid() {
		return errors.New("refusing to stop current process")
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	if err := sendSignal(proc, syscall.SIGTERM); err != nil {
		return err
	}
	if waitForShutdown(3 * time.Second) {
		return nil
	}
	if !force {
		return fmt.Errorf("daemon process %d did not exit after SIGTERM", pid)
	}
	if err := sendSignal(proc, syscall.SIGKILL); err != nil {
		return err
	}
	if waitForShutdown(2 * time.Second) {
		return nil
	}
	return fmt.Errorf("daemon process %d did not exit after SIGKILL", pid)
}

func sendSignal(proc *os.Process, sig syscall.Signal) error {
	if err := proc.Signal(sig); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			_ = RemovePID()
			return nil
		}
		return err
	}
	return nil
}

func waitForShutdown(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if !IsRunning() {
			_ = RemovePID()
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(100 * time.Millisecond)
	}
}
