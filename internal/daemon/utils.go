package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// SocketBaseName is the UNIX socket filename.
const SocketBaseName = "scrcpyctl.sock"

const pidFileName = "scrcpyctl.pid"

var (
	// ErrNotRunning is returned when an operation needs a live daemon.
	ErrNotRunning = errors.New("daemon is not running")
	// ErrAlreadyRunning is returned by StartDaemon when another daemon answers on the socket.
	ErrAlreadyRunning = errors.New("daemon is already running")
)

// SocketPath returns the full path to the UNIX socket.
// Order of precedence (first wins):
//  1. SCRCPYCTL_SOCKET (absolute path to socket)
//  2. SCRCPYCTL_RUNTIME_DIR
//  3. on linux $XDG_RUNTIME_DIR or /run/user/<UID>, elsewhere /tmp
func SocketPath() string {
	if explicit := os.Getenv("SCRCPYCTL_SOCKET"); explicit != "" {
		return explicit
	}

	uid := currentUID()

	if rd := os.Getenv("SCRCPYCTL_RUNTIME_DIR"); rd != "" {
		return filepath.Join(rd, SocketBaseName)
	}

	if runtime.GOOS == "linux" {
		if v := os.Getenv("XDG_RUNTIME_DIR"); v != "" {
			return filepath.Join(v, SocketBaseName)
		}
		return filepath.Join("/run/user", uid, SocketBaseName)
	}

	// keep it short for the sun_path length limit
	return filepath.Join("/tmp", "scrcpyctl-"+uid+".sock")
}

// EnsureRuntimeDir creates the socket's parent directory.
func EnsureRuntimeDir() error {
	return os.MkdirAll(filepath.Dir(SocketPath()), 0o700)
}

// PIDPath returns the full path to the PID file.
func PIDPath() string {
	return filepath.Join(filepath.Dir(SocketPath()), pidFileName)
}

// WritePID stores pid in the pid file.
func WritePID(pid int) error {
	if err := EnsureRuntimeDir(); err != nil {
		return err
	}
	return os.WriteFile(PIDPath(), []byte(fmt.Sprintf("%d\n", pid)), 0o600)
}

// RemovePID removes the pid file if it exists.
func RemovePID() error {
	if err := os.Remove(PIDPath()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// RunningPID returns the pid stored in the pid file.
func RunningPID() (int, error) {
	data, err := os.ReadFile(PIDPath())
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

// IsRunning pings the daemon and reports whether it answered.
func IsRunning() bool {
	if _, err := os.Stat(SocketPath()); err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	client, conn, err := Dial(ctx)
	if err != nil {
		return false
	}
	defer conn.Close()

	_, err = client.Ping(ctx)
	return err == nil
}

func currentUID() string {
	u, err := user.Current()
	if err == nil && u != nil && u.Uid != "" {
		return u.Uid
	}
	return "0"
}
