package daemon

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"scrcpyctl/internal/logging"
	"scrcpyctl/internal/store"
)

func init() {
	logging.ConfigureTests()
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, error) {
	return "", errors.New("disk on fire")
}

func (failingStore) Set(context.Context, string, string) error {
	return errors.New("disk on fire")
}

func startBufconn(t *testing.T, backend store.Store) (*Client, *grpc.ClientConn) {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := NewGRPCServer(backend)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	if err != nil {
		t.Fatalf("dial bufconn: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewClient(conn), conn
}

func TestStoreRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	mem := store.NewMem()
	client, _ := startBufconn(t, mem)

	msg, err := client.Ping(ctx)
	if err != nil || msg != "pong" {
		t.Fatalf("ping: %q, %v", msg, err)
	}

	value, err := client.Get(ctx, store.KeyNameMap)
	if err != nil || value != "" {
		t.Fatalf("missing key: %q, %v", value, err)
	}

	if err := client.Set(ctx, store.KeyNameMap, `{"1:2:3":"Pixel"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if value, err = client.Get(ctx, store.KeyNameMap); err != nil || value != `{"1:2:3":"Pixel"}` {
		t.Fatalf("get: %q, %v", value, err)
	}
	if direct, _ := mem.Get(ctx, store.KeyNameMap); direct != value {
		t.Fatalf("backend not updated: %q", direct)
	}
}

func TestClientWorksWithTypedHelpers(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, _ := startBufconn(t, store.NewMem())

	store.SetValue(ctx, client, store.KeyTemplates, []map[string]string{{"name": "hd", "flags": "--max-size 1920"}}, "[]")
	got := store.GetValue(ctx, client, store.KeyTemplates, []map[string]string(nil))
	if len(got) != 1 || got[0]["name"] != "hd" {
		t.Fatalf("unexpected templates %v", got)
	}
}

func TestRequestIDHeader(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, conn := startBufconn(t, store.NewMem())

	var header metadata.MD
	out := new(wrapperspb.StringValue)
	if err := conn.Invoke(ctx, methodGet, wrapperspb.String("k"), out, grpc.Header(&header)); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if ids := header.Get(RequestIDHeader); len(ids) != 1 || len(ids[0]) != 36 {
		t.Fatalf("expected a uuid request id, got %v", ids)
	}
}

func TestInvalidArguments(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, conn := startBufconn(t, store.NewMem())

	if _, err := client.Get(ctx, "  "); status.Code(errors.Unwrap(err)) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for blank key, got %v", err)
	}

	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldKey:   structpb.NewStringValue("k"),
		fieldValue: structpb.NewNumberValue(3),
	}}
	err := conn.Invoke(ctx, methodSet, req, new(emptypb.Empty))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for non-string value, got %v", err)
	}
}

func TestBackendFailureIsInternal(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, _ := startBufconn(t, failingStore{})

	_, err := client.Get(ctx, "k")
	if status.Code(errors.Unwrap(err)) != codes.Internal {
		t.Fatalf("expected Internal, got %v", err)
	}
	if err := client.Set(ctx, "k", "v"); status.Code(errors.Unwrap(err)) != codes.Internal {
		t.Fatalf("expected Internal, got %v", err)
	}

	// The store adapter hides backend failures behind the fallback.
	if got := store.GetValue(ctx, client, "k", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestSocketPathPrecedence(t *testing.T) {
	t.Setenv("SCRCPYCTL_SOCKET", "")
	t.Setenv("SCRCPYCTL_RUNTIME_DIR", "")
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/4242")

	if got := SocketPath(); got != "/run/user/4242/scrcpyctl.sock" && got != filepath.Join("/tmp", "scrcpyctl-"+currentUID()+".sock") {
		t.Fatalf("unexpected default socket path %q", got)
	}

	t.Setenv("SCRCPYCTL_RUNTIME_DIR", "/var/run/scrcpyctl")
	if got := SocketPath(); got != "/var/run/scrcpyctl/scrcpyctl.sock" {
		t.Fatalf("unexpected runtime dir socket %q", got)
	}
	if got := PIDPath(); got != "/var/run/scrcpyctl/scrcpyctl.pid" {
		t.Fatalf("unexpected pid path %q", got)
	}

	t.Setenv("SCRCPYCTL_SOCKET", "/tmp/custom.sock")
	if got := SocketPath(); got != "/tmp/custom.sock" {
		t.Fatalf("explicit socket must win, got %q", got)
	}
	if got := socketTarget(); got != "unix:///tmp/custom.sock" {
		t.Fatalf("unexpected target %q", got)
	}
}

func TestPIDFile(t *testing.T) {
	t.Setenv("SCRCPYCTL_SOCKET", "")
	t.Setenv("SCRCPYCTL_RUNTIME_DIR", filepath.Join(t.TempDir(), "run"))

	if err := WritePID(12345); err != nil {
		t.Fatalf("write pid: %v", err)
	}
	pid, err := RunningPID()
	if err != nil || pid != 12345 {
		t.Fatalf("running pid: %d, %v", pid, err)
	}
	if err := RemovePID(); err != nil {
		t.Fatalf("remove pid: %v", err)
	}
	if err := RemovePID(); err != nil {
		t.Fatalf("second remove must be a no-op: %v", err)
	}
	if _, err := RunningPID(); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestStartDaemonOverSocket(t *testing.T) {
	dir, err := os.MkdirTemp("", "scd")
	if err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	t.Setenv("SCRCPYCTL_SOCKET", "")
	t.Setenv("SCRCPYCTL_RUNTIME_DIR", dir)

	// stale socket file from a crashed daemon
	if err := os.WriteFile(SocketPath(), nil, 0o600); err != nil {
		t.Fatalf("seed stale socket: %v", err)
	}

	mem := store.NewMem()
	srv, err := StartDaemon(mem)
	if err != nil {
		t.Fatalf("start daemon: %v", err)
	}
	if !IsRunning() {
		srv.Close()
		t.Fatal("daemon should answer pings")
	}
	if pid, err := RunningPID(); err != nil || pid != os.Getpid() {
		t.Fatalf("unexpected pid %d, %v", pid, err)
	}
	if _, err := StartDaemon(mem); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	client, conn, err := Dial(ctx)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if err := client.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	_ = conn.Close()
	if v, _ := mem.Get(ctx, "k"); v != "v" {
		t.Fatalf("expected write to reach backend, got %q", v)
	}

	if err := srv.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if IsRunning() {
		t.Fatal("daemon still answering after Close")
	}
	if _, err := os.Stat(SocketPath()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("socket not removed: %v", err)
	}
	if _, err := os.Stat(PIDPath()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pid file not removed: %v", err)
	}
}
