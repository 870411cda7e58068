package app

import (
	"context"
	"errors"
	"io"
	"testing"

	"google.golang.org/grpc"

	"scrcpyctl/internal/daemon"
	"scrcpyctl/internal/instance"
	"scrcpyctl/internal/logging"
	"scrcpyctl/internal/store"
)

func init() {
	logging.ConfigureTests()
}

type fakeConn struct {
	invoke func(ctx context.Context, method string, args interface{}, reply interface{}, opts ...grpc.CallOption) error
}

func (f *fakeConn) Invoke(ctx context.Context, method string, args interface{}, reply interface{}, opts ...grpc.CallOption) error {
	if f.invoke != nil {
		return f.invoke(ctx, method, args, reply, opts...)
	}
	return nil
}

func (f *fakeConn) NewStream(ctx context.Context, desc *grpc.StreamDesc, method string, opts ...grpc.CallOption) (grpc.ClientStream, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeConn) Close() error { return nil }

func stubDaemon(t *testing.T, running bool, dial func(context.Context) (*daemon.Client, io.Closer, error)) {
	t.Helper()
	resetDaemonDeps()
	daemonIsRunning = func() bool { return running }
	if dial == nil {
		dial = func(context.Context) (*daemon.Client, io.Closer, error) {
			return nil, nil, errors.New("dial not stubbed")
		}
	}
	dialDaemonClient = dial
	t.Cleanup(resetDaemonDeps)
}

type fakeRunner struct {
	scan       string
	scanErr    error
	devices    string
	devicesErr error
	probe      map[string]string
}

func (f *fakeRunner) Devices(context.Context) (string, error) { return f.devices, f.devicesErr }
func (f *fakeRunner) Scan(context.Context) (string, error) { return f.scan, f.scanErr }
func (f *fakeRunner) Probe(context.Context) (map[string]string, error) {
	return f.probe, nil
}

func newTestApp(t *testing.T, runner *fakeRunner) (*App, *store.Mem) {
	t.Helper()
	mem := store.NewMem()
	if runner == nil {
		runner = &fakeRunner{}
	}
	a := New(Options{Store: mem, Runner: runner, Format: instance.Sprintf})
	t.Cleanup(func() { _ = a.Close() })
	return a, mem
}
