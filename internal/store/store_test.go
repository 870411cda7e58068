package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"scrcpyctl/internal/logging"
)

func init() {
	logging.ConfigureTests()
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, error) {
	return "", errors.New("backend down")
}

func (failingStore) Set(context.Context, string, string) error {
	return errors.New("backend down")
}

func TestGetValueFallbacks(t *testing.T) {
	ctx := context.Background()
	fallback := map[string]string{"fallback": "yes"}

	for _, raw := range []string{"", "   ", "null", "{not json", `["wrong","shape"]`} {
		s := NewMem()
		_ = s.Set(ctx, KeyNameMap, raw)
		got := GetValue(ctx, s, KeyNameMap, fallback)
		if !reflect.DeepEqual(got, fallback) {
			t.Fatalf("raw %q: expected fallback, got %v", raw, got)
		}
	}

	got := GetValue(ctx, failingStore{}, KeyNameMap, fallback)
	if !reflect.DeepEqual(got, fallback) {
		t.Fatalf("expected fallback on backend error, got %v", got)
	}
}

func TestGetValueDecodes(t *testing.T) {
	ctx := context.Background()
	s := NewMem()
	_ = s.Set(ctx, KeyNameMap, `{"1:2:3":"phone"}`)
	got := GetValue(ctx, s, KeyNameMap, map[string]string{})
	if got["1:2:3"] != "phone" {
		t.Fatalf("unexpected value %v", got)
	}
}

func TestSetValueWritesFallbackOnEncodeFailure(t *testing.T) {
	ctx := context.Background()
	s := NewMem()
	_ = s.Set(ctx, KeyDeviceFlags, `{"stale":true}`)

	SetValue(ctx, s, KeyDeviceFlags, map[string]any{"bad": math.NaN()}, "")
	if got, _ := s.Get(ctx, KeyDeviceFlags); got != "{}" {
		t.Fatalf("expected default fallback text, got %q", got)
	}

	SetValue(ctx, s, KeyTemplates, []any{make(chan int)}, "[]")
	if got, _ := s.Get(ctx, KeyTemplates); got != "[]" {
		t.Fatalf("expected caller fallback text, got %q", got)
	}
}

func TestSetValueIgnoresBackendError(t *testing.T) {
	SetValue(context.Background(), failingStore{}, KeyNameMap, map[string]string{"a": "b"}, "")
}

func TestFileRoundTripAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "store.json")

	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := f.Set(ctx, KeyNameMap, `{"k":"v"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600, got %v", info.Mode().Perm())
	}
	if tmps, _ := filepath.Glob(path + ".*.tmp"); len(tmps) != 0 {
		t.Fatalf("tmp file left behind: %v", tmps)
	}

	reopened, err := OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.Get(ctx, KeyNameMap)
	if err != nil || got != `{"k":"v"}` {
		t.Fatalf("unexpected value %q (err %v)", got, err)
	}
	missing, err := reopened.Get(ctx, "absent")
	if err != nil || missing != "" {
		t.Fatalf("expected empty missing value, got %q (err %v)", missing, err)
	}
}

func TestFileHandlesShareDocument(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")

	cli, err := OpenFile(path)
	if err != nil {
		t.Fatalf("open cli: %v", err)
	}
	tui, err := OpenFile(path)
	if err != nil {
		t.Fatalf("open tui: %v", err)
	}

	if err := cli.Set(ctx, KeyNameMap, `{"1:2:3":"Desk"}`); err != nil {
		t.Fatalf("cli set: %v", err)
	}
	if got, _ := tui.Get(ctx, KeyNameMap); got != `{"1:2:3":"Desk"}` {
		t.Fatalf("second handle does not see the write: %q", got)
	}
	if err := tui.Set(ctx, KeyInstanceRegistry, `{"1:2:3":true,"_numbers":{"1:2:3":1}}`); err != nil {
		t.Fatalf("tui set: %v", err)
	}

	fresh, err := OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got, _ := fresh.Get(ctx, KeyNameMap); got != `{"1:2:3":"Desk"}` {
		t.Fatalf("name map reverted by a write to another key: %q", got)
	}
	if got, _ := fresh.Get(ctx, KeyInstanceRegistry); got == "" {
		t.Fatal("registry write lost")
	}
}

func TestFileConcurrentHandlesKeepEveryKey(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := OpenFile(path)
			if err != nil {
				errs <- err
				return
			}
			errs <- h.Set(ctx, fmt.Sprintf("key-%d", i), fmt.Sprintf("value-%d", i))
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("set: %v", err)
		}
	}

	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	for i := 0; i < writers; i++ {
		if got, _ := f.Get(ctx, fmt.Sprintf("key-%d", i)); got != fmt.Sprintf("value-%d", i) {
			t.Fatalf("key-%d lost, got %q", i, got)
		}
	}
	if tmps, _ := filepath.Glob(path + ".*.tmp"); len(tmps) != 0 {
		t.Fatalf("tmp files left behind: %v", tmps)
	}
}

func TestOpenFileRejectsCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("{oops"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenFile(path); err == nil {
		t.Fatal("expected error for corrupt store file")
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.db")

	db, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if got, err := db.Get(ctx, KeyTemplates); err != nil || got != "" {
		t.Fatalf("expected empty value, got %q (err %v)", got, err)
	}
	if err := db.Set(ctx, KeyTemplates, `[{"name":"a","flags":""}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := db.Set(ctx, KeyTemplates, `[]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := db.Get(ctx, KeyTemplates); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}

	reopened, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen sqlite: %v", err)
	}
	defer reopened.Close() //nolint:errcheck
	got, err := reopened.Get(ctx, KeyTemplates)
	if err != nil || got != "[]" {
		t.Fatalf("unexpected value %q (err %v)", got, err)
	}
}
