package app

import (
	"context"
	"errors"
	"io"
	"sync"

	"scrcpyctl/internal/config"
	"scrcpyctl/internal/helper"
	"scrcpyctl/internal/i18n"
	"scrcpyctl/internal/instance"
	"scrcpyctl/internal/store"
)

// Runner produces raw helper output.
type Runner interface {
	Devices(ctx context.Context) (string, error)
	Scan(ctx context.Context) (string, error)
	Probe(ctx context.Context) (map[string]string, error)
}

// Options configures the top-level controller.
type Options struct {
	Config config.Config
	// Store overrides the backend selected by Config.
	Store store.Store
	// Runner overrides the helper runner built from Config.
	Runner Runner
	// Format overrides the locale-based name formatter.
	Format instance.Formatter
}

// App exposes high-level operations that the CLI/TUI can reuse.
type App struct {
	cfg    config.Config
	runner Runner
	format instance.Formatter

	mu     sync.Mutex
	store  store.Store
	closer io.Closer
	book   *instance.Book
}

// New constructs the shared controller facade. The store is opened on first
// use.
func New(opts Options) *App {
	cfg := opts.Config
	runner := opts.Runner
	if runner == nil {
		runner = helper.Runner{
			ADBPath:    cfg.ADBPath,
			ScanHelper: cfg.ScanHelper,
			ScanArgs:   cfg.ScanArgs,
			Timeout:    cfg.HelperTimeout,
			Proc:       helper.ProcScanner{Match: cfg.Match},
		}
	}
	format := opts.Format
	if format == nil {
		format = i18n.Formatter(cfg.Locale)
	}
	return &App{cfg: cfg, runner: runner, format: format, store: opts.Store}
}

// Config returns the configuration the controller was built with.
func (a *App) Config() config.Config {
	return a.cfg
}

// Close releases the store backend if the controller opened one.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	a.store = nil
	a.book = nil
	return err
}

func (a *App) instances(ctx context.Context) (*instance.Book, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.book != nil {
		return a.book, nil
	}
	if a.store == nil {
		s, closer, err := openStore(ctx, a.cfg)
		if err != nil {
			return nil, err
		}
		a.store, a.closer = s, closer
	}
	a.book = instance.NewBook(a.store, a.format)
	return a.book, nil
}

var errEmptyKey = errors.New("instance key is required")
