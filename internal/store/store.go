package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// Store keys. The names match the desktop applet settings so an exported
// settings file can be imported as-is.
const (
	KeyInstanceRegistry = "instanceRegistryJson"
	KeyNameMap          = "nameMapJson"
	KeyDeviceFlags      = "deviceFlagConfigsJson"
	KeyTemplates        = "templatesJson"
)

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("store is closed")

// Store is an opaque string-keyed blob store. A missing key yields "", nil.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// GetValue decodes the JSON stored under key. It never fails: a backend
// error, empty text, null or malformed JSON all yield fallback.
func GetValue[T any](ctx context.Context, s Store, key string, fallback T) T {
	raw, err := s.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("config read failed, using fallback")
		return fallback
	}
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return fallback
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("config value is malformed, using fallback")
		return fallback
	}
	return v
}

// SetValue encodes value as JSON and stores it under key. If encoding fails
// fallbackText ("{}" when empty) is written instead so stale data does not
// survive. Backend errors are logged, never returned.
func SetValue[T any](ctx context.Context, s Store, key string, value T, fallbackText string) {
	text := fallbackText
	if text == "" {
		text = "{}"
	}
	if b, err := json.Marshal(value); err == nil {
		text = string(b)
	} else {
		log.Warn().Err(err).Str("key", key).Msg("config value not serializable, writing fallback")
	}
	if err := s.Set(ctx, key, text); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("config write failed")
	}
}

// Mem is an in-memory Store.
type Mem struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMem() *Mem {
	return &Mem{data: make(map[string]string)}
}

func (m *Mem) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[key], nil
}

func (m *Mem) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
	return nil
}
