// Package store is the local key-value persistence every pomo record lives in.
// Each record is an independently readable JSON document under a fixed key.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/tgienger/pomo/internal/config"
	"github.com/tgienger/pomo/internal/db"
)

// Record keys
const (
	KeySessions           = "pomodoro_sessions"
	KeyProjects           = "pomodoro_projects"
	KeyTasks              = "pomodoro_tasks"
	KeySchedule           = "pomodoro_schedule"
	KeyScheduleHistory    = "pomodoro_schedule_history"
	KeyCarryoverDismissed = "pomodoro_carryover_dismissed"
	KeyDayStart           = "pomodoro_day_start"
)

var (
	// ErrUnknownBackend is returned by Open for an unsupported storage.backend
	ErrUnknownBackend = errors.New("store: unknown backend")
	// ErrCorrupt marks a stored value that could not be decoded
	ErrCorrupt = errors.New("store: corrupt record")
)

// KV is the read/write primitive the core persists through.
type KV interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
}

// Backend is a KV that owns resources.
type Backend interface {
	KV
	Close() error
}

// Open returns the backend selected by cfg.
func Open(cfg config.StorageConfig) (Backend, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemory(), nil
	}

	dir, err := cfg.DataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	switch cfg.Backend {
	case "", "sqlite":
		database, err := db.New(dir)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return database, nil
	case "diskv":
		return NewDiskv(dir), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
}

// Read decodes the record under key into v. A missing key leaves v untouched
// and returns nil; an undecodable value returns an error wrapping ErrCorrupt.
func Read(kv KV, key string, v any) error {
	data, ok, err := kv.Get(key)
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return nil
}

// Write encodes v and stores it under key.
func Write(kv KV, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Put(key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Memory is an in-process KV used by tests and the "memory" backend.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemory returns an empty Memory store
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Memory) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Close() error { return nil }
