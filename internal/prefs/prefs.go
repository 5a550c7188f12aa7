// Package prefs persists the allowed-margin preference.
package prefs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/coder-muller/calculadora-bacen/internal/margin"
	"github.com/coder-muller/calculadora-bacen/internal/rate"
)

// MarginKey is the single preference key the calculator owns.
const MarginKey = "margin"

// KV is a string key/value store.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Stamped is implemented by stores that record when each key was written.
type Stamped interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}

// MarginSavedAt returns when the margin was last saved. ok is false when
// nothing was saved or the store keeps no timestamps.
func MarginSavedAt(ctx context.Context, kv KV) (at time.Time, ok bool, err error) {
	st, isStamped := kv.(Stamped)
	if !isStamped {
		return time.Time{}, false, nil
	}
	at, err = st.UpdatedAt(ctx, MarginKey)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("reading margin timestamp: %w", err)
	}
	return at, !at.IsZero(), nil
}

// LoadMargin returns the saved margin, or margin.DefaultMargin when none was
// saved. A stored value that does not parse yields the default together with
// an error so callers can warn and carry on.
func LoadMargin(ctx context.Context, kv KV) (rate.Rate, error) {
	raw, ok, err := kv.Get(ctx, MarginKey)
	if err != nil {
		return margin.DefaultMargin, fmt.Errorf("reading margin preference: %w", err)
	}
	if !ok {
		return margin.DefaultMargin, nil
	}

	m, err := rate.ParsePercent(raw)
	if err != nil {
		return margin.DefaultMargin, fmt.Errorf("stored margin %q: %w", raw, err)
	}
	return m, nil
}

// SaveMargin persists m as its canonical decimal string ("30", "27.5").
func SaveMargin(ctx context.Context, kv KV, m rate.Rate) error {
	if m.IsNegative() {
		return rate.ErrNegative
	}
	if err := kv.Set(ctx, MarginKey, m.Decimal.String()); err != nil {
		return fmt.Errorf("saving margin preference: %w", err)
	}
	return nil
}

// ResetMargin forgets the saved margin so the default applies again.
func ResetMargin(ctx context.Context, kv KV) error {
	if err := kv.Delete(ctx, MarginKey); err != nil {
		return fmt.Errorf("clearing margin preference: %w", err)
	}
	return nil
}

// Memory is a process-local KV used by tests and --no-persist runs.
type Memory struct {
	mu   sync.RWMutex
	vals map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{vals: make(map[string]string)}
}

// Get implements KV.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vals[key]
	return v, ok, nil
}

// Set implements KV.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vals[key] = value
	return nil
}

// Delete implements KV.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vals, key)
	return nil
}
