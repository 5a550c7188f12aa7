package prefs

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/coder-muller/calculadora-bacen/internal/margin"
	"github.com/coder-muller/calculadora-bacen/internal/rate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMargin_DefaultsWhenAbsent(t *testing.T) {
	m, err := LoadMargin(context.Background(), NewMemory())
	require.NoError(t, err)
	assert.True(t, m.Equal(margin.DefaultMargin), "margin = %s, want 30", m)
}

func TestLoadMargin_BadStoredValue(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	require.NoError(t, kv.Set(ctx, MarginKey, "trinta"))

	m, err := LoadMargin(ctx, kv)
	assert.Error(t, err)
	assert.True(t, m.Equal(margin.DefaultMargin))
}

func TestSaveMargin_RejectsNegative(t *testing.T) {
	err := SaveMargin(context.Background(), NewMemory(), rate.FromInt(-1))
	assert.ErrorIs(t, err, rate.ErrNegative)
}

func TestSQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "prefs.db")

	db, err := Open(path)
	require.NoError(t, err)

	m, err := LoadMargin(ctx, db)
	require.NoError(t, err)
	assert.True(t, m.Equal(margin.DefaultMargin))

	saved, err := rate.ParsePercent("27,5")
	require.NoError(t, err)
	require.NoError(t, SaveMargin(ctx, db, saved))

	raw, ok, err := db.Get(ctx, MarginKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "27.5", raw)

	at, ok, err := MarginSavedAt(ctx, db)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now(), at, time.Minute)
	require.NoError(t, db.Close())

	// Survives reopening.
	db, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	m, err = LoadMargin(ctx, db)
	require.NoError(t, err)
	assert.True(t, m.Equal(saved), "margin = %s, want 27.5", m)

	require.NoError(t, ResetMargin(ctx, db))
	m, err = LoadMargin(ctx, db)
	require.NoError(t, err)
	assert.True(t, m.Equal(margin.DefaultMargin))
}

func TestMarginSavedAt(t *testing.T) {
	ctx := context.Background()

	_, ok, err := MarginSavedAt(ctx, NewMemory())
	require.NoError(t, err)
	assert.False(t, ok, "memory store keeps no timestamps")

	db, err := Open(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, ok, err = MarginSavedAt(ctx, db)
	require.NoError(t, err)
	assert.False(t, ok, "nothing saved yet")

	require.NoError(t, SaveMargin(ctx, db, rate.FromInt(40)))
	_, ok, err = MarginSavedAt(ctx, db)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, ResetMargin(ctx, db))
	_, ok, err = MarginSavedAt(ctx, db)
	require.NoError(t, err)
	assert.False(t, ok, "reset forgets the timestamp")
}
