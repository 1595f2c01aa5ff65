package params

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverResolutionOrder(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set("inflation.general", 0.065))
	require.NoError(t, store.SetUser("u1", "inflation.general", 0.08))
	r := NewResolver(store, nil)

	assert.Equal(t, 0.08, r.Get("inflation.general", 0.05, "u1"), "user override wins")
	assert.Equal(t, 0.065, r.Get("inflation.general", 0.05, "u2"), "other users see the global value")
	assert.Equal(t, 0.065, r.Get("inflation.general", 0.05, ""), "no user id skips overrides")
	assert.Equal(t, 0.05, r.Get("inflation.nonexistent", 0.05, "u1"), "miss returns default")
}

func TestResolverLegacyAliases(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set("life_expectancy", 88))
	r := NewResolver(store, nil)

	assert.Equal(t, 88.0, r.Get("retirement.life_expectancy", 85, ""), "dotted path finds flat legacy key")

	store2 := NewMemoryStore()
	require.NoError(t, store2.Set("retirement.life_expectancy", 90))
	r2 := NewResolver(store2, nil)
	assert.Equal(t, 90.0, r2.Get("life_expectancy", 85, ""), "flat key finds dotted value")
}

func TestResolverUnwrapsLegacyValueShape(t *testing.T) {
	store := NewMemoryStore()
	store.SetRaw("emergency_fund.months_of_expenses", map[string]any{"value": 9})
	store.SetRaw("returns.assumed_annual", map[string]any{"value": "garbage"})
	r := NewResolver(store, nil)

	assert.Equal(t, 9.0, r.Get("emergency_fund.months_of_expenses", 6, ""))
	assert.Equal(t, 0.08, r.Get("returns.assumed_annual", 0.08, ""), "non-numeric unwrap falls back to default")
}

func TestResolverNilSourceNeverPanics(t *testing.T) {
	var r *Resolver
	assert.Equal(t, 1.5, r.Get("anything", 1.5, "u"))
	r = NewResolver(nil, nil)
	assert.Equal(t, 2.5, r.Get("anything", 2.5, ""))
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "params.db")
	store, err := OpenSQLite(dbPath)
	require.NoError(t, err)
	defer store.Close()

	// Migration seeds defaults.
	v, ok := store.Lookup("emergency_fund.months_of_expenses")
	require.True(t, ok)
	assert.Equal(t, 6.0, v)

	require.NoError(t, store.Set("inflation.general", 0.07))
	v, ok = store.Lookup("inflation.general")
	require.True(t, ok)
	assert.Equal(t, 0.07, v)

	require.NoError(t, store.SetUser("u1", "inflation.general", 0.09))
	v, ok = store.LookupUser("u1", "inflation.general")
	require.True(t, ok)
	assert.Equal(t, 0.09, v)

	_, ok = store.LookupUser("u2", "inflation.general")
	assert.False(t, ok)

	all, err := store.All()
	require.NoError(t, err)
	assert.Equal(t, 0.07, all["inflation.general"])

	// Migrating again must not clobber admin-set values.
	require.NoError(t, store.Migrate())
	v, _ = store.Lookup("inflation.general")
	assert.Equal(t, 0.07, v)
}
