package services

import (
	"context"
	"testing"

	"tingles_server/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func supabaseTestConfig() config.AppConfig {
	return config.AppConfig{
		DBBackend:    "supabase",
		SupabaseURL:  "https://project.supabase.co",
		SupabaseKey:  "test-key",
		FounderEmail: "founder@tingles.com",
	}
}

func TestActiveStoreSelectsSupabase(t *testing.T) {
	ResetStore()
	t.Cleanup(ResetStore)

	store, err := ActiveStore(context.Background(), supabaseTestConfig())
	require.NoError(t, err)
	assert.IsType(t, &SupabaseService{}, store)
}

func TestActiveStoreMemoizesAcrossConfigChanges(t *testing.T) {
	ResetStore()
	t.Cleanup(ResetStore)

	ctx := context.Background()
	first, err := ActiveStore(ctx, supabaseTestConfig())
	require.NoError(t, err)

	// Even an invalid selector is ignored while the singleton lives.
	cfg := supabaseTestConfig()
	cfg.DBBackend = "cassandra"
	second, err := ActiveStore(ctx, cfg)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestActiveStoreResetBuildsFresh(t *testing.T) {
	ResetStore()
	t.Cleanup(ResetStore)

	ctx := context.Background()
	first, err := ActiveStore(ctx, supabaseTestConfig())
	require.NoError(t, err)

	ResetStore()
	second, err := ActiveStore(ctx, supabaseTestConfig())
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestActiveStoreUnknownBackend(t *testing.T) {
	ResetStore()
	t.Cleanup(ResetStore)

	cfg := supabaseTestConfig()
	cfg.DBBackend = "cassandra"

	_, err := ActiveStore(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestActiveStoreSupabaseMissingConfig(t *testing.T) {
	ResetStore()
	t.Cleanup(ResetStore)

	cfg := supabaseTestConfig()
	cfg.SupabaseKey = ""

	_, err := ActiveStore(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestSetStoreInstallsFake(t *testing.T) {
	ResetStore()
	t.Cleanup(ResetStore)

	fake := NewSupabaseService(newFakeRestAPI(), "founder@tingles.com")
	SetStore(fake)

	got, err := ActiveStore(context.Background(), config.AppConfig{DBBackend: "gsheets"})
	require.NoError(t, err)
	assert.Same(t, Store(fake), got)
}
