package badgerkv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/fitanalytics/internal/persistence"
)

func TestStoreRoundTrip(t *testing.T) {
	store, err := Open(Config{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	_, err = store.Get(ctx, "fitanalytics:state")
	require.ErrorIs(t, err, persistence.ErrNotFound)

	require.NoError(t, store.Put(ctx, "fitanalytics:state", []byte(`{"records":[]}`)))
	got, err := store.Get(ctx, "fitanalytics:state")
	require.NoError(t, err)
	require.JSONEq(t, `{"records":[]}`, string(got))

	require.NoError(t, store.Delete(ctx, "fitanalytics:state"))
	_, err = store.Get(ctx, "fitanalytics:state")
	require.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestOpenOnDiskReopens(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(Config{Path: dir, SyncWrites: true})
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "k", []byte("v")))
	require.NoError(t, store.Close())

	store, err = Open(Config{Path: dir})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", string(got))
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(Config{})
	require.Error(t, err)
}
