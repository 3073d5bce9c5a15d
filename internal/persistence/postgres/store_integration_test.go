//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"example.com/fitanalytics/internal/persistence"
)

func TestStoreAgainstPostgres(t *testing.T) {
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("analytics"),
		postgrescontainer.WithUsername("platform"),
		postgrescontainer.WithPassword("platform"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, waitForDatabase(ctx, connStr))

	store, err := Open(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.Get(ctx, "fitanalytics:state")
	require.ErrorIs(t, err, persistence.ErrNotFound)

	require.NoError(t, store.Put(ctx, "fitanalytics:state", []byte(`{"records":[1]}`)))
	require.NoError(t, store.Put(ctx, "fitanalytics:state", []byte(`{"records":[2]}`)))

	got, err := store.Get(ctx, "fitanalytics:state")
	require.NoError(t, err)
	require.JSONEq(t, `{"records":[2]}`, string(got))

	// schema creation is idempotent
	require.NoError(t, store.EnsureSchema(ctx))

	require.NoError(t, store.Delete(ctx, "fitanalytics:state"))
	_, err = store.Get(ctx, "fitanalytics:state")
	require.ErrorIs(t, err, persistence.ErrNotFound)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}
