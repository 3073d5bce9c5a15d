//go:build integration

package rediskv

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"example.com/fitanalytics/internal/persistence"
)

func startRedis(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)
	return fmt.Sprintf("%s:%s", host, port.Port())
}

func TestStoreAgainstRedis(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, err := Open(ctx, startRedis(ctx, t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

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
