package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"github.com/smartkuk/simple-flask/internal/logging"
)

func startHealthServer(t *testing.T) (*HealthServer, *Client) {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := NewHealthServer(logging.Discard())

	served := make(chan error, 1)
	go func() { served <- srv.Serve(lis) }()

	client, err := NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Stop(ctx)
		assert.NoError(t, <-served)
	})
	return srv, client
}

func TestHealthServer_Serving(t *testing.T) {
	_, client := startHealthServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.NoError(t, client.Check(ctx, ""))
	assert.NoError(t, client.Check(ctx, ServiceName))
}

func TestHealthServer_NotServing(t *testing.T) {
	srv, client := startHealthServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	srv.SetServing(false)

	err := client.Check(ctx, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOT_SERVING")

	srv.SetServing(true)
	assert.NoError(t, client.Check(ctx, ""))
}

func TestHealthServer_UnknownService(t *testing.T) {
	_, client := startHealthServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := client.Check(ctx, "no.such.Service")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NotFound")
}
