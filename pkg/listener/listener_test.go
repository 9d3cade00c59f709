package listener_test

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	listener "github.com/mutablelogic/go-filebox/pkg/listener"
	router "github.com/mutablelogic/go-filebox/pkg/router"
	wire "github.com/mutablelogic/go-filebox/pkg/wire"
)

func buildRegistry() *router.Registry {
	ep := router.NewEndpoint("/files")
	ep.Handle("GET", "/ping", router.HandlerFunc(
		func(ctx context.Context, req *wire.Request, params map[string]string) (*wire.Response, error) {
			resp := wire.NewResponse(200)
			resp.SetBody(wire.ContentTypeText, []byte("pong"))
			return resp, nil
		},
	))
	r := router.NewRegistry()
	r.Register(ep)
	return r
}

func TestListenerAcceptsAndServes(t *testing.T) {
	registry := buildRegistry()
	ln, err := listener.New("127.0.0.1:0", registry, "HTTP/1.1", "filebox", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ln.Serve(ctx) }()

	conn, err := net.DialTimeout("tcp", ln.Addr().String(), time.Second)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("GET /files/ping HTTP/1.1\r\nAccept: text/plain\r\nConnection: close\r\n\r\n"))
	require.NoError(t, err)

	reader := bufio.NewReader(conn)
	statusLine, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, statusLine, "200 OK")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(11 * time.Second):
		t.Fatal("listener did not shut down in time")
	}
}

func TestListenerActiveConnectionsTracksInFlight(t *testing.T) {
	registry := buildRegistry()
	ln, err := listener.New("127.0.0.1:0", registry, "HTTP/1.1", "filebox", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ln.Serve(ctx)

	conn, err := net.DialTimeout("tcp", ln.Addr().String(), time.Second)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("GET /files/ping HTTP/1.1\r\nAccept: text/plain\r\nConnection: keep-alive\r\n\r\n"))
	require.NoError(t, err)

	reader := bufio.NewReader(conn)
	_, err = reader.ReadString('\n')
	require.NoError(t, err)

	assert.GreaterOrEqual(t, ln.ActiveConnections(), 1)
}
