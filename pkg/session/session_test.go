package session_test

import (
	"bufio"
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	router "github.com/mutablelogic/go-filebox/pkg/router"
	session "github.com/mutablelogic/go-filebox/pkg/session"
	wire "github.com/mutablelogic/go-filebox/pkg/wire"
)

func echoHandler() router.HandlerFunc {
	return func(ctx context.Context, req *wire.Request, params map[string]string) (*wire.Response, error) {
		resp := wire.NewResponse(200)
		resp.SetBody(wire.ContentTypeText, []byte("ok"))
		return resp, nil
	}
}

func buildRegistry() *router.Registry {
	ep := router.NewEndpoint("/files")
	ep.Handle("GET", "/ping", echoHandler())
	r := router.NewRegistry()
	r.Register(ep)
	return r
}

func TestSessionServesOneRequestThenCloses(t *testing.T) {
	server, client := net.Pipe()
	registry := buildRegistry()
	s := session.New(server, registry, "HTTP/1.1", "filebox", nil)

	go s.Serve(context.Background())

	_, err := client.Write([]byte("GET /files/ping HTTP/1.1\r\nAccept: text/plain\r\nConnection: close\r\n\r\n"))
	require.NoError(t, err)

	reader := bufio.NewReader(client)
	statusLine, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, statusLine, "200 OK")
}

func TestSessionKeepsAliveAcrossRequests(t *testing.T) {
	server, client := net.Pipe()
	registry := buildRegistry()
	s := session.New(server, registry, "HTTP/1.1", "filebox", nil)

	go s.Serve(context.Background())

	for i := 0; i < 2; i++ {
		conn := "keep-alive"
		if i == 1 {
			conn = "close"
		}
		_, err := client.Write([]byte("GET /files/ping HTTP/1.1\r\nAccept: text/plain\r\nConnection: " + conn + "\r\n\r\n"))
		require.NoError(t, err)

		reader := bufio.NewReader(client)
		statusLine, err := reader.ReadString('\n')
		require.NoError(t, err)
		assert.Contains(t, statusLine, "200 OK")

		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if line == "\r\n" {
				break
			}
		}
		body := make([]byte, 2)
		_, err = reader.Read(body)
		require.NoError(t, err)
		assert.Equal(t, "ok", string(body))
	}
}
