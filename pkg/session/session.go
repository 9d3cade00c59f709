// Package session implements the per-connection loop. One session owns
// one accepted net.Conn; it parses requests, dispatches them through the
// router, writes responses, and honors the client's keep-alive intent.
package session

import (
	"bufio"
	"context"
	"errors"
	"net"

	uuid "github.com/google/uuid"

	handler "github.com/mutablelogic/go-filebox/pkg/handler"
	router "github.com/mutablelogic/go-filebox/pkg/router"
	wire "github.com/mutablelogic/go-filebox/pkg/wire"
	server "github.com/mutablelogic/go-server"
)

// Session drives request/response exchanges on a single connection. Every
// session carries a uuid, written to the log when the session opens and
// closes, so a connection can be followed across keep-alive reuses.
type Session struct {
	id          string
	conn        net.Conn
	registry    *router.Registry
	httpVersion string
	serverName  string
	logger      server.Logger
}

// New returns a Session bound to conn.
func New(conn net.Conn, registry *router.Registry, httpVersion, serverName string, logger server.Logger) *Session {
	return &Session{
		id:          uuid.NewString(),
		conn:        conn,
		registry:    registry,
		httpVersion: httpVersion,
		serverName:  serverName,
		logger:      logger,
	}
}

// ID returns the session's correlation id.
func (s *Session) ID() string { return s.id }

// Serve runs the read-dispatch-write loop until the connection closes, the
// client requests Connection: close, or a parse failure forces termination.
// It always closes conn before returning.
func (s *Session) Serve(ctx context.Context) {
	defer s.conn.Close()
	s.logf(ctx, "session %s opened from %s", s.id, s.conn.RemoteAddr())
	defer s.logf(ctx, "session %s closed", s.id)

	reader := bufio.NewReader(s.conn)
	for {
		req, err := wire.ParseRequest(reader, s.httpVersion)
		if err != nil {
			resp := handler.ErrorResponse(err)
			resp.Connection = "close"
			_ = wire.WriteResponse(s.conn, resp.Finalize(s.serverName))
			return
		}

		resp, err := s.registry.Dispatch(ctx, req)
		if err != nil {
			resp = handler.ErrorResponse(err)
		}
		resp.Connection = req.ConnectionIntent()

		if werr := wire.WriteResponse(s.conn, resp.Finalize(s.serverName)); werr != nil {
			return
		}
		if resp.Connection != "keep-alive" {
			return
		}
	}
}

func (s *Session) logf(ctx context.Context, format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(ctx, format, args...)
	}
}

// IsClosedConnError reports whether err is net.ErrClosed, the error
// returned by I/O on a connection that has already been closed locally.
func IsClosedConnError(err error) bool {
	return errors.Is(err, net.ErrClosed)
}
