// Package listener implements the accept loop, a bounded worker pool,
// and start/stop lifecycle. Grounded on the supervised-goroutine pattern in
// pkg/manager/manager.go, generalized from one long-lived
// background task to one task per accepted connection.
package listener

import (
	"context"
	"net"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	router "github.com/mutablelogic/go-filebox/pkg/router"
	session "github.com/mutablelogic/go-filebox/pkg/session"
	server "github.com/mutablelogic/go-server"
	gootel "go.opentelemetry.io/otel"
	metric "go.opentelemetry.io/otel/metric"
)

// poolSize bounds the number of connections served concurrently.
const poolSize = 10

// drainTimeout is how long drain waits for in-flight sessions to finish
// on their own before force-closing their connections.
const drainTimeout = 10 * time.Second

// Listener accepts connections on a TCP socket and serves each one through
// a Session, bounded by a fixed-size worker pool.
type Listener struct {
	ln          net.Listener
	registry    *router.Registry
	httpVersion string
	serverName  string
	logger      server.Logger

	sem     *semaphore.Weighted
	wg      sync.WaitGroup
	connsMu sync.Mutex
	conns   map[net.Conn]struct{}

	accepted metric.Int64Counter
	active   metric.Int64UpDownCounter
}

// New binds a TCP listener at addr. Metric instruments are created against
// the global MeterProvider, the same provider cmd/filebox installs a
// TracerProvider on, so the accepted/active counters show up alongside the
// store's trace spans under one collector endpoint.
func New(addr string, registry *router.Registry, httpVersion, serverName string, logger server.Logger) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	meter := gootel.Meter("go-filebox/listener")
	accepted, err := meter.Int64Counter("filebox.connections.accepted",
		metric.WithDescription("total TCP connections accepted"))
	if err != nil {
		return nil, err
	}
	active, err := meter.Int64UpDownCounter("filebox.connections.active",
		metric.WithDescription("connections currently being served"))
	if err != nil {
		return nil, err
	}

	return &Listener{
		ln:          ln,
		registry:    registry,
		httpVersion: httpVersion,
		serverName:  serverName,
		logger:      logger,
		sem:         semaphore.NewWeighted(poolSize),
		conns:       map[net.Conn]struct{}{},
		accepted:    accepted,
		active:      active,
	}, nil
}

// Addr returns the bound address.
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Serve runs the accept loop until ctx is cancelled or Accept fails. After
// cancellation it blocks until every in-flight session has drained or been
// force-closed; an Accept failure is returned without draining.
func (l *Listener) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = l.ln.Close()
	}()

	for {
		conn, err := l.ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				l.drain()
				return nil
			default:
				if l.logger != nil {
					l.logger.Printf(ctx, "ERROR accept: %v", err)
				}
				return err
			}
		}

		if err := l.sem.Acquire(ctx, 1); err != nil {
			_ = conn.Close()
			l.drain()
			return nil
		}

		l.track(conn)
		l.accepted.Add(ctx, 1)
		l.active.Add(ctx, 1)
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			defer l.sem.Release(1)
			defer l.untrack(conn)
			defer l.active.Add(context.Background(), -1)
			session.New(conn, l.registry, l.httpVersion, l.serverName, l.logger).Serve(ctx)
		}()
	}
}

func (l *Listener) track(conn net.Conn) {
	l.connsMu.Lock()
	l.conns[conn] = struct{}{}
	l.connsMu.Unlock()
}

func (l *Listener) untrack(conn net.Conn) {
	l.connsMu.Lock()
	delete(l.conns, conn)
	l.connsMu.Unlock()
}

// ActiveConnections returns the number of sessions currently in flight, for
// the admin console's .connections command.
func (l *Listener) ActiveConnections() int {
	l.connsMu.Lock()
	defer l.connsMu.Unlock()
	return len(l.conns)
}

// drain waits up to drainTimeout for in-flight sessions to finish, then
// force-closes whatever connections remain, and finally flushes every
// registered endpoint's backing store.
func (l *Listener) drain() {
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(drainTimeout):
		l.connsMu.Lock()
		for conn := range l.conns {
			_ = conn.Close()
		}
		l.connsMu.Unlock()
		<-done
	}

	ctx := context.Background()
	for _, ep := range l.registry.Endpoints() {
		if ep.Close == nil {
			continue
		}
		if err := ep.Close(ctx); err != nil && l.logger != nil {
			l.logger.Printf(ctx, "ERROR flush %s: %v", ep.Root, err)
		}
	}
}
