package core

import (
	"bufio"
	"context"
	"fmt"
	"net"

	"github.com/diogofriggo/petri/pkg/petri/types"
)

// Listener binds the node's endpoint, accepts inbound connections and
// demultiplexes each received line into the inbox of the feeding node
// that sent it. It never deserializes past the feeding_node envelope:
// Active vs. Passive decoding happens on the engine goroutine during
// tick, keeping simulation-state access single-threaded.
type Listener struct {
	listener net.Listener
	log      types.Logger
	inboxes  map[string]*Inbox

	ctx    context.Context
	cancel context.CancelCauseFunc
}

// NewListener binds addr and returns a Listener ready to Serve. ctx and
// cancel must be the same cancellable context (and its cause-cancel
// function) the engine's Run uses, so a fatal listener error unblocks
// the engine's blocking inbox receive instead of only stopping the
// listener. A bind failure is fatal during startup, so it is returned
// directly rather than deferred.
func NewListener(ctx context.Context, cancel context.CancelCauseFunc, addr string, inboxes map[string]*Inbox, log types.Logger) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", addr, err)
	}
	return &Listener{
		listener: ln,
		log:      log,
		inboxes:  inboxes,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Done is closed once the listener has hit a fatal error or been
// asked to stop; Cause reports why.
func (l *Listener) Done() <-chan struct{} { return l.ctx.Done() }

// Cause reports the reason Done fired: context.Canceled after a clean
// Close, the triggering error after a fatal decode/protocol failure.
func (l *Listener) Cause() error { return context.Cause(l.ctx) }

// Serve accepts connections until Close is called or a fatal decode/
// protocol error occurs. It never returns a value; fatal conditions are
// observed through Done/Cause.
func (l *Listener) Serve() {
	for {
		conn, err := l.listener.Accept()
		if err != nil {
			select {
			case <-l.ctx.Done():
				return
			default:
				l.cancel(fmt.Errorf("accept: %w", err))
				return
			}
		}
		go l.handle(conn)
	}
}

// handle reads exactly one newline-terminated line per connection:
// connections are short-lived and framing is line-based.
func (l *Listener) handle(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	line, err := reader.ReadBytes('\n')
	if err != nil && len(line) == 0 {
		l.log.Warnf("connection from %s closed without a message", conn.RemoteAddr())
		return
	}

	env, err := types.DecodeEnvelope(line)
	if err != nil {
		l.cancel(err)
		return
	}

	inbox, ok := l.inboxes[env.FeedingNode]
	if !ok {
		l.cancel(fmt.Errorf("%w: %q", types.ErrUnknownFeeder, env.FeedingNode))
		return
	}
	inbox.Push(line)
}

// Close stops accepting new connections. Already-open per-connection
// handlers finish their single read and exit on their own.
func (l *Listener) Close() {
	l.cancel(nil)
	l.listener.Close()
}

// Addr returns the bound local address, useful when the caller asked
// for an ephemeral port.
func (l *Listener) Addr() string {
	return l.listener.Addr().String()
}
