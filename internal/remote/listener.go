// Package remote accepts prompts pushed over a loopback TCP socket.
//
// The protocol is one newline-terminated line of UTF-8 text per connection.
// A final line cut short by the peer closing its write side is accepted too.
// The server forwards the trimmed line to the session, answers with Reply and
// closes the connection.
package remote

import (
	"bufio"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/netutil"

	apperrors "github.com/diogo/llmtui/internal/errors"
)

// Reply is written back to every peer that sent a complete line.
const Reply = "Command received and processed.\n"

// Listener is the remote command server.
type Listener struct {
	addr        string
	commands    chan<- string
	readTimeout time.Duration
	maxConns    int
	listening   *atomic.Bool
	logger      *zap.Logger

	mu     sync.Mutex
	ln     net.Listener
	closed bool
}

// Option configures a Listener.
type Option func(*Listener)

// WithReadTimeout bounds how long a connection may take to send its line.
// Zero means no limit.
func WithReadTimeout(d time.Duration) Option {
	return func(l *Listener) {
		if d > 0 {
			l.readTimeout = d
		}
	}
}

// WithMaxConnections caps the number of connections handled at once.
// Zero means no cap.
func WithMaxConnections(n int) Option {
	return func(l *Listener) {
		if n > 0 {
			l.maxConns = n
		}
	}
}

// WithListeningFlag shares the flag set once the socket is bound.
func WithListeningFlag(flag *atomic.Bool) Option {
	return func(l *Listener) {
		if flag != nil {
			l.listening = flag
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Listener) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a Listener that forwards lines to commands.
func New(addr string, commands chan<- string, opts ...Option) *Listener {
	l := &Listener{
		addr:      addr,
		commands:  commands,
		listening: &atomic.Bool{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Listen binds the socket and raises the listening flag.
func (l *Listener) Listen() error {
	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return apperrors.NewListenError(l.addr, err)
	}
	if l.maxConns > 0 {
		ln = netutil.LimitListener(ln, l.maxConns)
	}

	l.mu.Lock()
	l.ln = ln
	l.mu.Unlock()

	l.listening.Store(true)
	l.logger.Info("remote listener bound",
		zap.String("addr", ln.Addr().String()),
		zap.Int("max_connections", l.maxConns),
	)
	return nil
}

// Serve accepts connections until Close is called. Each connection is
// handled by its own goroutine which is never joined.
func (l *Listener) Serve() error {
	l.mu.Lock()
	ln := l.ln
	l.mu.Unlock()
	if ln == nil {
		return errors.New("remote: Serve called before Listen")
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			if l.isClosed() {
				return nil
			}
			return err
		}
		go l.handle(conn)
	}
}

func (l *Listener) handle(conn net.Conn) {
	defer conn.Close()

	if l.readTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(l.readTimeout))
	}

	// A peer may half-close after an unterminated line; that text still counts.
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		l.logger.Debug("remote read failed",
			zap.String("peer", conn.RemoteAddr().String()),
			zap.Error(err),
		)
		return
	}

	text := strings.TrimSpace(line)
	l.commands <- text
	l.logger.Debug("remote command queued", zap.Int("bytes", len(text)))

	if _, err := conn.Write([]byte(Reply)); err != nil {
		l.logger.Debug("remote reply failed", zap.Error(err))
	}
}

// Addr returns the bound address, or nil before Listen.
func (l *Listener) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ln == nil {
		return nil
	}
	return l.ln.Addr()
}

// Listening reports whether the socket has been bound. Once true it stays
// true.
func (l *Listener) Listening() bool {
	return l.listening.Load()
}

// Close stops accepting connections. Handlers already running finish on
// their own.
func (l *Listener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || l.ln == nil {
		return nil
	}
	l.closed = true
	return l.ln.Close()
}

func (l *Listener) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}
