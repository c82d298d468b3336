package remote

import (
	"bufio"
	"context"
	"net"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	apperrors "github.com/diogo/llmtui/internal/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// startListener binds on an ephemeral loopback port and serves until the
// test ends.
func startListener(t *testing.T, commands chan string, opts ...Option) *Listener {
	t.Helper()
	l := New("127.0.0.1:0", commands, opts...)
	if err := l.Listen(); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- l.Serve() }()
	t.Cleanup(func() {
		l.Close()
		if err := <-done; err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	})
	return l
}

func TestListener_HelloWorld(t *testing.T) {
	commands := make(chan string, 1)
	flag := &atomic.Bool{}
	l := startListener(t, commands, WithListeningFlag(flag))

	if !flag.Load() || !l.Listening() {
		t.Fatal("listening flag should be set after Listen")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	reply, err := Send(ctx, l.Addr().String(), "hello world")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if reply != strings.TrimSuffix(Reply, "\n") {
		t.Errorf("reply = %q", reply)
	}

	select {
	case got := <-commands:
		if got != "hello world" {
			t.Errorf("command = %q, want %q", got, "hello world")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("command was not forwarded")
	}
}

func TestListener_TrimsLine(t *testing.T) {
	commands := make(chan string, 1)
	l := startListener(t, commands)

	conn, err := net.Dial("tcp", l.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	conn.Write([]byte("  padded text \r\n"))

	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if reply != Reply {
		t.Errorf("reply = %q, want %q", reply, Reply)
	}
	if got := <-commands; got != "padded text" {
		t.Errorf("command = %q", got)
	}
}

func TestListener_HalfClose(t *testing.T) {
	tests := []struct {
		name      string
		sent      string
		wantReply string
		wantCmd   bool
	}{
		{"unterminated line", "hello world", Reply, true},
		{"nothing sent", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commands := make(chan string, 1)
			l := startListener(t, commands)

			conn, err := net.Dial("tcp", l.Addr().String())
			if err != nil {
				t.Fatal(err)
			}
			defer conn.Close()
			if tt.sent != "" {
				conn.Write([]byte(tt.sent))
			}
			if err := conn.(*net.TCPConn).CloseWrite(); err != nil {
				t.Fatalf("CloseWrite() error = %v", err)
			}

			conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			reply, _ := bufio.NewReader(conn).ReadString('\n')
			if reply != tt.wantReply {
				t.Errorf("reply = %q, want %q", reply, tt.wantReply)
			}

			select {
			case got := <-commands:
				if !tt.wantCmd || got != tt.sent {
					t.Errorf("command = %q, want forwarded: %v", got, tt.wantCmd)
				}
			default:
				if tt.wantCmd {
					t.Error("command was not forwarded")
				}
			}
		})
	}
}

func TestListener_BindFailure(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer occupied.Close()

	l := New(occupied.Addr().String(), make(chan string))
	err = l.Listen()
	if err == nil {
		t.Fatal("Listen() on a bound port should fail")
	}
	if !apperrors.IsListenError(err) {
		t.Errorf("error %T is not a ListenError", err)
	}
	if l.Listening() {
		t.Error("flag must stay false when bind fails")
	}
}

func TestListener_StalledConnectionDoesNotBlockOthers(t *testing.T) {
	commands := make(chan string, 1)
	l := startListener(t, commands)
	addr := l.Addr().String()

	stalled, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatal(err)
	}
	defer stalled.Close()
	stalled.Write([]byte("no newline"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := Send(ctx, addr, "second"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got := <-commands; got != "second" {
		t.Errorf("command = %q", got)
	}
}

func TestListener_ReadTimeout(t *testing.T) {
	commands := make(chan string, 1)
	l := startListener(t, commands, WithReadTimeout(50*time.Millisecond))

	conn, err := net.Dial("tcp", l.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	conn.Write([]byte("partial"))

	// The server gives up and closes without a reply.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := bufio.NewReader(conn).ReadString('\n'); err == nil {
		t.Error("expected the connection to be closed without a reply")
	}
	select {
	case got := <-commands:
		t.Errorf("unexpected command %q", got)
	default:
	}
}

func TestListener_MaxConnections(t *testing.T) {
	commands := make(chan string, 2)
	l := startListener(t, commands, WithMaxConnections(1))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, text := range []string{"one", "two"} {
		if _, err := Send(ctx, l.Addr().String(), text); err != nil {
			t.Fatalf("Send(%q) error = %v", text, err)
		}
	}
	if a, b := <-commands, <-commands; a != "one" || b != "two" {
		t.Errorf("commands = %q, %q", a, b)
	}
}

func TestListener_ServeBeforeListen(t *testing.T) {
	l := New("127.0.0.1:0", make(chan string))
	if err := l.Serve(); err == nil {
		t.Error("Serve() before Listen() should fail")
	}
	if l.Addr() != nil {
		t.Error("Addr() before Listen() should be nil")
	}
	if err := l.Close(); err != nil {
		t.Errorf("Close() before Listen() = %v", err)
	}
}

func TestSend_Unreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := Send(ctx, addr, "x"); err == nil {
		t.Error("Send() to a closed port should fail")
	}
}
