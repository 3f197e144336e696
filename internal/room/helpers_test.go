package room

import (
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestConn returns a room-side connection backed by net.Pipe plus a
// channel carrying everything the client side reads until EOF.
func newTestConn(t *testing.T) (*Conn, net.Conn, <-chan string) {
	t.Helper()

	serverSide, clientSide := net.Pipe()
	conn := NewConn(serverSide)

	messages := make(chan string, 64)
	go func() {
		defer close(messages)

		buf := make([]byte, 4096)
		for {
			n, err := clientSide.Read(buf)
			if err != nil {
				return
			}
			messages <- string(buf[:n])
		}
	}()

	t.Cleanup(func() {
		conn.Close()
		_ = clientSide.Close()
	})

	return conn, clientSide, messages
}

func receive(t *testing.T, messages <-chan string) string {
	t.Helper()

	select {
	case msg, ok := <-messages:
		require.True(t, ok, "connection closed before the expected message")
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a message")
		return ""
	}
}

func expectClosed(t *testing.T, messages <-chan string) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-messages:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for the connection to close")
		}
	}
}
