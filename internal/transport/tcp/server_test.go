package tcp

import (
	"io"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/protocol"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/room"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type joinerRecorder struct {
	mu         sync.Mutex
	players    map[string]int
	spectators map[string]int
}

func newJoinerRecorder() *joinerRecorder {
	return &joinerRecorder{
		players:    make(map[string]int),
		spectators: make(map[string]int),
	}
}

func (that *joinerRecorder) JoinPlayer(_ *room.Conn, code string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.players[code]++

	return nil
}

func (that *joinerRecorder) JoinSpectator(_ *room.Conn, code string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.spectators[code]++

	return nil
}

func (that *joinerRecorder) counts(code string) (int, int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.players[code], that.spectators[code]
}

func newTestServer() (*Server, *joinerRecorder) {
	directory := newJoinerRecorder()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return New(logger, directory), directory
}

func handshakeWith(t *testing.T, server *Server, line string) (net.Conn, <-chan struct{}) {
	t.Helper()

	serverSide, clientSide := net.Pipe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		server.handshake(serverSide)
	}()

	if line != "" {
		_, err := clientSide.Write([]byte(line))
		require.NoError(t, err)
	}

	t.Cleanup(func() {
		_ = clientSide.Close()
	})

	return clientSide, done
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handshake did not finish")
	}
}

func TestServer_Handshake(t *testing.T) {
	t.Run("Player join is routed to the directory", func(t *testing.T) {
		server, directory := newTestServer()

		_, done := handshakeWith(t, server, "ROOM abc")
		waitDone(t, done)

		players, spectators := directory.counts("ABC")
		assert.Equal(t, 1, players)
		assert.Equal(t, 0, spectators)
	})

	t.Run("Spectator join is routed to the directory", func(t *testing.T) {
		server, directory := newTestServer()

		_, done := handshakeWith(t, server, "spectate abc")
		waitDone(t, done)

		players, spectators := directory.counts("ABC")
		assert.Equal(t, 0, players)
		assert.Equal(t, 1, spectators)
	})

	t.Run("Unknown verb is rejected and the socket closed", func(t *testing.T) {
		server, directory := newTestServer()

		clientSide, done := handshakeWith(t, server, "HELLO abc")

		buf := make([]byte, 256)
		n, err := clientSide.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, protocol.TokenProtocolError, string(buf[:n]))

		waitDone(t, done)

		// the connection is closed, no retry
		_, err = clientSide.Read(buf)
		require.Error(t, err)

		players, spectators := directory.counts("ABC")
		assert.Equal(t, 0, players)
		assert.Equal(t, 0, spectators)
	})

	t.Run("Missing code is rejected", func(t *testing.T) {
		server, directory := newTestServer()

		clientSide, done := handshakeWith(t, server, "ROOM")

		buf := make([]byte, 256)
		n, err := clientSide.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, protocol.TokenProtocolError, string(buf[:n]))

		waitDone(t, done)

		players, _ := directory.counts("")
		assert.Equal(t, 0, players)
	})

	t.Run("Client hangup during handshake is tolerated", func(t *testing.T) {
		server, _ := newTestServer()

		clientSide, done := handshakeWith(t, server, "")
		require.NoError(t, clientSide.Close())

		waitDone(t, done)
	})
}
