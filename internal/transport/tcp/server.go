// Package tcp accepts game connections and routes them into rooms. Each
// accepted socket gets one goroutine for the handshake only; after that the
// connection belongs to its room.
package tcp

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/protocol"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/room"
)

type joiner interface {
	JoinPlayer(conn *room.Conn, code string) error
	JoinSpectator(conn *room.Conn, code string) error
}

type Server struct {
	logger    *slog.Logger
	directory joiner
}

func New(logger *slog.Logger, directory joiner) *Server {
	return &Server{
		logger:    logger.With("component", "tcp"),
		directory: directory,
	}
}

// Start listens for game clients until the context is cancelled. The
// accept loop never blocks on a handshake read.
func (that *Server) Start(ctx context.Context, port string) error {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", port, err)
	}

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	that.logger.Info("accepting connections", "port", port)

	for {
		sock, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			that.logger.Error("failed to accept connection", "error", err)
			continue
		}

		go that.handshake(sock)
	}
}

// handshake reads exactly one "<VERB> <CODE>" message and dispatches the
// connection. Malformed input gets a protocol-error notice and the socket
// is closed; there is no retry.
func (that *Server) handshake(sock net.Conn) {
	conn := room.NewConn(sock)
	log := that.logger.With("method", "handshake", "conn", conn.ID, "addr", conn.Addr)

	line, err := conn.ReadOnce()
	if err != nil {
		log.Error("failed to read handshake", "error", err)
		conn.Close()
		return
	}

	verb, code, err := protocol.ParseHandshake(line)
	if err != nil {
		log.Info("rejecting connection", "error", err)
		_ = conn.Send(protocol.TokenProtocolError)
		conn.Close()
		return
	}

	switch verb {
	case protocol.VerbRoom:
		if err := that.directory.JoinPlayer(conn, code); err != nil {
			log.Info("player join rejected", "room", code, "error", err)
		}
	case protocol.VerbSpectate:
		if err := that.directory.JoinSpectator(conn, code); err != nil {
			log.Info("spectator join failed", "room", code, "error", err)
		}
	}
}
