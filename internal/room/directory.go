package room

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/protocol"
)

// Directory is the process-wide map from room code to room. The map is
// never exposed; all structural mutation happens through it, under a lock
// held only for the mutation itself, never across network I/O.
type Directory struct {
	logger   *slog.Logger
	writeGap time.Duration

	mu      sync.Mutex
	rooms   map[string]*Room
	onReady func(*Room)
}

func NewDirectory(logger *slog.Logger, writeGap time.Duration) *Directory {
	return &Directory{
		logger:   logger.With("component", "directory"),
		writeGap: writeGap,
		rooms:    make(map[string]*Room),
	}
}

// SetOnReady registers the callback run when a room gains its second
// player. It fires exactly once per room, on that transition.
func (that *Directory) SetOnReady(fn func(*Room)) {
	that.onReady = fn
}

// JoinPlayer adds a connection as a player of the room named by code,
// creating the room if the code is unseen. The third player attempt is
// rejected with Room Full and closed without mutating the room.
func (that *Directory) JoinPlayer(conn *Conn, code string) error {
	that.mu.Lock()

	existing, ok := that.rooms[code]
	if !ok {
		existing = newRoom(code)
		that.rooms[code] = existing
	}

	switch existing.PlayerCount() {
	case 0:
		// fresh room, or one a spectator opened ahead of the players
		existing.addPlayer(conn)
		that.mu.Unlock()

		that.logger.Info("player one joined", "room", code, "addr", conn.Addr)

		if err := conn.Send(protocol.TokenPlayerOne); err != nil {
			return fmt.Errorf("failed to greet player one: %w", err)
		}

		return nil

	case 1:
		existing.addPlayer(conn)
		that.mu.Unlock()

		that.logger.Info("room ready", "room", code, "addr", conn.Addr)

		if err := conn.Send(protocol.TokenPlayerTwo); err != nil {
			that.logger.Error("failed to greet player two", "room", code, "error", err)
		}

		if that.onReady != nil {
			that.onReady(existing)
		}

		return nil
	}

	that.mu.Unlock()

	that.logger.Info("connection refused", "room", code, "addr", conn.Addr)

	_ = conn.Send(protocol.TokenRoomFull)
	conn.Close()

	return fmt.Errorf("%w: room %s", apperror.ErrRoomFull, code)
}

// JoinSpectator registers a read-only observer, creating an empty room for
// an unseen code. The join reply is followed by a board-sync pair so the
// spectator's view matches the room at join time; the sync is best-effort
// and a failure drops only this spectator.
func (that *Directory) JoinSpectator(conn *Conn, code string) error {
	that.mu.Lock()

	existing, ok := that.rooms[code]
	if !ok {
		existing = newRoom(code)
		that.rooms[code] = existing
	}
	existing.AddSpectator(conn)

	that.mu.Unlock()

	that.logger.Info("spectator joined", "room", code, "addr", conn.Addr)

	if err := that.syncSpectator(existing, conn); err != nil {
		existing.RemoveSpectator(conn)
		conn.Close()

		return fmt.Errorf("%w: %w", apperror.ErrSpectatorSync, err)
	}

	return nil
}

func (that *Directory) syncSpectator(r *Room, conn *Conn) error {
	for _, message := range []string{protocol.TokenSpectator, protocol.TokenMatrix, protocol.FormatBoard(r.Board())} {
		if err := conn.Send(message); err != nil {
			return err
		}

		if that.writeGap > 0 {
			time.Sleep(that.writeGap)
		}
	}

	return nil
}

// Remove deletes a finished room. The caller is responsible for having
// closed its connections.
func (that *Directory) Remove(code string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.rooms, code)
}

// Reap removes rooms that never reached two players and have been idle
// longer than ttl, closing their connections. Live rooms are the turn
// engine's to tear down.
func (that *Directory) Reap(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	that.mu.Lock()
	stale := make([]*Room, 0)
	for code, r := range that.rooms {
		if !r.isLive() && r.PlayerCount() < maxPlayers && r.createdAt.Before(cutoff) {
			stale = append(stale, r)
			delete(that.rooms, code)
		}
	}
	that.mu.Unlock()

	for _, r := range stale {
		that.logger.Info("reaping idle room", "room", r.Code)
		r.Shutdown()
	}

	return len(stale)
}

// Stats reports the number of rooms and of games in progress.
func (that *Directory) Stats() (int, int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	games := 0
	for _, r := range that.rooms {
		if r.isLive() {
			games++
		}
	}

	return len(that.rooms), games
}
