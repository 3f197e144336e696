// Package room holds the connection registry: rooms, their player and
// spectator sets, and the directory that owns room lifecycle. Socket reads
// are modeled as events on a per-room channel so the turn engine is the
// only goroutine coordinating a live room.
package room

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

// eventBacklog bounds buffered reads per room; pumps fall back to the done
// guard when a dead room stops draining.
const eventBacklog = 256

const maxPlayers = 2

// Room is one game session keyed by a player-supplied code. Membership is
// guarded by its mutex; the board is written only by the room's turn
// engine once the game starts.
type Room struct {
	Code string

	createdAt time.Time

	mu         sync.Mutex
	players    []*Conn
	spectators []*Conn
	board      entity.Board
	live       bool

	events   chan Event
	done     chan struct{}
	doneOnce sync.Once
}

func newRoom(code string) *Room {
	return &Room{
		Code:      code,
		createdAt: time.Now(),
		events:    make(chan Event, eventBacklog),
		done:      make(chan struct{}),
	}
}

// Events delivers reads from every connection in the room.
func (that *Room) Events() <-chan Event { return that.events }

// addPlayer appends in assignment order; index 0 is player one. The caller
// checks capacity under the same lock discipline.
func (that *Room) addPlayer(conn *Conn) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.players = append(that.players, conn)

	return len(that.players)
}

func (that *Room) PlayerCount() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.players)
}

// Players returns the ordered player connections at this instant.
func (that *Room) Players() []*Conn {
	that.mu.Lock()
	defer that.mu.Unlock()

	players := make([]*Conn, len(that.players))
	copy(players, that.players)

	return players
}

// Conns returns every connection in the room, players first.
func (that *Room) Conns() []*Conn {
	that.mu.Lock()
	defer that.mu.Unlock()

	conns := make([]*Conn, 0, len(that.players)+len(that.spectators))
	conns = append(conns, that.players...)
	conns = append(conns, that.spectators...)

	return conns
}

// AddSpectator registers a spectator; if the room is already live its read
// pump starts immediately so chat flows without waiting for the next ply.
func (that *Room) AddSpectator(conn *Conn) {
	that.mu.Lock()
	that.spectators = append(that.spectators, conn)
	live := that.live
	that.mu.Unlock()

	if live {
		that.watch(conn)
	}
}

func (that *Room) RemoveSpectator(conn *Conn) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for i, spectator := range that.spectators {
		if spectator == conn {
			that.spectators = append(that.spectators[:i], that.spectators[i+1:]...)
			return
		}
	}
}

// PlayerIndex reports the zero-based player slot of a connection.
func (that *Room) PlayerIndex(conn *Conn) (int, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for i, player := range that.players {
		if player == conn {
			return i, true
		}
	}

	return 0, false
}

// Label derives the chat label for a connection from current membership:
// Player1/Player2 by slot, spec_<n> by 1-based join order, else Unknown.
func (that *Room) Label(conn *Conn) string {
	that.mu.Lock()
	defer that.mu.Unlock()

	for i, player := range that.players {
		if player == conn {
			return "Player" + strconv.Itoa(i+1)
		}
	}

	for i, spectator := range that.spectators {
		if spectator == conn {
			return "spec_" + strconv.Itoa(i+1)
		}
	}

	return "Unknown"
}

// Board returns a snapshot; readers outside the turn engine tolerate it
// being stale by one broadcast.
func (that *Room) Board() entity.Board {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.board
}

// PlaceMark commits a validated move. Only the room's turn engine calls
// this once the game is live.
func (that *Room) PlaceMark(row, col, mark int) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.board.Place(row, col, mark); err != nil {
		return fmt.Errorf("room %s: %w", that.Code, err)
	}

	return nil
}

// Activate marks the room live and starts read pumps for every connection
// already present. Called exactly once, by the turn engine.
func (that *Room) Activate() {
	that.mu.Lock()
	that.live = true
	conns := make([]*Conn, 0, len(that.players)+len(that.spectators))
	conns = append(conns, that.players...)
	conns = append(conns, that.spectators...)
	that.mu.Unlock()

	for _, conn := range conns {
		that.watch(conn)
	}
}

func (that *Room) isLive() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.live
}

// watch starts the connection's read pump, once per connection.
func (that *Room) watch(conn *Conn) {
	conn.watchOnce.Do(func() {
		go that.pump(conn)
	})
}

func (that *Room) pump(conn *Conn) {
	buf := make([]byte, readBufferSize)

	for {
		n, err := conn.sock.Read(buf)
		if err != nil || n == 0 {
			that.publish(Event{Conn: conn, Closed: true})
			return
		}

		text := strings.TrimSpace(string(buf[:n]))
		if !that.publish(Event{Conn: conn, Data: text}) {
			return
		}
	}
}

func (that *Room) publish(event Event) bool {
	select {
	case that.events <- event:
		return true
	case <-that.done:
		return false
	}
}

// Shutdown closes every connection and releases the read pumps. Safe to
// call more than once.
func (that *Room) Shutdown() {
	that.doneOnce.Do(func() {
		close(that.done)
	})

	for _, conn := range that.Conns() {
		conn.Close()
	}
}
