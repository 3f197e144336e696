package room

import (
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/protocol"
)

// Relay fans messages out to a room. Sends are best-effort: one dead
// connection never blocks delivery to the rest. The write gap keeps
// consecutive tokens in separate client reads since the wire format has no
// framing.
type Relay struct {
	logger   *slog.Logger
	writeGap time.Duration
}

func NewRelay(logger *slog.Logger, writeGap time.Duration) *Relay {
	return &Relay{
		logger:   logger.With("component", "relay"),
		writeGap: writeGap,
	}
}

// SendToAll delivers one message to every player and spectator.
func (that *Relay) SendToAll(r *Room, text string) {
	that.fanOut(r, r.Conns(), text)
}

// SendToPlayers delivers one message to the player connections only.
func (that *Relay) SendToPlayers(r *Room, text string) {
	that.fanOut(r, r.Players(), text)
}

// BroadcastChat labels a chat message by its origin's current membership
// and relays it to the whole room, origin included.
func (that *Relay) BroadcastChat(r *Room, origin *Conn, text string) {
	that.SendToAll(r, protocol.FormatChat(r.Label(origin), text))
}

func (that *Relay) fanOut(r *Room, conns []*Conn, text string) {
	for _, conn := range conns {
		if err := conn.Send(text); err != nil {
			that.logger.Debug("dropping undeliverable message", "room", r.Code, "conn", conn.ID, "error", err)
		}
	}

	if that.writeGap > 0 {
		time.Sleep(that.writeGap)
	}
}
