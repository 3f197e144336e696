// Package engine drives one room's game to completion. Each room that
// reaches two players gets exactly one engine goroutine; it alone mutates
// the room's board and it alone decides when the room dies.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/protocol"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/room"
)

// maxPlies is the most moves a 3x3 game can hold.
const maxPlies = 9

const (
	defaultPollInterval = 500 * time.Millisecond
	defaultDrainDelay   = time.Second
)

type directory interface {
	Remove(code string)
}

type resultArchive interface {
	Save(ctx context.Context, result *entity.GameResult) error
}

// Options tune the engine's wait loop and teardown pacing.
type Options struct {
	// PollInterval bounds each wait on the room's event channel.
	PollInterval time.Duration
	// DrainDelay lets clients read the final messages before their
	// sockets close under them.
	DrainDelay time.Duration
}

type Engine struct {
	logger    *slog.Logger
	relay     *room.Relay
	directory directory
	archive   resultArchive

	pollInterval time.Duration
	drainDelay   time.Duration
}

func New(logger *slog.Logger, relay *room.Relay, dir directory, archive resultArchive, opts Options) *Engine {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.DrainDelay <= 0 {
		opts.DrainDelay = defaultDrainDelay
	}

	return &Engine{
		logger:       logger.With("component", "engine"),
		relay:        relay,
		directory:    dir,
		archive:      archive,
		pollInterval: opts.PollInterval,
		drainDelay:   opts.DrainDelay,
	}
}

// Run plays a room's game to its terminal state, announces the outcome,
// and tears the room down. It is started once, when the second player
// joins, and is the only goroutine that writes the room's board.
func (that *Engine) Run(r *room.Room) {
	log := that.logger.With("room", r.Code)

	r.Activate()
	log.Info("game started")

	outcome, plies := that.play(r, log)

	if outcome != entity.OutcomeAborted {
		that.relay.SendToAll(r, protocol.TokenOver)
		that.relay.SendToAll(r, protocol.ResultLine(outcome))

		// let clients drain the socket before it closes under them
		time.Sleep(that.drainDelay)
	}

	r.Shutdown()
	that.directory.Remove(r.Code)

	result := &entity.GameResult{
		RoomCode:   r.Code,
		Outcome:    outcome,
		Plies:      plies,
		FinishedAt: time.Now(),
	}
	if err := that.archive.Save(context.Background(), result); err != nil {
		log.Error("failed to archive result", "error", err)
	}

	log.Info("room cleaned up", "outcome", outcome, "plies", plies)
}

func (that *Engine) play(r *room.Room, log *slog.Logger) (string, int) {
	for ply := 0; ply < maxPlies; ply++ {
		mover, mark, announcement := moverForPly(r, ply)

		that.relay.SendToAll(r, announcement)

		if err := mover.Send(protocol.TokenInput); err != nil {
			// the mover is unreachable; abandoning beats spinning forever
			log.Error("failed to prompt mover, aborting game", "conn", mover.ID, "error", err)
			return entity.OutcomeAborted, ply
		}

		if outcome, over := that.awaitMove(r, mover, mark, log); over {
			return outcome, ply
		}

		board := r.Board()
		if winner := board.Winner(); winner != entity.CellEmpty {
			return entity.OutcomeForMark(winner), ply + 1
		}
	}

	return entity.OutcomeDraw, maxPlies
}

// awaitMove multiplexes over every connection in the room until the mover
// commits a valid move. Chat is relayed immediately regardless of whose
// turn it is. A player disconnect ends the game in the opponent's favor;
// the returned flag reports that early terminal.
func (that *Engine) awaitMove(r *room.Room, mover *room.Conn, mark int, log *slog.Logger) (string, bool) {
	for {
		select {
		case event := <-r.Events():
			if event.Closed {
				if outcome, over := that.dropConn(r, event.Conn, log); over {
					return outcome, true
				}
				continue
			}

			if text, isChat := protocol.ChatBody(event.Data); isChat {
				that.relay.BroadcastChat(r, event.Conn, text)
				continue
			}

			if event.Conn != mover {
				continue
			}

			row, col, ok := protocol.ParseMove(event.Data)
			if !ok {
				continue
			}

			if err := r.PlaceMark(row, col, mark); err != nil {
				// invalid moves are ignored, the mover stays prompted
				log.Debug("ignoring invalid move", "conn", mover.ID, "error", err)
				continue
			}

			that.relay.SendToAll(r, protocol.TokenMatrix)
			that.relay.SendToAll(r, protocol.FormatBoard(r.Board()))

			return "", false

		case <-time.After(that.pollInterval):
			// bounded wait; there is deliberately no move timeout
		}
	}
}

// dropConn handles a closed connection noticed in the wait loop. A
// spectator is removed silently; a player disconnect hands the win to the
// opponent rather than leaving the room waiting on a dead socket.
func (that *Engine) dropConn(r *room.Room, conn *room.Conn, log *slog.Logger) (string, bool) {
	if idx, isPlayer := r.PlayerIndex(conn); isPlayer {
		log.Info("player disconnected, opponent wins", "conn", conn.ID, "player", idx+1)
		conn.Close()

		if idx == 0 {
			return entity.OutcomePlayerTwo, true
		}
		return entity.OutcomePlayerOne, true
	}

	log.Debug("spectator left", "conn", conn.ID)
	r.RemoveSpectator(conn)
	conn.Close()

	return "", false
}

func moverForPly(r *room.Room, ply int) (*room.Conn, int, string) {
	players := r.Players()

	if ply%2 == 0 {
		return players[0], entity.CellPlayerOne, protocol.TurnPlayerOne
	}

	return players[1], entity.CellPlayerTwo, protocol.TurnPlayerTwo
}
