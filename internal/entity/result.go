package entity

import "time"

// Outcomes recorded for a finished room.
const (
	OutcomePlayerOne = "player1"
	OutcomePlayerTwo = "player2"
	OutcomeDraw      = "draw"
	OutcomeAborted   = "aborted"
)

// GameResult is the archived summary of one finished game.
type GameResult struct {
	RoomCode   string    `json:"room_code"`
	Outcome    string    `json:"outcome"`
	Plies      int       `json:"plies"`
	FinishedAt time.Time `json:"finished_at"`
}

// OutcomeForMark maps a winning board mark to its archive outcome.
func OutcomeForMark(mark int) string {
	switch mark {
	case CellPlayerOne:
		return OutcomePlayerOne
	case CellPlayerTwo:
		return OutcomePlayerTwo
	default:
		return OutcomeDraw
	}
}
