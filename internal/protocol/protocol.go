// Package protocol defines the plain-text wire tokens exchanged with game
// clients. Messages carry no framing: boundaries are whatever a single recv
// returns, so sentinel tokens ("Matrix", "Over") are sent as separate
// messages ahead of their payload.
package protocol

import (
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

// Handshake verbs (client -> server).
const (
	VerbRoom     = "ROOM"
	VerbSpectate = "SPECTATE"
)

// Server -> client tokens.
const (
	TokenPlayerOne     = "<<< You are player 1 >>>"
	TokenPlayerTwo     = "<<< You are player 2 >>>"
	TokenSpectator     = "<<< You are spectator >>>"
	TokenRoomFull      = "Room Full"
	TokenProtocolError = "Protocol Error"
	TokenInput         = "Input"
	TokenMatrix        = "Matrix"
	TokenOver          = "Over"

	TurnPlayerOne = "Player One's Turn"
	TurnPlayerTwo = "Player Two's Turn"

	ResultPlayerOneWins = "Player One is the winner!!"
	ResultPlayerTwoWins = "Player Two is the winner!!"
	ResultDraw          = "Draw game!! Try again later!"
)

const chatPrefix = "CHAT:"

// ParseHandshake parses the single "<VERB> <CODE>" message a connection
// sends after dialing. Verb and code are case-insensitive.
func ParseHandshake(line string) (string, string, error) {
	verb, code, _ := strings.Cut(strings.TrimSpace(line), " ")
	verb = strings.ToUpper(strings.TrimSpace(verb))
	code = strings.ToUpper(strings.TrimSpace(code))

	if verb != VerbRoom && verb != VerbSpectate {
		return "", "", apperror.ErrBadHandshake
	}

	if code == "" {
		return "", "", apperror.ErrBadHandshake
	}

	return verb, code, nil
}

// ParseMove accepts exactly two integers separated by one comma.
func ParseMove(text string) (int, int, bool) {
	if strings.Count(text, ",") != 1 {
		return 0, 0, false
	}

	rowPart, colPart, _ := strings.Cut(text, ",")

	row, err := strconv.Atoi(strings.TrimSpace(rowPart))
	if err != nil {
		return 0, 0, false
	}

	col, err := strconv.Atoi(strings.TrimSpace(colPart))
	if err != nil {
		return 0, 0, false
	}

	return row, col, true
}

// ChatBody strips the chat marker from an inbound message, reporting
// whether the message was chat at all.
func ChatBody(text string) (string, bool) {
	if !strings.HasPrefix(text, chatPrefix) {
		return "", false
	}

	return strings.TrimSpace(strings.TrimPrefix(text, chatPrefix)), true
}

// FormatChat builds the relayed form: CHAT:<label>:<text>.
func FormatChat(label, text string) string {
	return chatPrefix + label + ":" + text
}

// FormatBoard renders the board in the literal nested-list text form the
// clients parse, e.g. [[1, 0, 0], [0, 2, 0], [0, 0, 0]].
func FormatBoard(board entity.Board) string {
	var b strings.Builder

	b.WriteByte('[')
	for i, row := range board {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('[')
		for j, cell := range row {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Itoa(cell))
		}
		b.WriteByte(']')
	}
	b.WriteByte(']')

	return b.String()
}

// ResultLine maps an archive outcome to the human-readable line broadcast
// after the Over token.
func ResultLine(outcome string) string {
	switch outcome {
	case entity.OutcomePlayerOne:
		return ResultPlayerOneWins
	case entity.OutcomePlayerTwo:
		return ResultPlayerTwoWins
	default:
		return ResultDraw
	}
}
