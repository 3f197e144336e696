package protocol

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHandshake(t *testing.T) {
	t.Run("Player join", func(t *testing.T) {
		verb, code, err := ParseHandshake("ROOM abc")

		require.NoError(t, err)
		assert.Equal(t, VerbRoom, verb)
		assert.Equal(t, "ABC", code)
	})

	t.Run("Spectator join with mixed case", func(t *testing.T) {
		verb, code, err := ParseHandshake("  spectate MyRoom  ")

		require.NoError(t, err)
		assert.Equal(t, VerbSpectate, verb)
		assert.Equal(t, "MYROOM", code)
	})

	t.Run("Unknown verb", func(t *testing.T) {
		_, _, err := ParseHandshake("JOIN abc")

		require.ErrorIs(t, err, apperror.ErrBadHandshake)
	})

	t.Run("Missing code", func(t *testing.T) {
		_, _, err := ParseHandshake("ROOM")

		require.ErrorIs(t, err, apperror.ErrBadHandshake)
	})

	t.Run("Empty line", func(t *testing.T) {
		_, _, err := ParseHandshake("")

		require.ErrorIs(t, err, apperror.ErrBadHandshake)
	})
}

func TestParseMove(t *testing.T) {
	t.Run("Plain coordinates", func(t *testing.T) {
		row, col, ok := ParseMove("1,2")

		require.True(t, ok)
		assert.Equal(t, 1, row)
		assert.Equal(t, 2, col)
	})

	t.Run("Coordinates with spaces", func(t *testing.T) {
		row, col, ok := ParseMove(" 0 , 2 ")

		require.True(t, ok)
		assert.Equal(t, 0, row)
		assert.Equal(t, 2, col)
	})

	t.Run("Negative coordinates still parse", func(t *testing.T) {
		// bounds are the board's concern, not the parser's
		row, col, ok := ParseMove("-1,5")

		require.True(t, ok)
		assert.Equal(t, -1, row)
		assert.Equal(t, 5, col)
	})

	t.Run("Rejects garbage", func(t *testing.T) {
		for _, text := range []string{"", "12", "a,b", "1,2,3", "1;2", ","} {
			_, _, ok := ParseMove(text)
			assert.False(t, ok, "expected %q to be rejected", text)
		}
	})
}

func TestChat(t *testing.T) {
	t.Run("ChatBody strips the marker", func(t *testing.T) {
		body, isChat := ChatBody("CHAT: hello there ")

		require.True(t, isChat)
		assert.Equal(t, "hello there", body)
	})

	t.Run("ChatBody rejects non-chat", func(t *testing.T) {
		_, isChat := ChatBody("1,2")

		assert.False(t, isChat)
	})

	t.Run("FormatChat builds the relayed form", func(t *testing.T) {
		assert.Equal(t, "CHAT:spec_2:nice move", FormatChat("spec_2", "nice move"))
	})
}

func TestFormatBoard(t *testing.T) {
	t.Run("Empty board", func(t *testing.T) {
		board := entity.Board{}

		assert.Equal(t, "[[0, 0, 0], [0, 0, 0], [0, 0, 0]]", FormatBoard(board))
	})

	t.Run("Board in progress", func(t *testing.T) {
		board := entity.Board{{1, 0, 0}, {0, 2, 0}, {0, 0, 1}}

		assert.Equal(t, "[[1, 0, 0], [0, 2, 0], [0, 0, 1]]", FormatBoard(board))
	})
}

func TestResultLine(t *testing.T) {
	assert.Equal(t, ResultPlayerOneWins, ResultLine(entity.OutcomePlayerOne))
	assert.Equal(t, ResultPlayerTwoWins, ResultLine(entity.OutcomePlayerTwo))
	assert.Equal(t, ResultDraw, ResultLine(entity.OutcomeDraw))
}
