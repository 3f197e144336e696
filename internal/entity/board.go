package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
)

// Cell values stored in the board grid. The wire format serializes these
// digits, so they must stay 0/1/2.
const (
	CellEmpty     = 0
	CellPlayerOne = 1
	CellPlayerTwo = 2
)

const BoardSize = 3

// winLines is ordered rows, then columns, then the main diagonal, then the
// anti-diagonal. The first completed line wins, so this ordering is the
// evaluator's tie-break and must not be reordered.
var winLines = [8][3][2]int{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Board is one room's 3x3 grid.
type Board [BoardSize][BoardSize]int

// Winner returns the mark holding a completed line, or CellEmpty.
func (that *Board) Winner() int {
	for _, line := range winLines {
		a := that[line[0][0]][line[0][1]]
		b := that[line[1][0]][line[1][1]]
		c := that[line[2][0]][line[2][1]]

		if a != CellEmpty && a == b && b == c {
			return a
		}
	}

	return CellEmpty
}

// Full reports whether no empty cell remains.
func (that *Board) Full() bool {
	for _, row := range that {
		for _, cell := range row {
			if cell == CellEmpty {
				return false
			}
		}
	}

	return true
}

// Place writes a mark after validating bounds and that the target cell is
// still empty. Validation happens server-side even though the intended
// client restricts input: any byte stream can arrive here.
func (that *Board) Place(row, col, mark int) error {
	if row < 0 || row >= BoardSize || col < 0 || col >= BoardSize {
		return fmt.Errorf("%w: %d,%d", apperror.ErrCellOutOfBounds, row, col)
	}

	if that[row][col] != CellEmpty {
		return fmt.Errorf("%w: %d,%d", apperror.ErrCellOccupied, row, col)
	}

	that[row][col] = mark

	return nil
}
