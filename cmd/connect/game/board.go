// Package game maintains the Connect-Four board state: the grid, the open
// cell of each column, the remaining capacity of each column and the window
// index used to find four in a row.
package game

// Move records a single ply.
type Move struct {
	Column int    `json:"column"`
	Row    int    `json:"row"`
	Marker Marker `json:"marker"`
}

// Board represents the game board and all its state. The grid, the open mask
// and the column counters are only changed together by ApplyMove.
type Board struct {
	geo       *Geometry
	grid      [][]Marker
	open      [][]bool
	remaining []int
	filled    int
	lined     bool
	winner    Marker
}

// New constructs an empty board over a shared geometry.
func New(geo *Geometry) *Board {
	b := Board{
		geo:       geo,
		grid:      make([][]Marker, geo.height),
		open:      make([][]bool, geo.height),
		remaining: make([]int, geo.width),
	}

	for row := range b.grid {
		b.grid[row] = make([]Marker, geo.width)
		b.open[row] = make([]bool, geo.width)
	}

	b.Reset()

	return &b
}

// NewBoard computes a geometry and constructs an empty board with it.
func NewBoard(height int, width int) (*Board, error) {
	geo, err := NewGeometry(height, width)
	if err != nil {
		return nil, err
	}

	return New(geo), nil
}

// Reset clears the board for a new match.
func (b *Board) Reset() {
	for row := range b.grid {
		for col := range b.grid[row] {
			b.grid[row][col] = Empty
			b.open[row][col] = row == b.geo.height-1
		}
	}

	for col := range b.remaining {
		b.remaining[col] = b.geo.height
	}

	b.filled = 0
	b.lined = false
	b.winner = Empty
}

// LegalColumns returns the columns that can still take a piece, in ascending
// order. An empty result means the board is full.
func (b *Board) LegalColumns() []int {
	cols := make([]int, 0, b.geo.width)
	for col, left := range b.remaining {
		if left > 0 {
			cols = append(cols, col)
		}
	}

	return cols
}

// IsLegal reports whether a piece can be dropped into the column.
func (b *Board) IsLegal(col int) bool {
	return col >= 0 && col < b.geo.width && b.remaining[col] > 0
}

// Terminal reports whether the match on this board is over: a line of four
// exists, whether or not it was recorded, or the grid is full.
func (b *Board) Terminal() bool {
	return b.lined || b.winner != Empty || b.filled == b.geo.Cells()
}

// ApplyMove drops the marker into the column and returns the row it landed
// in. It either fully succeeds or leaves the board unchanged. The terminal
// check comes before the legality checks, so any move on a won or full board
// is an InvariantError rather than an IllegalMoveError.
func (b *Board) ApplyMove(col int, marker Marker) (int, error) {
	if b.Terminal() {
		return -1, invariantf("move in column %d after the game ended", col)
	}

	switch {
	case !marker.Valid():
		return -1, &IllegalMoveError{Column: col, Marker: marker, Reason: "not a player marker"}

	case col < 0 || col >= b.geo.width:
		return -1, &IllegalMoveError{Column: col, Marker: marker, Reason: "column out of range"}

	case b.remaining[col] == 0:
		return -1, &IllegalMoveError{Column: col, Marker: marker, Reason: "column is full"}
	}

	// Rows fill from the bottom, so the lowest empty row is remaining-1.
	row := b.remaining[col] - 1

	b.grid[row][col] = marker
	b.remaining[col]--
	b.filled++

	b.open[row][col] = false
	if row > 0 {
		b.open[row-1][col] = true
	}

	// Only the mover can have completed a line with this piece.
	if b.CheckWinner(marker) {
		b.lined = true
	}

	return row, nil
}

// CheckWinner reports whether the marker owns all four cells of any window.
func (b *Board) CheckWinner(marker Marker) bool {
	if !marker.Valid() {
		return false
	}

	target := marker.Target()
	for _, w := range b.geo.windows {
		if b.WindowSum(w) == target {
			return true
		}
	}

	return false
}

// IsDraw reports whether the board is full with no winner.
func (b *Board) IsDraw() bool {
	return len(b.LegalColumns()) == 0 && !b.CheckWinner(One) && !b.CheckWinner(Two)
}

// RecordWinner freezes the winning marker for this match. It can only be
// called once, and only for a marker that has four in a row.
func (b *Board) RecordWinner(marker Marker) error {
	if b.winner != Empty {
		return invariantf("winner already recorded as %s", b.winner)
	}

	if !b.CheckWinner(marker) {
		return invariantf("marker %s has no winning line", marker)
	}

	b.winner = marker

	return nil
}

// Winner returns the recorded winner or Empty.
func (b *Board) Winner() Marker {
	return b.winner
}

// =============================================================================

// Geometry returns the shared window index.
func (b *Board) Geometry() *Geometry {
	return b.geo
}

// Height returns the number of rows.
func (b *Board) Height() int {
	return b.geo.height
}

// Width returns the number of columns.
func (b *Board) Width() int {
	return b.geo.width
}

// At returns the marker in a cell.
func (b *Board) At(row int, col int) Marker {
	return b.grid[row][col]
}

// Open reports whether the cell is the next playable cell of its column.
func (b *Board) Open(row int, col int) bool {
	return b.open[row][col]
}

// Remaining returns the number of empty cells left in a column.
func (b *Board) Remaining(col int) int {
	return b.remaining[col]
}

// RemainingCounts returns a copy of the per-column remaining counters.
func (b *Board) RemainingCounts() []int {
	out := make([]int, len(b.remaining))
	copy(out, b.remaining)

	return out
}

// Filled returns the number of pieces on the board.
func (b *Board) Filled() int {
	return b.filled
}

// WindowSum adds the markers of the four cells in a window.
func (b *Board) WindowSum(w Window) int {
	var sum int
	for _, c := range w {
		sum += int(b.grid[c.Row][c.Col])
	}

	return sum
}

// Grid returns a deep copy of the cell values.
func (b *Board) Grid() [][]Marker {
	return CopyGrid(b.grid)
}

// Flatten returns the cell values in row-major order.
func (b *Board) Flatten() []int {
	return FlattenGrid(b.grid)
}
