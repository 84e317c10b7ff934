package game

import "fmt"

// Snapshot is a copy of the board handed to players that live outside this
// process. Changing it has no effect on the board.
type Snapshot struct {
	Grid      [][]Marker `json:"grid"`
	Remaining []int      `json:"remaining"`
	Marker    Marker     `json:"marker"`
}

// Snapshot captures the board for the player using the specified marker.
func (b *Board) Snapshot(marker Marker) Snapshot {
	return Snapshot{
		Grid:      b.Grid(),
		Remaining: b.RemainingCounts(),
		Marker:    marker,
	}
}

// LegalColumns returns the columns with space left, in ascending order.
func (s Snapshot) LegalColumns() []int {
	var cols []int
	for col, left := range s.Remaining {
		if left > 0 {
			cols = append(cols, col)
		}
	}

	return cols
}

// =============================================================================

// CopyGrid returns a deep copy of a grid.
func CopyGrid(grid [][]Marker) [][]Marker {
	out := make([][]Marker, len(grid))
	for row := range grid {
		out[row] = make([]Marker, len(grid[row]))
		copy(out[row], grid[row])
	}

	return out
}

// FlattenGrid returns the cell values of a grid in row-major order.
func FlattenGrid(grid [][]Marker) []int {
	var out []int
	for _, row := range grid {
		for _, m := range row {
			out = append(out, int(m))
		}
	}

	return out
}

// UnflattenGrid rebuilds a grid from row-major cell values.
func UnflattenGrid(cells []int, height int, width int) ([][]Marker, error) {
	if len(cells) != height*width {
		return nil, fmt.Errorf("have %d cells for a %dx%d grid", len(cells), height, width)
	}

	grid := make([][]Marker, height)
	for row := range grid {
		grid[row] = make([]Marker, width)
		for col := range grid[row] {
			v := cells[row*width+col]
			if v < -1 || v > 1 {
				return nil, fmt.Errorf("cell %d holds %d", row*width+col, v)
			}
			grid[row][col] = Marker(v)
		}
	}

	return grid, nil
}
