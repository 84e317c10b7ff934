package board

import (
	"strconv"
	"strings"

	"github.com/ardanlabs/connect-sim/cmd/connect/game"
)

// Text renders a grid one row per line using X for player one, O for player
// two and _ for an empty cell, followed by a line of column indexes.
//
//	_  _  _  _  _  _  _
//	_  _  _  X  O  _  _
//	0  1  2  3  4  5  6
func Text(grid [][]game.Marker) string {
	var b strings.Builder

	var width int
	for _, row := range grid {
		width = len(row)
		for _, m := range row {
			b.WriteString(m.Symbol())
			b.WriteString("  ")
		}
		b.WriteString("\n")
	}

	for col := range width {
		b.WriteString(strconv.Itoa(col))
		b.WriteString("  ")
	}
	b.WriteString("\n")

	return b.String()
}
