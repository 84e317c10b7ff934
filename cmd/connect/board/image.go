package board

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ardanlabs/connect-sim/cmd/connect/game"
	"github.com/fogleman/gg"
)

const (
	imageRadius = 10
	imageGap    = 25
	imageMargin = 20
)

// PNG draws the grid as a picture of colored discs: red for player one,
// blue for player two and green for an empty cell.
func PNG(grid [][]game.Marker) ([]byte, error) {
	rows := len(grid)
	if rows == 0 {
		return nil, fmt.Errorf("empty grid")
	}
	cols := len(grid[0])

	width := 2*imageMargin + (cols-1)*imageGap
	height := 2*imageMargin + (rows-1)*imageGap

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	y := float64(imageMargin)
	for row := range rows {
		x := float64(imageMargin)

		for col := range cols {
			switch grid[row][col] {
			case game.One:
				dc.SetRGB(1, 0, 0)
			case game.Two:
				dc.SetRGB(0, 0, 1)
			default:
				dc.SetRGB(0, 1, 0)
			}

			dc.DrawCircle(x, y, imageRadius)
			dc.Fill()

			x += imageGap
		}

		y += imageGap
	}

	var b bytes.Buffer
	if err := dc.EncodePNG(&b); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// WritePNG renders the grid into dir/name.png.
func WritePNG(dir string, name string, grid [][]game.Marker) (string, error) {
	data, err := PNG(grid)
	if err != nil {
		return "", fmt.Errorf("png: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}

	path := filepath.Join(dir, name+".png")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write: %w", err)
	}

	return path, nil
}
