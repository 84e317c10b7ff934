package game

// Standard board dimensions.
const (
	DefaultHeight = 6
	DefaultWidth  = 7
)

// lineLength is the number of pieces in a row needed to win.
const lineLength = 4

// Coord identifies a single cell on the grid. Row 0 is the top row.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Window is four collinear grid coordinates checked for four in a row. It
// references positions, never values, so it stays valid for the life of any
// board with the same dimensions.
type Window [lineLength]Coord

// BuildWindows enumerates every straight line of four cells on a grid of the
// specified size. The order is stable: rows, columns, down-right diagonals
// and then up-right diagonals.
func BuildWindows(height int, width int) ([]Window, error) {
	if height < lineLength || width < lineLength {
		return nil, &GeometryError{Height: height, Width: width}
	}

	var windows []Window

	// -------------------------------------------------------------------------
	// Horizontal windows, row by row.

	for row := 0; row < height; row++ {
		for col := 0; col <= width-lineLength; col++ {
			var w Window
			for i := range lineLength {
				w[i] = Coord{Row: row, Col: col + i}
			}
			windows = append(windows, w)
		}
	}

	// -------------------------------------------------------------------------
	// Vertical windows, column by column from the top.

	for col := 0; col < width; col++ {
		for row := 0; row <= height-lineLength; row++ {
			var w Window
			for i := range lineLength {
				w[i] = Coord{Row: row + i, Col: col}
			}
			windows = append(windows, w)
		}
	}

	// -------------------------------------------------------------------------
	// Diagonals running from the top left down towards the right.

	for row := 0; row <= height-lineLength; row++ {
		for col := 0; col <= width-lineLength; col++ {
			var w Window
			for i := range lineLength {
				w[i] = Coord{Row: row + i, Col: col + i}
			}
			windows = append(windows, w)
		}
	}

	// -------------------------------------------------------------------------
	// Diagonals running from the bottom left up towards the right.

	for row := height - 1; row >= lineLength-1; row-- {
		for col := 0; col <= width-lineLength; col++ {
			var w Window
			for i := range lineLength {
				w[i] = Coord{Row: row - i, Col: col + i}
			}
			windows = append(windows, w)
		}
	}

	return windows, nil
}

// =============================================================================

// Geometry is the immutable window index for one board size. A single value
// can be shared by any number of boards and goroutines.
type Geometry struct {
	height  int
	width   int
	windows []Window
}

// NewGeometry computes the window index for the specified dimensions.
func NewGeometry(height int, width int) (*Geometry, error) {
	windows, err := BuildWindows(height, width)
	if err != nil {
		return nil, err
	}

	geo := Geometry{
		height:  height,
		width:   width,
		windows: windows,
	}

	return &geo, nil
}

// MustGeometry is NewGeometry for dimensions known to be valid. It panics on
// a degenerate size.
func MustGeometry(height int, width int) *Geometry {
	geo, err := NewGeometry(height, width)
	if err != nil {
		panic(err)
	}

	return geo
}

// Height returns the number of rows.
func (g *Geometry) Height() int {
	return g.height
}

// Width returns the number of columns.
func (g *Geometry) Width() int {
	return g.width
}

// Cells returns the number of cells on the grid.
func (g *Geometry) Cells() int {
	return g.height * g.width
}

// Windows returns the window list. Callers must not modify it.
func (g *Geometry) Windows() []Window {
	return g.windows
}
