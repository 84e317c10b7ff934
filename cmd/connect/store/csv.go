// Package store persists finished matches.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ardanlabs/connect-sim/cmd/connect/game"
	"github.com/ardanlabs/connect-sim/cmd/connect/match"
)

// Record is one persisted match: the final grid and the winning marker.
type Record struct {
	Grid   [][]game.Marker
	Winner game.Marker
}

// RecordOf converts a match result into a record.
func RecordOf(res match.Result) Record {
	return Record{
		Grid:   game.CopyGrid(res.Grid),
		Winner: res.Winner,
	}
}

// Header returns the column names for a grid with the specified number of
// cells: pos_01 through pos_NN followed by winner.
func Header(cells int) []string {
	width := len(strconv.Itoa(cells))
	if width < 2 {
		width = 2
	}

	header := make([]string, 0, cells+1)
	for p := 1; p <= cells; p++ {
		header = append(header, fmt.Sprintf("pos_%0*d", width, p))
	}

	return append(header, "winner")
}

// Row flattens a record in row-major order followed by the winner.
func (r Record) Row() []string {
	cells := game.FlattenGrid(r.Grid)

	row := make([]string, 0, len(cells)+1)
	for _, v := range cells {
		row = append(row, strconv.Itoa(v))
	}

	return append(row, strconv.Itoa(int(r.Winner)))
}

// ParseRow rebuilds a record from a persisted row.
func ParseRow(row []string, height int, width int) (Record, error) {
	if len(row) != height*width+1 {
		return Record{}, fmt.Errorf("row has %d fields, want %d", len(row), height*width+1)
	}

	values := make([]int, len(row))
	for i, field := range row {
		v, err := strconv.Atoi(field)
		if err != nil {
			return Record{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		values[i] = v
	}

	grid, err := game.UnflattenGrid(values[:len(values)-1], height, width)
	if err != nil {
		return Record{}, err
	}

	winner := game.Marker(values[len(values)-1])
	if winner != game.Empty && !winner.Valid() {
		return Record{}, fmt.Errorf("invalid winner %d", values[len(values)-1])
	}

	return Record{Grid: grid, Winner: winner}, nil
}

// =============================================================================

// CSV appends match records to a file, creating it with a header first when
// it does not exist.
type CSV struct {
	path   string
	height int
	width  int
}

// NewCSV constructs a CSV sink for boards of the specified size.
func NewCSV(path string, height int, width int) *CSV {
	return &CSV{
		path:   path,
		height: height,
		width:  width,
	}
}

// Path returns the file the records are written to.
func (c *CSV) Path() string {
	return c.path
}

// Append writes one record. Appending to an existing file requires its
// header to match the board size of the sink.
func (c *CSV) Append(rec Record) error {
	if len(rec.Grid) != c.height || (c.height > 0 && len(rec.Grid[0]) != c.width) {
		return fmt.Errorf("record grid does not match %dx%d", c.height, c.width)
	}

	_, err := os.Stat(c.path)
	create := errors.Is(err, os.ErrNotExist)
	if err != nil && !create {
		return fmt.Errorf("stat: %w", err)
	}

	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_RDWR|os.O_CREATE, 0666)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	if !create {
		header, err := csv.NewReader(f).Read()
		switch {
		case errors.Is(err, io.EOF):
			create = true
		case err != nil:
			return fmt.Errorf("read header: %w", err)
		default:
			if err := checkHeader(header, c.height*c.width); err != nil {
				return err
			}
		}
	}

	w := csv.NewWriter(f)

	if create {
		if err := w.Write(Header(c.height * c.width)); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	if err := w.Write(rec.Row()); err != nil {
		return fmt.Errorf("write row: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	return f.Close()
}

// ReadAll loads every record in the file.
func (c *CSV) ReadAll() ([]Record, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	return ReadCSV(f, c.height, c.width)
}

// ReadCSV parses a header and the records that follow it.
func ReadCSV(r io.Reader, height int, width int) ([]Record, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	if err := checkHeader(header, height*width); err != nil {
		return nil, err
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec, err := ParseRow(row, height, width)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func checkHeader(header []string, cells int) error {
	exp := Header(cells)
	if len(header) != len(exp) {
		return fmt.Errorf("header has %d columns, want %d", len(header), len(exp))
	}

	for i := range exp {
		if header[i] != exp[i] {
			return fmt.Errorf("header column %d is %q, want %q", i+1, header[i], exp[i])
		}
	}

	return nil
}
