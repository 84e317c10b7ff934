package game

import (
	"fmt"
	"strings"
)

// Marker is the value held by a grid cell. The two players use +1 and -1 so a
// window is won when its sum reaches four times the player's marker.
type Marker int8

// Set of cell values.
const (
	Empty Marker = 0
	One   Marker = 1
	Two   Marker = -1
)

// Set of known marker names.
var markers = map[string]Marker{
	"one": One,
	"two": Two,
	"1":   One,
	"2":   Two,
}

// MarkerFor returns the marker for a player index, 1 or 2.
func MarkerFor(index int) (Marker, error) {
	switch index {
	case 1:
		return One, nil
	case 2:
		return Two, nil
	}

	return Empty, fmt.Errorf("invalid player index %d", index)
}

// ParseMarker parses the string value and returns a player marker if one
// exists.
func ParseMarker(value string) (Marker, error) {
	m, exists := markers[strings.ToLower(value)]
	if !exists {
		return Empty, fmt.Errorf("invalid player %q", value)
	}

	return m, nil
}

// Valid reports whether the marker belongs to a player.
func (m Marker) Valid() bool {
	return m == One || m == Two
}

// Opponent returns the other player's marker.
func (m Marker) Opponent() Marker {
	return -m
}

// Target is the window sum that means this marker owns all four cells.
func (m Marker) Target() int {
	return lineLength * int(m)
}

// Index returns the player index, 1 or 2, and 0 for Empty.
func (m Marker) Index() int {
	switch m {
	case One:
		return 1
	case Two:
		return 2
	}

	return 0
}

// Symbol returns the display character for the marker.
func (m Marker) Symbol() string {
	switch m {
	case One:
		return "X"
	case Two:
		return "O"
	}

	return "_"
}

// String returns the name of the marker.
func (m Marker) String() string {
	switch m {
	case One:
		return "one"
	case Two:
		return "two"
	case Empty:
		return "empty"
	}

	return fmt.Sprintf("marker(%d)", int8(m))
}
