// Package board handles displaying matches: a terminal spectator view, plain
// text, images and speech.
package board

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/ardanlabs/connect-sim/cmd/connect/game"
	"github.com/ardanlabs/connect-sim/cmd/connect/match"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

const (
	cellWidth  = 5
	cellHeight = 2
	padTop     = 4
	padLeft    = 1
)

const (
	hozTopRune = '━'
	hozBotRune = '▅'
	verRune    = '┃'
	pieceRune  = '●'
	space      = 32
)

// Board represents the spectator view of a match.
type Board struct {
	screen      tcell.Screen
	style       tcell.Style
	speaker     *Speaker
	rows        int
	cols        int
	boardWidth  int
	boardHeight int

	mu            sync.Mutex
	grid          [][]game.Marker
	players       [2]string
	lastMove      string
	lastWinnerMsg string
	gameOver      bool
}

// NewTerminal constructs a board drawn on the terminal.
func NewTerminal(geo *game.Geometry, speaker *Speaker) (*Board, error) {
	tcell.SetEncodingFallback(tcell.EncodingFallbackASCII)

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("new screen: %w", err)
	}

	return New(screen, geo, speaker)
}

// New contructs a game board on the specified screen and renders the board.
// The speaker is optional.
func New(screen tcell.Screen, geo *game.Geometry, speaker *Speaker) (*Board, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("screen init: %w", err)
	}

	style := tcell.StyleDefault
	style = style.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)

	board := Board{
		screen:      screen,
		style:       style,
		speaker:     speaker,
		rows:        geo.Height(),
		cols:        geo.Width(),
		boardWidth:  geo.Width()*cellWidth + 1,
		boardHeight: geo.Height() * cellHeight,
	}

	board.grid = emptyGrid(board.rows, board.cols)

	board.mu.Lock()
	board.drawInit()
	board.mu.Unlock()

	return &board, nil
}

// Shutdown tears down the game board.
func (b *Board) Shutdown() {
	b.screen.Fini()
}

// Start clears the board for a new match between the named players.
func (b *Board) Start(one string, two string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.grid = emptyGrid(b.rows, b.cols)
	b.players = [2]string{one, two}
	b.lastMove = ""
	b.gameOver = false

	b.drawInit()
}

// Observe draws the move just played. It matches the match.Observer
// signature so the board can follow a runner.
func (b *Board) Observe(gb *game.Board, mv game.Move) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.grid[mv.Row][mv.Column] = mv.Marker
	b.drawPiece(mv.Row, mv.Column, mv.Marker)

	b.lastMove = fmt.Sprintf("%s played column %d", b.playerName(mv.Marker), mv.Column)
	b.printStatus()

	b.screen.Show()
}

// Finish shows the outcome of the match.
func (b *Board) Finish(res match.Result) {
	b.mu.Lock()

	switch res.Outcome {
	case match.OneWins:
		b.lastWinnerMsg = fmt.Sprintf("%s (X)", b.players[0])
	case match.TwoWins:
		b.lastWinnerMsg = fmt.Sprintf("%s (O)", b.players[1])
	default:
		b.lastWinnerMsg = "Tie Game"
	}

	b.showWinner()

	b.mu.Unlock()

	if b.speaker != nil {
		b.speaker.Speak(Announcement(res))
	}
}

// Grid returns a copy of the grid as drawn.
func (b *Board) Grid() [][]game.Marker {
	b.mu.Lock()
	defer b.mu.Unlock()

	return game.CopyGrid(b.grid)
}

// Announcement is the sentence spoken when a match ends.
func Announcement(res match.Result) string {
	switch res.Outcome {
	case match.OneWins:
		return fmt.Sprintf("%s wins the game", res.Players[0])
	case match.TwoWins:
		return fmt.Sprintf("%s wins the game", res.Players[1])
	}

	return "The game is a tie"
}

// =============================================================================

func emptyGrid(rows int, cols int) [][]game.Marker {
	grid := make([][]game.Marker, rows)
	for row := range grid {
		grid[row] = make([]game.Marker, cols)
	}

	return grid
}

func (b *Board) playerName(m game.Marker) string {
	if !m.Valid() {
		return m.String()
	}

	name := b.players[m.Index()-1]
	if name == "" {
		return m.String()
	}

	return name
}

func (b *Board) drawInit() {
	b.drawEmptyGameBoard()

	for row := range b.grid {
		for col, m := range b.grid[row] {
			if m != game.Empty {
				b.drawPiece(row, col, m)
			}
		}
	}

	b.printStatus()
	b.screen.Show()
}

func (b *Board) drawEmptyGameBoard() {
	b.screen.Clear()

	style := b.style
	style = style.Background(tcell.ColorBlack).Foreground(tcell.ColorGrey)

	for h := 0; h <= b.boardHeight; h++ {
		for w := 0; w < b.boardWidth; w++ {

			// Clear the entire line.
			b.screen.SetContent(w+padLeft, h+padTop, space, nil, style)

			if h%cellHeight == 0 {

				// These are the '━' characters creating each row.
				b.screen.SetContent(w+padLeft, h+padTop, hozTopRune, nil, style)

				if h == b.boardHeight {

					// These are the '▅' characters creating the bottom row.
					b.screen.SetContent(w+padLeft, h+padTop, hozBotRune, nil, style)
				}
			}

			if w%cellWidth == 0 {

				// These are the '┃' characters creating each column.
				b.screen.SetContent(w+padLeft, h+padTop, verRune, nil, style)
			}
		}
	}

	b.print(padLeft+2, 1, "Connect 4 Simulator")

	for col := range b.cols {
		b.print(pieceX(col), b.boardHeight+padTop+1, strconv.Itoa(col))
	}

	b.print(b.boardWidth+3, padTop-1, "<s> sound on/off  <q> quit")
	b.print(b.boardWidth+3, padTop+1, "Last Winner: "+b.lastWinnerMsg)

	screenWidth, _ := b.screen.Size()
	if screenWidth > b.boardWidth+12 {
		b.drawBox(b.boardWidth+3, padTop+3, screenWidth-1, padTop+3+7)
		b.print(b.boardWidth+4, padTop+3, " MATCH ")
	}
}

func (b *Board) drawPiece(row int, col int, m game.Marker) {
	style := b.style
	switch m {
	case game.One:
		style = style.Foreground(tcell.ColorRed)
	case game.Two:
		style = style.Foreground(tcell.ColorBlue)
	}

	b.screen.SetContent(pieceX(col), pieceY(row), pieceRune, nil, style)
}

func (b *Board) printStatus() {
	x := b.boardWidth + 5
	y := padTop + 5

	lines := []string{
		fmt.Sprintf("X: %s", b.players[0]),
		fmt.Sprintf("O: %s", b.players[1]),
		b.lastMove,
	}

	screenWidth, _ := b.screen.Size()
	for i, line := range lines {
		for w := x; w < screenWidth-2; w++ {
			b.screen.SetContent(w, y+i, space, nil, b.style)
		}
		b.print(x, y+i, line)
	}
}

// showWinner displays a modal dialog box.
func (b *Board) showWinner() {
	b.gameOver = true

	b.screen.HideCursor()
	b.drawBox(5, 8, 33, 13)

	h := 10
	l := runewidth.StringWidth(b.lastWinnerMsg)
	x := 19 - (l / 2)
	b.print(x, h, b.lastWinnerMsg)

	b.print(b.boardWidth+3, padTop+1, "Last Winner: "+b.lastWinnerMsg)
	b.screen.Show()
}

// drawBox draws an empty box on the screen.
func (b *Board) drawBox(x int, y int, width int, height int) {
	style := b.style
	style = style.Background(tcell.ColorBlack).Foreground(tcell.ColorGray)

	for h := y; h < height; h++ {
		for w := x; w < width; w++ {
			b.screen.SetContent(w, h, ' ', nil, b.style)
		}
	}

	for h := y; h < height; h++ {
		for w := x; w < width; w++ {
			if h == y {
				b.screen.SetContent(w, h, '▀', nil, style)
			}
			if h == height-1 {
				b.screen.SetContent(w, h, '▄', nil, style)
			}
			if w == x || w == width-1 {
				b.screen.SetContent(w, h, '█', nil, style)
			}
		}
	}
}

func (b *Board) print(x, y int, str string) {
	for _, c := range str {
		var comb []rune
		w := runewidth.RuneWidth(c)
		if w == 0 {
			comb = []rune{c}
			c = ' '
			w = 1
		}
		b.screen.SetContent(x, y, c, comb, b.style)
		x += w
	}
}

func pieceX(col int) int {
	return padLeft + 2 + cellWidth*col
}

func pieceY(row int) int {
	return padTop + 1 + cellHeight*row
}
