package board_test

import (
	"bytes"
	"context"
	"image/png"
	"testing"
	"time"

	"github.com/ardanlabs/connect-sim/cmd/connect/board"
	"github.com/ardanlabs/connect-sim/cmd/connect/game"
	"github.com/ardanlabs/connect-sim/cmd/connect/match"
	"github.com/gdamore/tcell/v2"
	"github.com/google/go-cmp/cmp"
)

var geo = game.MustGeometry(game.DefaultHeight, game.DefaultWidth)

// script plays a fixed list of columns.
func script(cols ...int) match.Agent {
	var i int
	return match.AgentFunc(func(ctx context.Context, b *game.Board, own game.Marker) (int, error) {
		col := cols[i%len(cols)]
		i++
		return col, nil
	})
}

func newScreen(t *testing.T) (tcell.SimulationScreen, *board.Board) {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")

	b, err := board.New(screen, geo, nil)
	if err != nil {
		t.Fatalf("new board: %s", err)
	}
	t.Cleanup(b.Shutdown)

	screen.SetSize(80, 25)

	return screen, b
}

// =============================================================================

func Test_Text(t *testing.T) {
	grid := [][]game.Marker{
		{game.Empty, game.Empty, game.Empty},
		{game.One, game.Two, game.Empty},
	}

	want := "_  _  _  \n" +
		"X  O  _  \n" +
		"0  1  2  \n"

	if got := board.Text(grid); got != want {
		t.Fatalf("text mismatch:\nwant\n%q\ngot\n%q", want, got)
	}
}

func Test_PNG(t *testing.T) {
	b := game.New(geo)
	b.ApplyMove(0, game.One)
	b.ApplyMove(6, game.Two)

	data, err := board.PNG(b.Grid())
	if err != nil {
		t.Fatalf("png: %s", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %s", err)
	}

	if bounds := img.Bounds(); bounds.Dx() != 190 || bounds.Dy() != 165 {
		t.Fatalf("expected a 190x165 image, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	tests := []struct {
		name    string
		x, y    int
		r, g, b uint32
	}{
		{"empty", 20, 20, 0, 0xffff, 0},
		{"one", 20, 145, 0xffff, 0, 0},
		{"two", 170, 145, 0, 0, 0xffff},
	}

	for _, tst := range tests {
		r, g, bl, _ := img.At(tst.x, tst.y).RGBA()
		if r != tst.r || g != tst.g || bl != tst.b {
			t.Errorf("%s: expected rgb %x %x %x, got %x %x %x", tst.name, tst.r, tst.g, tst.b, r, g, bl)
		}
	}
}

func Test_PNGEmpty(t *testing.T) {
	if _, err := board.PNG(nil); err == nil {
		t.Fatal("expected an error for an empty grid")
	}
}

func Test_Observe(t *testing.T) {
	screen, b := newScreen(t)

	one := match.Seat{Name: "albert", Agent: script(0)}
	two := match.Seat{Name: "randy", Agent: script(1)}

	b.Start(one.Name, two.Name)

	res, err := match.NewRunner(geo, one, two, match.WithObserver(b.Observe)).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %s", err)
	}
	b.Finish(res)

	if diff := cmp.Diff(res.Grid, b.Grid()); diff != "" {
		t.Fatalf("drawn grid mismatch (-result +board):\n%s", diff)
	}

	// Column 0 holds four pieces of player one, drawn from the bottom up.
	for row := 2; row < geo.Height(); row++ {
		mainc, _, style, _ := screen.GetContent(3, 5+2*row)
		fg, _, _ := style.Decompose()

		if mainc != '●' || fg != tcell.ColorRed {
			t.Errorf("row %d: expected a red piece, got %q %v", row, mainc, fg)
		}
	}

	mainc, _, _, _ := screen.GetContent(3, 5+2)
	if mainc == '●' {
		t.Error("expected row 1 of column 0 to be empty")
	}

	if got := board.Announcement(res); got != "albert wins the game" {
		t.Errorf("unexpected announcement %q", got)
	}
}

func Test_RunQuit(t *testing.T) {
	screen, b := newScreen(t)

	quit := b.Run()
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case <-quit:
	case <-time.After(5 * time.Second):
		t.Fatal("expected q to quit")
	}
}

func Test_SpeakerToggle(t *testing.T) {
	s := board.NewSpeaker(nil, t.TempDir(), false)

	// Muted speakers return without starting playback.
	s.Speak("nobody hears this")
	s.Wait()

	if !s.TurnSoundOnOff() || !s.Sound() {
		t.Fatal("expected the sound to turn on")
	}

	if s.TurnSoundOnOff() || s.Sound() {
		t.Fatal("expected the sound to turn off")
	}
}
