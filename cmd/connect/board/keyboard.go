package board

import (
	"fmt"
	"runtime/debug"

	"github.com/gdamore/tcell/v2"
)

// Run starts a goroutine to handle terminal events. The returned channel is
// closed when the user quits.
func (b *Board) Run() chan struct{} {
	return b.pollEvents()
}

// pollEvents starts a goroutine to handle terminal events.
func (b *Board) pollEvents() chan struct{} {
	quit := make(chan struct{})

	go func() {
		defer func() {
			if r := recover(); r != nil {
				b.screen.Clear()
				fmt.Println(r)
				debug.PrintStack()
			}
		}()

		for {
			event := b.screen.PollEvent()
			if event == nil {
				close(quit)
				return
			}

			switch ev := event.(type) {
			case *tcell.EventResize:
				b.mu.Lock()
				b.drawInit()
				if b.gameOver {
					b.showWinner()
				}
				b.mu.Unlock()

			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					close(quit)
					return
				}

				if ev.Key() != tcell.KeyRune {
					continue
				}

				switch ev.Rune() {
				case 'q':
					close(quit)
					return

				case 's':
					if b.speaker == nil {
						b.screen.Beep()
						continue
					}

					msg := "sound off"
					if b.speaker.TurnSoundOnOff() {
						msg = "sound on "
					}

					b.mu.Lock()
					b.print(b.boardWidth+3, padTop-2, msg)
					b.screen.Show()
					b.mu.Unlock()
				}
			}
		}
	}()

	return quit
}
