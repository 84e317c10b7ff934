package board

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	htgotts "github.com/hegedustibor/htgo-tts"
	handlers "github.com/hegedustibor/htgo-tts/handlers"
	voices "github.com/hegedustibor/htgo-tts/voices"
)

// Speaker reads messages aloud using mplayer.
type Speaker struct {
	log    *slog.Logger
	folder string
	mu     sync.Mutex
	sound  bool
	play   sync.Mutex
	wg     sync.WaitGroup
}

// NewSpeaker constructs a speaker that keeps its audio files in folder.
func NewSpeaker(log *slog.Logger, folder string, sound bool) *Speaker {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Speaker{
		log:    log,
		folder: folder,
		sound:  sound,
	}
}

// TurnSoundOnOff turns the sound for speaking on or off.
func (s *Speaker) TurnSoundOnOff() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sound = !s.sound
	return s.sound
}

// Sound reports whether messages are spoken.
func (s *Speaker) Sound() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sound
}

// Speak will use the Mplayer to speak the specified message.
func (s *Speaker) Speak(msg string) {
	if !s.Sound() {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		// One message at a time since they share the audio file.
		s.play.Lock()
		defer s.play.Unlock()

		speech := htgotts.Speech{Folder: s.folder, Language: voices.English, Handler: &handlers.MPlayer{}}

		file := filepath.Join(s.folder, "speech.mp3")
		os.Remove(file)

		fileName, err := speech.CreateSpeechFile(msg, "speech")
		if err != nil {
			s.log.Error("create speech file", "err", err)
			return
		}

		defer os.Remove(file)

		if err := speech.PlaySpeechFile(fileName); err != nil {
			s.log.Error("play speech file", "err", err)
			return
		}
	}()
}

// Wait blocks until every message has been spoken.
func (s *Speaker) Wait() {
	s.wg.Wait()
}
