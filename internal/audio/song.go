package audio

import (
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// Song is the backing track of a stage. Its playhead is the stage clock.
type Song struct {
	streamer beep.StreamSeeker
	format   beep.Format
	ctrl     *beep.Ctrl
	play     func(...beep.Streamer)
	started  bool // Held by the speaker, guarded by speaker.Lock
}

// OpenSong decodes a song file for playback on the speaker.
func OpenSong(file string) (*Song, beep.StreamSeekCloser, error) {
	streamer, format, err := Decode(file)
	if nil != err {
		return nil, nil, err
	}
	return NewSong(streamer, format, speaker.Play), streamer, nil
}

// NewSong wraps a stream. play hands the stream to the output, normally
// speaker.Play.
func NewSong(streamer beep.StreamSeeker, format beep.Format, play func(...beep.Streamer)) *Song {
	return &Song{
		streamer: streamer,
		format:   format,
		ctrl:     &beep.Ctrl{Streamer: streamer, Paused: true},
		play:     play,
	}
}

func (s *Song) Format() beep.Format {
	return s.format
}

// Play starts or resumes the song. A song that played to its end has been
// dropped by the speaker, so it is handed over again.
func (s *Song) Play() {
	speaker.Lock()
	s.ctrl.Paused = false
	started := s.started
	s.started = true
	speaker.Unlock()
	if started {
		return
	}
	s.play(beep.Seq(s.ctrl, beep.Callback(func() {
		// Runs on the speaker with its lock held
		s.started = false
	})))
}

func (s *Song) Pause() {
	speaker.Lock()
	s.ctrl.Paused = true
	speaker.Unlock()
}

func (s *Song) Position() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	return s.format.SampleRate.D(s.streamer.Position())
}

func (s *Song) Len() time.Duration {
	return s.format.SampleRate.D(s.streamer.Len())
}

// Rewind stops the song and moves it back to the start.
func (s *Song) Rewind() error {
	speaker.Lock()
	defer speaker.Unlock()
	s.ctrl.Paused = true
	return s.streamer.Seek(0)
}
