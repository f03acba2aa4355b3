package session

import "time"

// Playhead is the song the stage is synchronised to. Position is the
// authoritative stage clock once the song plays.
type Playhead interface {
	Play()
	Pause()
	Position() time.Duration
}

// Ticker is a Playhead that is moved along by the frame loop instead of
// running on its own.
type Ticker interface {
	Advance(dt time.Duration)
}

// Metronome is a silent Playhead that advances with the frame loop. It is
// used for stages without a song and in tests.
type Metronome struct {
	position time.Duration
	playing  bool
}

func (m *Metronome) Play() {
	m.playing = true
}

func (m *Metronome) Pause() {
	m.playing = false
}

func (m *Metronome) Position() time.Duration {
	return m.position
}

func (m *Metronome) Playing() bool {
	return m.playing
}

// Advance moves the playhead forward while it plays.
func (m *Metronome) Advance(dt time.Duration) {
	if m.playing {
		m.position += dt
	}
}
