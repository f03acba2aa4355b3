package audio

import (
	"fmt"
	"os"
	"path/filepath"

	"git.lost.host/meutraa/beathop/internal/game"
	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
)

// Effects plays the jump and land sounds. It listens to game signals and
// never blocks the game loop.
type Effects struct {
	game.NopSignals

	format beep.Format
	volume float64
	play   func(...beep.Streamer)

	jumps []*beep.Buffer
	land  *beep.Buffer
}

func NewEffects(format beep.Format, volume float64, play func(...beep.Streamer)) *Effects {
	if nil == play {
		play = speaker.Play
	}
	return &Effects{format: format, volume: volume, play: play}
}

// LoadEffects reads jump0..jumpN and land sounds from dir. Missing sounds
// are skipped.
func LoadEffects(dir string, format beep.Format, volume float64, variants int) (*Effects, error) {
	e := NewEffects(format, volume, nil)
	for i := 0; i < variants; i++ {
		file, ok := find(dir, fmt.Sprintf("jump%d", i))
		if !ok {
			continue
		}
		if err := e.loadFile(file, func(b *beep.Buffer) { e.AddJump(b) }); nil != err {
			return nil, err
		}
	}
	if file, ok := find(dir, "land"); ok {
		if err := e.loadFile(file, e.SetLand); nil != err {
			return nil, err
		}
	}
	return e, nil
}

func find(dir, name string) (string, bool) {
	for _, ext := range []string{".wav", ".ogg", ".mp3"} {
		file := filepath.Join(dir, name+ext)
		if _, err := os.Stat(file); nil == err {
			return file, true
		}
	}
	return "", false
}

func (e *Effects) loadFile(file string, set func(*beep.Buffer)) error {
	streamer, format, err := Decode(file)
	if nil != err {
		return err
	}
	defer streamer.Close()
	set(e.Buffer(streamer, format))
	return nil
}

// Buffer reads a stream into memory at the output sample rate.
func (e *Effects) Buffer(s beep.Streamer, format beep.Format) *beep.Buffer {
	buf := beep.NewBuffer(e.format)
	if format.SampleRate != e.format.SampleRate {
		s = beep.Resample(4, format.SampleRate, e.format.SampleRate, s)
	}
	buf.Append(s)
	return buf
}

func (e *Effects) AddJump(b *beep.Buffer) {
	e.jumps = append(e.jumps, b)
}

func (e *Effects) SetLand(b *beep.Buffer) {
	e.land = b
}

func (e *Effects) fire(b *beep.Buffer) {
	if nil == b || b.Len() == 0 {
		return
	}
	e.play(&effects.Volume{
		Streamer: b.Streamer(0, b.Len()),
		Base:     2,
		Volume:   e.volume,
	})
}

func (e *Effects) OnPlayerJump(variant int) {
	if len(e.jumps) == 0 {
		return
	}
	e.fire(e.jumps[variant%len(e.jumps)])
}

func (e *Effects) OnPlayerLand(*game.Cell) {
	e.fire(e.land)
}
