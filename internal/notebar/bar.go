package notebar

import (
	"time"

	"git.lost.host/meutraa/beathop/internal/beat"
	"git.lost.host/meutraa/beathop/internal/game"
)

// Geometry describes the music bar in percent of its width.
type Geometry struct {
	SpawnPercent     float64 // Where notes appear, off screen to the right
	HitCenterPercent float64 // Where a note is perfectly on beat
	HitAreaWidth     float64 // Half width of the hittable window
	BlockAreaWidth   float64 // Notes reaching this area unhit lose the stage
	NoteRadius       float64
	AnimationFrames  int
}

func DefaultGeometry() Geometry {
	return Geometry{
		SpawnPercent:     120,
		HitCenterPercent: 20,
		HitAreaWidth:     5,
		BlockAreaWidth:   10,
		NoteRadius:       2,
		AnimationFrames:  4,
	}
}

// Bar owns the visible notes, oldest first.
type Bar struct {
	geometry   Geometry
	fps        int
	travelTime time.Duration
	debug      bool
	signals    game.Signals

	notes  []game.VisualNote
	nextID uint64
}

func New(geometry Geometry, fps int, travelTime time.Duration, debug bool, signals game.Signals) *Bar {
	if nil == signals {
		signals = game.NopSignals{}
	}
	if geometry.AnimationFrames <= 0 {
		geometry.AnimationFrames = 1
	}
	return &Bar{
		geometry:   geometry,
		fps:        fps,
		travelTime: travelTime,
		debug:      debug,
		signals:    signals,
	}
}

// Speed is the distance a note travels per frame so that it reaches the
// hit centre exactly travelTime after it spawned.
func (b *Bar) Speed() float64 {
	frames := float64(b.fps) * b.travelTime.Seconds()
	if frames <= 0 {
		return b.geometry.SpawnPercent - b.geometry.HitCenterPercent
	}
	return (b.geometry.SpawnPercent - b.geometry.HitCenterPercent) / frames
}

// SpawnIfDue creates a note when the tick carries one.
func (b *Bar) SpawnIfDue(tick beat.Tick) bool {
	if !tick.Present {
		return false
	}
	b.nextID++
	note := game.VisualNote{
		ID:       b.nextID,
		Position: b.geometry.SpawnPercent,
		Speed:    b.Speed(),
	}
	b.notes = append(b.notes, note)
	b.signals.OnNoteSpawn(note)
	return true
}

// Advance moves every note one frame to the left. It returns true when a
// note crossed into the block area unhit, which loses the stage. In debug
// mode such notes are discarded and play continues.
func (b *Bar) Advance() bool {
	failed := false
	cycle := b.fps / b.geometry.AnimationFrames / 2
	boundary := b.geometry.BlockAreaWidth - b.geometry.NoteRadius

	kept := b.notes[:0]
	for _, note := range b.notes {
		note.Frame++
		if note.Frame >= cycle {
			note.Animation = (note.Animation + 1) % b.geometry.AnimationFrames
			note.Frame = 0
		}
		note.Position -= note.Speed

		if note.Position < boundary {
			b.signals.OnNoteExpired(note)
			if !b.debug {
				failed = true
			}
			continue
		}
		kept = append(kept, note)
	}
	b.notes = kept
	return failed
}

// IsHittable is true when the oldest note lies inside the hit window.
func (b *Bar) IsHittable() bool {
	if b.debug {
		return true
	}
	if len(b.notes) == 0 {
		return false
	}
	x := b.notes[0].Position
	return x >= b.geometry.HitCenterPercent-b.geometry.HitAreaWidth &&
		x <= b.geometry.HitCenterPercent+b.geometry.HitAreaWidth
}

// ConsumeHit removes the oldest note. Notes are only ever hit in the order
// they spawned.
func (b *Bar) ConsumeHit() (game.VisualNote, bool) {
	if len(b.notes) == 0 {
		b.signals.OnNoteHit(game.VisualNote{Position: b.geometry.HitCenterPercent})
		return game.VisualNote{}, false
	}
	note := b.notes[0]
	b.notes = b.notes[1:]
	b.signals.OnNoteHit(note)
	return note, true
}

// Live returns the visible notes, oldest first. The slice must not be
// modified.
func (b *Bar) Live() []game.VisualNote {
	return b.notes
}

func (b *Bar) Len() int {
	return len(b.notes)
}

func (b *Bar) Geometry() Geometry {
	return b.geometry
}

func (b *Bar) Debug() bool {
	return b.debug
}

func (b *Bar) Reset() {
	b.notes = nil
	b.nextID = 0
}
