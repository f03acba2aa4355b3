package game

// Signals receives the synchronisation events of a running stage. Every
// call happens on the game loop and must not block.
type Signals interface {
	OnNoteSpawn(note VisualNote)
	OnNoteHit(note VisualNote)
	OnNoteExpired(note VisualNote)
	OnStageClear()
	OnStageFail(reason FailReason)
	OnStageComplete()
	OnPlayerLand(cell *Cell)
	OnPlayerJump(variant int)
}

// NopSignals ignores every event. Embed it to implement a subset.
type NopSignals struct{}

func (NopSignals) OnNoteSpawn(VisualNote)   {}
func (NopSignals) OnNoteHit(VisualNote)     {}
func (NopSignals) OnNoteExpired(VisualNote) {}
func (NopSignals) OnStageClear()            {}
func (NopSignals) OnStageFail(FailReason)   {}
func (NopSignals) OnStageComplete()         {}
func (NopSignals) OnPlayerLand(*Cell)       {}
func (NopSignals) OnPlayerJump(int)         {}

// Fanout forwards every event to each listener in order.
type Fanout []Signals

func (f Fanout) OnNoteSpawn(n VisualNote) {
	for _, s := range f {
		s.OnNoteSpawn(n)
	}
}

func (f Fanout) OnNoteHit(n VisualNote) {
	for _, s := range f {
		s.OnNoteHit(n)
	}
}

func (f Fanout) OnNoteExpired(n VisualNote) {
	for _, s := range f {
		s.OnNoteExpired(n)
	}
}

func (f Fanout) OnStageClear() {
	for _, s := range f {
		s.OnStageClear()
	}
}

func (f Fanout) OnStageFail(r FailReason) {
	for _, s := range f {
		s.OnStageFail(r)
	}
}

func (f Fanout) OnStageComplete() {
	for _, s := range f {
		s.OnStageComplete()
	}
}

func (f Fanout) OnPlayerLand(c *Cell) {
	for _, s := range f {
		s.OnPlayerLand(c)
	}
}

func (f Fanout) OnPlayerJump(v int) {
	for _, s := range f {
		s.OnPlayerJump(v)
	}
}

// Recorder keeps a log of every event by name. Used by tests and replays.
type Recorder struct {
	Events []string
	Spawns []VisualNote
	Hits   []VisualNote
	Lands  []*Cell
	Jumps  []int
	Fails  []FailReason
}

func (r *Recorder) OnNoteSpawn(n VisualNote) {
	r.Events = append(r.Events, "spawn")
	r.Spawns = append(r.Spawns, n)
}

func (r *Recorder) OnNoteHit(n VisualNote) {
	r.Events = append(r.Events, "hit")
	r.Hits = append(r.Hits, n)
}

func (r *Recorder) OnNoteExpired(VisualNote) { r.Events = append(r.Events, "expired") }
func (r *Recorder) OnStageClear()            { r.Events = append(r.Events, "clear") }
func (r *Recorder) OnStageComplete()         { r.Events = append(r.Events, "complete") }

func (r *Recorder) OnStageFail(reason FailReason) {
	r.Events = append(r.Events, "fail")
	r.Fails = append(r.Fails, reason)
}

func (r *Recorder) OnPlayerLand(c *Cell) {
	r.Events = append(r.Events, "land")
	r.Lands = append(r.Lands, c)
}

func (r *Recorder) OnPlayerJump(v int) {
	r.Events = append(r.Events, "jump")
	r.Jumps = append(r.Jumps, v)
}

// Count returns how many times the named event was recorded.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, e := range r.Events {
		if e == name {
			n++
		}
	}
	return n
}
