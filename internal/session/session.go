package session

import (
	"math/rand"
	"time"

	"git.lost.host/meutraa/beathop/internal/beat"
	"git.lost.host/meutraa/beathop/internal/game"
	"git.lost.host/meutraa/beathop/internal/notebar"
	"git.lost.host/meutraa/beathop/internal/player"
	"git.lost.host/meutraa/beathop/internal/stage"
	"go.uber.org/zap"
)

// Assets are the loaded stage files a session plays.
type Assets struct {
	BeatMap *game.BeatMap
	Cells   [][]*game.Cell
	LosingY float64
}

type Options struct {
	Debug      bool
	Geometry   notebar.Geometry
	MoverSpeed float64 // Cells per second
	MaxCatchUp int     // Most frames simulated by one Advance
	Seed       int64
}

func DefaultOptions() Options {
	return Options{
		Geometry:   notebar.DefaultGeometry(),
		MoverSpeed: 1,
		MaxCatchUp: 5,
		Seed:       1,
	}
}

// Session is one attempt at a stage. Restarting means closing it and
// building a new one from the same assets.
type Session struct {
	log      *zap.SugaredLogger
	opts     Options
	signals  game.Signals
	playhead Playhead

	beatMap *game.BeatMap
	clock   *beat.Clock
	bar     *notebar.Bar
	stage   *stage.Stage
	player  *player.Player

	songStart   *Task
	elapsed     time.Duration // Stage time before the song plays
	playing     bool
	accumulator time.Duration
	frame       uint64

	begun, paused, closed bool
	complete              bool
	outcome               game.Outcome
	reason                game.FailReason
	inputs                []game.Input
}

func New(assets Assets, playhead Playhead, signals game.Signals, log *zap.SugaredLogger, opts Options) (*Session, error) {
	if nil == signals {
		signals = game.NopSignals{}
	}
	if nil == log {
		log = zap.NewNop().Sugar()
	}
	if opts.MaxCatchUp <= 0 {
		opts.MaxCatchUp = 1
	}
	signals = game.Fanout{signals, logSignals{log}}

	st, err := stage.New(assets.Cells, opts.MoverSpeed, assets.LosingY)
	if nil != err {
		return nil, err
	}
	bar := notebar.New(opts.Geometry, game.FPS, assets.BeatMap.TravelTime, opts.Debug, signals)

	s := &Session{
		log:      log,
		opts:     opts,
		signals:  signals,
		playhead: playhead,
		beatMap:  assets.BeatMap,
		clock:    beat.NewClock(assets.BeatMap),
		bar:      bar,
		stage:    st,
		player:   player.New(st, bar, signals, rand.New(rand.NewSource(opts.Seed))),
	}
	s.player.OnJump(func(dir game.Direction) {
		s.inputs = append(s.inputs, game.Input{Index: game.DirectionIndex(dir), HitTime: s.Now()})
	})
	return s, nil
}

// Begin starts the stage. Notes start spawning on the first frame and the
// song starts once the beat map's lead-in has passed.
func (s *Session) Begin() {
	if s.begun || s.closed {
		return
	}
	s.begun = true
	s.log.Infow("stage begin",
		"notes", s.beatMap.NoteCount(),
		"rows", len(s.beatMap.Rows),
		"wait", s.beatMap.Wait,
		"debug", s.opts.Debug,
	)
	if s.beatMap.Wait <= 0 {
		s.startSong()
		return
	}
	s.songStart = Schedule(s.beatMap.Wait, s.startSong)
}

func (s *Session) startSong() {
	s.playing = true
	s.playhead.Play()
	s.log.Debugw("song start", "frame", s.frame)
}

func (s *Session) running() bool {
	return s.begun && !s.paused && !s.closed && s.outcome == game.OutcomeNone
}

// Now is the stage time notes are scheduled against.
func (s *Session) Now() time.Duration {
	if s.playing {
		return s.beatMap.Wait + s.playhead.Position()
	}
	return s.elapsed
}

// Advance runs as many fixed frames as fit in dt. Time beyond MaxCatchUp
// frames is dropped so a long stall does not fast forward the stage.
func (s *Session) Advance(dt time.Duration) int {
	if !s.running() {
		return 0
	}
	s.accumulator += dt
	n := 0
	for s.accumulator >= game.FramePeriod && s.running() {
		if n == s.opts.MaxCatchUp {
			s.log.Debugw("dropping frames", "behind", s.accumulator)
			s.accumulator = 0
			break
		}
		s.Step()
		s.accumulator -= game.FramePeriod
		n++
	}
	return n
}

// Step runs exactly one frame: beats, notes, movers, then the player.
func (s *Session) Step() {
	if !s.running() {
		return
	}
	s.frame++

	s.clock.Advance(s.Now(), func(t beat.Tick) {
		s.bar.SpawnIfDue(t)
	})
	if s.bar.Advance() {
		s.finish(game.OutcomeFail, game.FailMissedNote)
		return
	}

	s.player.Ride(s.stage.TickMovers())
	if out := s.player.Tick(); out != game.OutcomeNone {
		s.finish(out, game.FailFell)
		return
	}

	if !s.complete && s.clock.Exhausted() && s.bar.Len() == 0 {
		s.complete = true
		s.signals.OnStageComplete()
		s.log.Infow("beat map complete", "frame", s.frame)
	}

	if s.playing {
		if m, ok := s.playhead.(Ticker); ok {
			m.Advance(game.FramePeriod)
		}
	} else {
		s.elapsed += game.FramePeriod
		s.songStart.Advance(game.FramePeriod)
	}
}

func (s *Session) finish(out game.Outcome, reason game.FailReason) {
	if s.outcome != game.OutcomeNone {
		return
	}
	s.outcome = out
	if out == game.OutcomeFail {
		s.reason = reason
	}
	s.songStart.Cancel()
	if s.playing {
		s.playhead.Pause()
	}

	switch out {
	case game.OutcomeClear:
		s.signals.OnStageClear()
		s.log.Infow("stage clear", "frame", s.frame, "inputs", len(s.inputs))
	case game.OutcomeFail:
		s.signals.OnStageFail(reason)
		s.log.Infow("stage fail", "frame", s.frame, "reason", reason.String())
	}
}

// Move asks the player to jump one cell in dir.
func (s *Session) Move(dir game.Direction) player.MoveResult {
	if !s.running() {
		return player.MoveIgnored
	}
	return s.player.RequestMove(dir)
}

func (s *Session) Pause() {
	if !s.running() {
		return
	}
	s.paused = true
	if s.playing {
		s.playhead.Pause()
	}
	s.log.Infow("pause", "frame", s.frame, "songStartIn", s.songStart.Remaining())
}

func (s *Session) Resume() {
	if !s.paused || s.closed {
		return
	}
	s.paused = false
	s.accumulator = 0
	if s.playing && s.outcome == game.OutcomeNone {
		s.playhead.Play()
	}
	s.log.Infow("resume", "frame", s.frame)
}

func (s *Session) TogglePause() {
	if s.paused {
		s.Resume()
		return
	}
	s.Pause()
}

// Close stops the session for good. Nothing scheduled by it runs after.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.songStart.Cancel()
	if s.playing {
		s.playhead.Pause()
	}
	s.log.Infow("stage end", "frame", s.frame, "outcome", s.outcome.String())
}

// Outcome reports how the stage ended, if it has.
func (s *Session) Outcome() (game.Outcome, game.FailReason) {
	return s.outcome, s.reason
}

func (s *Session) Notes() []game.VisualNote {
	return s.bar.Live()
}

func (s *Session) Bar() *notebar.Bar {
	return s.bar
}

func (s *Session) Player() game.PlayerState {
	return s.player.State()
}

func (s *Session) Stage() *stage.Stage {
	return s.stage
}

func (s *Session) Clock() *beat.Clock {
	return s.clock
}

func (s *Session) Inputs() []game.Input {
	return s.inputs
}

func (s *Session) Frame() uint64 {
	return s.frame
}

func (s *Session) Begun() bool {
	return s.begun
}

func (s *Session) Paused() bool {
	return s.paused
}

func (s *Session) Closed() bool {
	return s.closed
}

func (s *Session) Playing() bool {
	return s.playing
}

// Complete is true once every note of the beat map has come and gone.
func (s *Session) Complete() bool {
	return s.complete
}

// SongStartIn is the lead-in left before the song starts.
func (s *Session) SongStartIn() time.Duration {
	return s.songStart.Remaining()
}
