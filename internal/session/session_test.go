package session_test

import (
	"testing"
	"time"

	"git.lost.host/meutraa/beathop/internal/game"
	"git.lost.host/meutraa/beathop/internal/parser"
	"git.lost.host/meutraa/beathop/internal/player"
	"git.lost.host/meutraa/beathop/internal/session"
	"git.lost.host/meutraa/beathop/internal/testdata"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const leadIn = `{
	"timeTravel": 2,
	"period": 4000,
	"wait": 1000,
	"content": ["1000"]
}`

type fixture struct {
	session   *session.Session
	metronome *session.Metronome
	signals   *game.Recorder
	logs      *observer.ObservedLogs
}

func setup(t *testing.T, beatMap, stage string, debug bool) *fixture {
	t.Helper()
	bm, err := parser.DecodeBeatMap([]byte(beatMap))
	if nil != err {
		t.Fatal(err)
	}
	st, err := parser.DecodeStage([]byte(stage))
	if nil != err {
		t.Fatal(err)
	}

	core, logs := observer.New(zapcore.InfoLevel)
	f := &fixture{
		metronome: &session.Metronome{},
		signals:   &game.Recorder{},
		logs:      logs,
	}
	opts := session.DefaultOptions()
	opts.Debug = debug
	f.session, err = session.New(
		session.Assets{BeatMap: bm, Cells: st.Cells, LosingY: st.LosingY},
		f.metronome,
		f.signals,
		zap.New(core).Sugar(),
		opts,
	)
	if nil != err {
		t.Fatal(err)
	}
	return f
}

func (f *fixture) steps(n int) {
	for i := 0; i < n; i++ {
		f.session.Step()
	}
}

func TestFirstNoteSpawnsOnFirstFrame(t *testing.T) {
	f := setup(t, testdata.BeatMap, testdata.Stage, false)
	f.session.Begin()
	if !f.metronome.Playing() {
		t.Fatal("song should start immediately without a lead-in")
	}
	f.steps(1)
	if len(f.signals.Spawns) != 1 || len(f.session.Notes()) != 1 {
		t.Fatalf("expected one note after the first frame, got %d", len(f.signals.Spawns))
	}
}

func TestClearOnBeat(t *testing.T) {
	f := setup(t, testdata.BeatMap, testdata.Stage, false)
	f.session.Begin()

	f.steps(80)
	if r := f.session.Move(game.Up); r != player.MoveIgnored {
		t.Fatalf("moved outside the hit window: %v", r)
	}
	f.steps(10)
	if !f.session.Bar().IsHittable() {
		t.Fatal("note should be in the hit window")
	}
	if r := f.session.Move(game.Up); r != player.MoveJumped {
		t.Fatalf("expected a jump, got %v", r)
	}
	if f.session.Bar().IsHittable() {
		t.Fatal("hit window should close after the hit")
	}

	f.steps(30)
	if out, _ := f.session.Outcome(); out != game.OutcomeClear {
		t.Fatalf("expected clear, got %v", out)
	}
	if f.signals.Count("clear") != 1 || f.signals.Count("fail") != 0 {
		t.Fatalf("unexpected events %v", f.signals.Events)
	}
	if f.metronome.Playing() {
		t.Fatal("song should stop once the stage is clear")
	}
	if len(f.session.Inputs()) != 1 || f.session.Inputs()[0].Index != game.DirectionIndex(game.Up) {
		t.Fatalf("unexpected inputs %v", f.session.Inputs())
	}
	if f.logs.FilterMessage("stage clear").Len() != 1 {
		t.Fatal("clear was not logged")
	}
}

func TestInputsRecordJumpsOnly(t *testing.T) {
	f := setup(t, testdata.BeatMap, `{"stage": ["S", "P", "F"]}`, true)
	f.session.Begin()
	f.steps(1)

	if r := f.session.Move(game.Up); r != player.MoveJumped {
		t.Fatalf("expected a jump, got %v", r)
	}
	for i := 0; f.session.Player().Velocity.Y() >= 0 || f.session.Player().Position.Y() >= 2*game.RestingHeight; i++ {
		if i > 200 {
			t.Fatal("player never started to come down")
		}
		f.steps(1)
	}
	if r := f.session.Move(game.Left); r != player.MoveQueued {
		t.Fatalf("expected queued, got %v", r)
	}
	if r := f.session.Move(game.Up); r != player.MoveQueued {
		t.Fatalf("expected queued, got %v", r)
	}
	if n := len(f.session.Inputs()); n != 1 {
		t.Fatalf("queued moves should not be recorded, got %d inputs", n)
	}

	for i := 0; f.session.Player().GridZ != 2; i++ {
		if i > 200 {
			t.Fatal("queued move never fired")
		}
		f.steps(1)
	}
	in := f.session.Inputs()
	if len(in) != 2 {
		t.Fatalf("expected the replayed jump to be recorded, got %v", in)
	}
	for _, i := range in {
		if i.Index != game.DirectionIndex(game.Up) {
			t.Fatalf("expected upward inputs only, got %v", in)
		}
	}
	if in[1].HitTime <= in[0].HitTime {
		t.Fatalf("replayed jump should be recorded when it fired, got %v", in)
	}
}

func TestMissedNoteFails(t *testing.T) {
	f := setup(t, testdata.BeatMap, testdata.Stage, false)
	f.session.Begin()

	f.steps(300)
	out, reason := f.session.Outcome()
	if out != game.OutcomeFail || reason != game.FailMissedNote {
		t.Fatalf("expected a missed note fail, got %v %v", out, reason)
	}
	if f.signals.Count("fail") != 1 {
		t.Fatalf("expected exactly one fail, got %d", f.signals.Count("fail"))
	}
	if frame := f.session.Frame(); frame != 101 {
		t.Log("failed on frame", frame)
		t.Fail()
	}
}

func TestFallFails(t *testing.T) {
	f := setup(t, testdata.BeatMap, testdata.Void, true)
	f.session.Begin()
	f.session.Move(game.Up)

	f.steps(500)
	out, reason := f.session.Outcome()
	if out != game.OutcomeFail || reason != game.FailFell {
		t.Fatalf("expected a fall, got %v %v", out, reason)
	}
	if f.signals.Count("fail") != 1 {
		t.Fatalf("expected exactly one fail, got %d", f.signals.Count("fail"))
	}
}

func TestStageCompleteWithoutClear(t *testing.T) {
	f := setup(t, testdata.BeatMap, testdata.Stage, true)
	f.session.Begin()

	f.steps(200)
	if !f.session.Complete() || f.signals.Count("complete") != 1 {
		t.Fatalf("expected the beat map to complete once: %v", f.signals.Count("complete"))
	}
	if out, _ := f.session.Outcome(); out != game.OutcomeNone {
		t.Fatalf("completion alone should not end the stage, got %v", out)
	}

	f.session.Move(game.Up)
	f.steps(30)
	if out, _ := f.session.Outcome(); out != game.OutcomeClear {
		t.Fatalf("expected clear after completion, got %v", out)
	}
	if f.signals.Count("complete") != 1 {
		t.Fatal("completion emitted more than once")
	}
}

func TestLeadIn(t *testing.T) {
	f := setup(t, leadIn, testdata.Stage, false)
	f.session.Begin()

	f.steps(1)
	if len(f.signals.Spawns) != 1 {
		t.Fatal("notes should spawn during the lead-in")
	}
	f.steps(39)
	if f.metronome.Playing() || f.session.Playing() {
		t.Fatal("song started before the lead-in ended")
	}
	if f.session.Now() != 40*game.FramePeriod {
		t.Fatalf("lead-in time is %v", f.session.Now())
	}
	f.steps(10)
	if !f.metronome.Playing() {
		t.Fatal("song did not start after the lead-in")
	}
	if now := f.session.Now(); now < time.Second || now > time.Second+5*game.FramePeriod {
		t.Fatalf("stage time jumped to %v when the song started", now)
	}
}

func TestPauseKeepsLeadIn(t *testing.T) {
	f := setup(t, leadIn, testdata.Stage, false)
	f.session.Begin()
	f.steps(20)

	remaining := f.session.SongStartIn()
	if remaining <= 0 || remaining >= time.Second {
		t.Fatalf("unexpected remaining lead-in %v", remaining)
	}

	f.session.Pause()
	if n := f.session.Advance(10 * time.Second); n != 0 {
		t.Fatalf("advanced %d frames while paused", n)
	}
	f.steps(5)
	if f.session.SongStartIn() != remaining || f.session.Frame() != 20 {
		t.Fatalf("pause lost the lead-in: %v != %v", f.session.SongStartIn(), remaining)
	}

	f.session.TogglePause()
	f.steps(1)
	if f.session.SongStartIn() != remaining-game.FramePeriod {
		t.Fatalf("lead-in did not resume: %v", f.session.SongStartIn())
	}
}

func TestPauseStopsSong(t *testing.T) {
	f := setup(t, testdata.BeatMap, testdata.Stage, false)
	f.session.Begin()
	f.steps(10)

	f.session.Pause()
	if f.metronome.Playing() || !f.session.Paused() {
		t.Fatal("pause did not stop the song")
	}
	position := f.metronome.Position()
	f.steps(10)
	if f.metronome.Position() != position {
		t.Fatal("song moved while paused")
	}
	f.session.Resume()
	if !f.metronome.Playing() {
		t.Fatal("resume did not restart the song")
	}
	if r := f.session.Move(game.Up); r == player.MoveJumped {
		t.Fatal("jumped without a note in the hit window")
	}
}

func TestAdvanceFixedStep(t *testing.T) {
	f := setup(t, testdata.BeatMap, testdata.Stage, false)
	f.session.Begin()

	if n := f.session.Advance(3*game.FramePeriod + game.FramePeriod/2); n != 3 {
		t.Fatalf("expected 3 frames, got %d", n)
	}
	if n := f.session.Advance(game.FramePeriod / 2); n != 1 {
		t.Fatalf("expected the remainder to make up a frame, got %d", n)
	}
	if n := f.session.Advance(10 * time.Second); n != session.DefaultOptions().MaxCatchUp {
		t.Fatalf("expected catch up to be capped, got %d", n)
	}
	if n := f.session.Advance(game.FramePeriod - 1); n != 0 {
		t.Fatalf("dropped time should not carry over, got %d frames", n)
	}
}

// song is a playhead that runs on its own, like a real audio stream.
type song struct {
	position time.Duration
}

func (s *song) Play()                   {}
func (s *song) Pause()                  {}
func (s *song) Position() time.Duration { return s.position }

func TestOnlyTickersAreAdvanced(t *testing.T) {
	var _ session.Ticker = &session.Metronome{}

	bm, err := parser.DecodeBeatMap([]byte(testdata.BeatMap))
	if nil != err {
		t.Fatal(err)
	}
	st, err := parser.DecodeStage([]byte(testdata.Stage))
	if nil != err {
		t.Fatal(err)
	}
	p := &song{}
	s, err := session.New(
		session.Assets{BeatMap: bm, Cells: st.Cells, LosingY: st.LosingY},
		p, &game.Recorder{}, nil, session.DefaultOptions(),
	)
	if nil != err {
		t.Fatal(err)
	}
	s.Begin()

	for i := 0; i < 5; i++ {
		s.Step()
	}
	if p.position != 0 || s.Now() != 0 {
		t.Fatalf("stage clock should follow the song alone, got %v", s.Now())
	}
	p.position = 300 * time.Millisecond
	s.Step()
	if s.Now() != p.position {
		t.Fatalf("expected stage time %v, got %v", p.position, s.Now())
	}
}

func TestClose(t *testing.T) {
	f := setup(t, leadIn, testdata.Stage, false)
	f.session.Begin()
	f.steps(5)

	f.session.Close()
	f.steps(100)
	f.session.Resume()
	f.session.Advance(5 * time.Second)
	if f.session.Frame() != 5 || f.metronome.Playing() {
		t.Fatal("closed session kept running")
	}
	if r := f.session.Move(game.Up); r != player.MoveIgnored {
		t.Fatalf("closed session accepted a move: %v", r)
	}
	if f.logs.FilterMessage("stage end").Len() != 1 {
		t.Fatal("close was not logged")
	}
}

func TestNotBegun(t *testing.T) {
	f := setup(t, testdata.BeatMap, testdata.Stage, false)
	f.steps(10)
	if f.session.Frame() != 0 || len(f.signals.Spawns) != 0 {
		t.Fatal("session ran before Begin")
	}
}

func TestTask(t *testing.T) {
	ran := 0
	task := session.Schedule(100*time.Millisecond, func() { ran++ })

	if task.Advance(60 * time.Millisecond) {
		t.Fatal("task ran early")
	}
	if task.Remaining() != 40*time.Millisecond {
		t.Fatalf("unexpected remaining %v", task.Remaining())
	}
	if !task.Advance(60*time.Millisecond) || ran != 1 || !task.Done() {
		t.Fatal("task did not run")
	}
	task.Advance(time.Second)
	if ran != 1 {
		t.Fatal("task ran twice")
	}

	cancelled := session.Schedule(time.Millisecond, func() { ran++ })
	cancelled.Cancel()
	if cancelled.Advance(time.Second) || ran != 1 {
		t.Fatal("cancelled task ran")
	}
}
