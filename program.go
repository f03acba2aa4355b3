package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.lost.host/meutraa/beathop/internal/audio"
	"git.lost.host/meutraa/beathop/internal/config"
	"git.lost.host/meutraa/beathop/internal/game"
	"git.lost.host/meutraa/beathop/internal/input"
	"git.lost.host/meutraa/beathop/internal/notebar"
	"git.lost.host/meutraa/beathop/internal/parser"
	"git.lost.host/meutraa/beathop/internal/player"
	"git.lost.host/meutraa/beathop/internal/render"
	"git.lost.host/meutraa/beathop/internal/score"
	"git.lost.host/meutraa/beathop/internal/session"
	"git.lost.host/meutraa/beathop/internal/theme"
	"github.com/eiannone/keyboard"
	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"go.uber.org/zap"
)

// Files are the assets of one stage directory.
type Files struct {
	BeatMap, Stage, Bar, Song string
}

// discover finds the stage assets in dir. The song named by the stage
// asset wins over any other audio file in the directory.
func discover(dir string, psr parser.Parser) (Files, *parser.Stage, error) {
	var files Files
	if err := filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if nil != err {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch name := strings.ToLower(info.Name()); {
		case name == "beats.json":
			files.BeatMap = p
		case name == "stage.json":
			files.Stage = p
		case name == "bar.json":
			files.Bar = p
		case strings.HasPrefix(name, "jump"), strings.HasPrefix(name, "land"):
		case strings.HasSuffix(name, ".ogg"), strings.HasSuffix(name, ".mp3"), strings.HasSuffix(name, ".wav"):
			files.Song = p
		}
		return nil
	}); nil != err {
		return files, nil, fmt.Errorf("unable to walk stage directory: %w", err)
	}

	if files.BeatMap == "" || files.Stage == "" {
		return files, nil, errors.New("unable to find beats.json and stage.json in given directory")
	}

	st, err := psr.ParseStage(files.Stage)
	if nil != err {
		return files, nil, err
	}
	if st.Song != "" {
		named := filepath.Join(filepath.Dir(files.Stage), st.Song)
		if _, err := os.Stat(named); nil == err {
			files.Song = named
		}
	}
	return files, st, nil
}

type Program struct {
	Config   *config.Config
	Log      *zap.SugaredLogger
	Parser   parser.Parser
	Store    score.Store
	Renderer render.Renderer

	files    Files
	raw      [][]byte
	beatMap  *game.BeatMap
	geometry notebar.Geometry

	song     *audio.Song
	closer   beep.StreamSeekCloser
	effects  *audio.Effects
	playhead session.Playhead

	session *session.Session
	saved   bool
	begin   time.Time
}

func (p *Program) Init() error {
	// Ensure our Default implementations are used as interfaces
	p.Parser = &parser.DefaultParser{}

	files, st, err := discover(p.Config.Directory, p.Parser)
	if nil != err {
		return err
	}
	p.files = files

	if p.beatMap, err = p.Parser.ParseBeatMap(files.BeatMap); nil != err {
		return err
	}
	p.geometry = notebar.DefaultGeometry()
	if files.Bar != "" {
		if p.geometry, err = p.Parser.ParseBarTheme(files.Bar, p.geometry); nil != err {
			return err
		}
	}
	beats, _ := os.ReadFile(files.BeatMap)
	p.raw = [][]byte{beats, st.Raw}

	if err := p.initAudio(); nil != err {
		return err
	}

	store, err := score.Open(p.Config.Database, p.Log)
	if nil != err {
		return err
	}
	p.Store = store

	p.Renderer = render.NewTerminal(os.Stdout, int(os.Stdout.Fd()), theme.New(st.Platform), p.geometry)
	p.Log.Infow("stage loaded",
		"directory", p.Config.Directory,
		"song", files.Song,
		"notes", p.beatMap.NoteCount(),
	)
	return p.Renderer.Init()
}

func (p *Program) initAudio() error {
	if p.Config.Silent || p.files.Song == "" {
		p.Log.Infow("playing without audio", "silent", p.Config.Silent)
		return nil
	}
	song, closer, err := audio.OpenSong(p.files.Song)
	if nil != err {
		return err
	}
	format := song.Format()
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/30)); nil != err {
		closer.Close()
		return fmt.Errorf("unable to open speaker: %w", err)
	}
	effects, err := audio.LoadEffects(filepath.Dir(p.files.Song), format, p.Config.Volume, player.JumpVariants)
	if nil != err {
		p.Log.Warnw("unable to load sound effects", "error", err)
		effects = nil
	}
	p.song, p.closer, p.effects = song, closer, effects
	return nil
}

func (p *Program) Deinit() {
	if nil != p.session {
		p.session.Close()
	}
	if nil != p.Renderer {
		if err := p.Renderer.Deinit(); nil != err {
			p.Log.Warnw("unable to restore terminal", "error", err)
		}
	}
	if nil != p.closer {
		speaker.Clear()
		p.closer.Close()
	}
	if nil != p.Store {
		p.Store.Close()
	}
}

// restart throws the current session away and builds a fresh one. The old
// session is closed first so nothing it scheduled can run afterwards.
func (p *Program) restart() error {
	if nil != p.session {
		p.session.Close()
	}

	// Movers mutate their cells, so every attempt gets a fresh grid.
	st, err := p.Parser.ParseStage(p.files.Stage)
	if nil != err {
		return err
	}

	p.playhead = &session.Metronome{}
	if nil != p.song {
		if err := p.song.Rewind(); nil != err {
			return fmt.Errorf("unable to rewind song: %w", err)
		}
		p.playhead = p.song
	}

	signals := game.Fanout{p.Renderer}
	if nil != p.effects {
		signals = append(signals, p.effects)
	}

	p.session, err = session.New(
		session.Assets{BeatMap: p.beatMap, Cells: st.Cells, LosingY: st.LosingY},
		p.playhead,
		signals,
		p.Log,
		p.Config.Session(p.geometry),
	)
	if nil != err {
		return err
	}
	p.saved = false
	p.begin = time.Now().Add(p.Config.Delay)
	return nil
}

// save records a finished attempt once.
func (p *Program) save() {
	out, _ := p.session.Outcome()
	if p.saved || out == game.OutcomeNone {
		return
	}
	p.saved = true
	run := score.Run{
		Sum:     score.Sum(p.raw...),
		Outcome: out,
		Frames:  p.session.Frame(),
		Inputs:  p.session.Inputs(),
	}
	if err := p.Store.Save(run); nil != err {
		p.Log.Warnw("unable to save run", "error", err)
		return
	}
	if best, ok, err := p.Store.Best(run.Sum); nil == err && ok {
		p.Log.Infow("run saved", "frames", run.Frames, "best", best.Frames)
	}
}

// handle applies one input action. It returns false when the player quits.
func (p *Program) handle(a input.Action) (bool, error) {
	switch a {
	case input.Quit:
		return false, nil
	case input.Restart:
		p.Log.Infow("restart")
		return true, p.restart()
	case input.Pause:
		p.session.TogglePause()
	default:
		if d, ok := a.Direction(); ok {
			p.session.Move(d)
		}
	}
	return true, nil
}

// Run plays the stage until the player quits. Frames are paced by sleeping
// to each deadline; the session simulates at its own fixed rate.
func (p *Program) Run(keys <-chan keyboard.KeyEvent) error {
	if err := p.restart(); nil != err {
		return err
	}

	last := time.Now()
	for {
		now := time.Now()
		deadline := now.Add(p.Config.FramePeriod())

		for _, a := range input.Drain(keys) {
			cont, err := p.handle(a)
			if nil != err {
				return err
			}
			if !cont {
				return nil
			}
		}

		if !p.session.Begun() && !now.Before(p.begin) {
			p.session.Begin()
		}
		p.session.Advance(now.Sub(last))
		last = now
		p.save()

		p.Renderer.Resize()
		p.Renderer.Draw(p.session)
		if err := p.Renderer.Flush(); nil != err {
			return fmt.Errorf("unable to draw: %w", err)
		}

		time.Sleep(time.Until(deadline))
	}
}
