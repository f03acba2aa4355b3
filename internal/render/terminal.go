package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"git.lost.host/meutraa/beathop/internal/beat"
	"git.lost.host/meutraa/beathop/internal/game"
	"git.lost.host/meutraa/beathop/internal/notebar"
	"git.lost.host/meutraa/beathop/internal/stage"
	"git.lost.host/meutraa/beathop/internal/theme"
	"golang.org/x/term"
)

// View is the read only state a frame is drawn from.
type View interface {
	Notes() []game.VisualNote
	Bar() *notebar.Bar
	Player() game.PlayerState
	Stage() *stage.Stage
	Clock() *beat.Clock
	Outcome() (game.Outcome, game.FailReason)
	Complete() bool
	Paused() bool
	Now() time.Duration
}

// Screen layout, in terminal rows.
const (
	barRow    = 2
	statusRow = 5
	mapTop    = 7
)

// Terminal draws the music bar and a top down view of the stage with ANSI
// escapes. It also listens to game signals to add short lived effects.
type Terminal struct {
	game.NopSignals

	out   io.Writer
	fd    int
	theme theme.Theme

	buffer       strings.Builder
	restoreState *term.State
	decorations  []*decoration

	width, height int
	geometry      notebar.Geometry
}

type decoration struct {
	Row, Col int
	Content  string
	Frames   int // remaining frames until removed
}

func NewTerminal(out io.Writer, fd int, th theme.Theme, geometry notebar.Geometry) *Terminal {
	return &Terminal{out: out, fd: fd, theme: th, geometry: geometry, width: 80, height: 24}
}

func (r *Terminal) Init() error {
	if term.IsTerminal(r.fd) {
		state, err := term.MakeRaw(r.fd)
		if nil != err {
			return fmt.Errorf("unable to enter raw mode: %w", err)
		}
		r.restoreState = state
	}
	r.Resize()

	_, err := fmt.Fprintf(r.out, "%s%s%s",
		"\033[?1049h", // Enable alternate buffer
		"\033[?25l",   // Make the cursor invisible
		"\033[2J",     // Clear the screen
	)
	return err
}

func (r *Terminal) Deinit() error {
	fmt.Fprintf(r.out, "%s%s",
		"\033[?1049l", // Disable alternate buffer
		"\033[?25h",   // Make the cursor visible
	)
	if nil == r.restoreState {
		return nil
	}
	return term.Restore(r.fd, r.restoreState)
}

// Resize picks up the terminal size, keeping the last known size when it
// cannot be read.
func (r *Terminal) Resize() {
	w, h, err := term.GetSize(r.fd)
	if nil != err || w <= 0 || h <= 0 {
		return
	}
	r.SetSize(w, h)
}

func (r *Terminal) SetSize(width, height int) {
	r.width, r.height = width, height
}

func (r *Terminal) AddDecoration(row, col int, content string, frames int) {
	r.decorations = append(r.decorations, &decoration{
		Row:     row,
		Col:     col,
		Content: content,
		Frames:  frames,
	})
}

// tickDecorations draws live decorations over the frame and drops the
// ones that ran out.
func (r *Terminal) tickDecorations() {
	nd := r.decorations[:0]
	for _, d := range r.decorations {
		if d.Frames <= 0 {
			continue
		}
		r.Fill(d.Row, d.Col, d.Content)
		d.Frames--
		nd = append(nd, d)
	}
	r.decorations = nd
}

func (r *Terminal) Fill(row, col int, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.Itoa(row))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(col))
	r.buffer.WriteString("H")
	r.buffer.WriteString(message)
}

func (r *Terminal) FillColor(row, col int, c color.RGBA, message string) {
	r.Fill(row, col, fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, message))
}

func (r *Terminal) clearRow(row int) {
	r.Fill(row, 1, "\033[2K")
}

// barColumn maps a position on the music bar to a screen column.
func (r *Terminal) barColumn(percent float64) int {
	return 2 + int(math.Round(percent/100*float64(r.width-4)))
}

func (r *Terminal) Draw(v View) {
	for row := 1; row <= r.height; row++ {
		r.clearRow(row)
	}
	r.drawBar(v)
	r.drawStatus(v)
	r.drawMap(v)
	r.tickDecorations()
}

func (r *Terminal) drawBar(v View) {
	g := v.Bar().Geometry()
	for col := r.barColumn(0); col <= r.barColumn(g.BlockAreaWidth); col++ {
		r.Fill(barRow, col, "░")
	}
	hit := r.barColumn(g.HitCenterPercent)
	field := r.theme.RenderHitField(v.Bar().IsHittable())
	for row := barRow - 1; row <= barRow+1; row++ {
		r.Fill(row, r.barColumn(g.HitCenterPercent-g.HitAreaWidth), field)
		r.Fill(row, r.barColumn(g.HitCenterPercent+g.HitAreaWidth), field)
	}
	r.Fill(barRow+1, hit, "┴")

	for _, n := range v.Notes() {
		if n.Position < 0 || n.Position > 100 {
			continue
		}
		r.Fill(barRow, r.barColumn(n.Position), r.theme.RenderNote(n))
	}
}

func (r *Terminal) drawStatus(v View) {
	now := v.Now()
	status := fmt.Sprintf("%3d:%02d  %3.0f%%",
		int(now.Minutes()), int(now.Seconds())%60, 100*v.Clock().Progress())
	if v.Paused() {
		status += "  PAUSED"
	}
	r.Fill(statusRow, 2, status)

	var banner string
	if out, reason := v.Outcome(); out == game.OutcomeFail {
		banner = "\033[1;31mFAILED: " + reason.String() + "\033[0m  r to retry, q to quit"
	} else if out == game.OutcomeClear {
		banner = "\033[1;32mCLEAR\033[0m  r to play again, q to quit"
	} else if v.Complete() {
		// Without notes the player cannot jump any more
		banner = "no notes left, r to retry"
	}
	if banner != "" {
		r.Fill(statusRow, 24, banner)
	}
}

// cellAt converts a world position to a map screen position. The camera
// looks down +Z, so +X is drawn on the left and +Z higher up.
func (r *Terminal) cellAt(pos, centre [2]float64) (int, int) {
	midRow := mapTop + (r.height-mapTop)/2
	midCol := r.width / 2
	dz := int(math.Round((pos[1] - centre[1]) / game.CellPitch))
	dx := int(math.Round((pos[0] - centre[0]) / game.CellPitch))
	return midRow - dz, midCol - 3*dx
}

func (r *Terminal) onMap(row, col int) bool {
	return row >= mapTop && row <= r.height && col >= 1 && col < r.width-1
}

func (r *Terminal) drawMap(v View) {
	p := v.Player()
	centre := [2]float64{p.Position.X(), p.Position.Z()}

	for _, cells := range v.Stage().Rows() {
		for _, c := range cells {
			if nil == c {
				continue
			}
			row, col := r.cellAt([2]float64{c.Pos.X(), c.Pos.Z()}, centre)
			if !r.onMap(row, col) {
				continue
			}
			glyph := r.theme.RenderCell(c)
			if c.Kind == game.CellVerticalMover && c.Mover.Offset > 0 {
				glyph += "+"
			}
			r.Fill(row, col, glyph)
		}
	}

	row, col := r.cellAt(centre, centre)
	player := r.theme.RenderPlayer(p.Status)
	if p.Position.Y() < 0 {
		player = "\033[2m" + player
	}
	r.Fill(row, col, player)
}

func (r *Terminal) OnNoteHit(n game.VisualNote) {
	col := r.barColumn(r.geometry.HitCenterPercent)
	if n.ID == 0 {
		// Jumped without a note
		r.AddDecoration(barRow-1, col, "\033[2m·\033[0m", 8)
		return
	}
	r.AddDecoration(barRow-1, col, "\033[1;33m✸\033[0m", 12)
	r.AddDecoration(barRow+1, col-1, "\033[1;33m╲\033[0m", 6)
	r.AddDecoration(barRow+1, col+1, "\033[1;33m╱\033[0m", 6)
}

func (r *Terminal) OnNoteExpired(game.VisualNote) {
	col := r.barColumn(r.geometry.BlockAreaWidth)
	r.AddDecoration(barRow-1, col, "\033[1;31m✗\033[0m", 24)
}

func (r *Terminal) OnPlayerLand(*game.Cell) {
	row, col := r.cellAt([2]float64{}, [2]float64{})
	r.AddDecoration(row+1, col-1, "\033[2m~ ~\033[0m", 6)
}

// Flush writes the frame out in one go.
func (r *Terminal) Flush() error {
	_, err := io.WriteString(r.out, r.buffer.String())
	r.buffer.Reset()
	return err
}
