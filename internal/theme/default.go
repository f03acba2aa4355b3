package theme

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"git.lost.host/meutraa/beathop/internal/game"
	"git.lost.host/meutraa/beathop/internal/parser"
)

type DefaultTheme struct {
	platforms map[game.CellKind]color.RGBA
}

// New builds a theme from the platform styles of a stage. Kinds without a
// style look like normal platforms when the stage styles those, and use
// the built in colours otherwise.
func New(styles map[game.CellKind]parser.PlatformStyle) *DefaultTheme {
	t := &DefaultTheme{platforms: map[game.CellKind]color.RGBA{}}
	for kind, c := range platformColors {
		t.platforms[kind] = c
	}

	normal, hasNormal := parseColor(styles[game.CellNormal].Color)
	for _, kind := range []game.CellKind{
		game.CellNormal, game.CellStart, game.CellDestination,
		game.CellHorizontalMover, game.CellVerticalMover,
	} {
		if c, ok := parseColor(styles[kind].Color); ok {
			t.platforms[kind] = c
		} else if hasNormal {
			t.platforms[kind] = normal
		}
	}
	return t
}

func paint(c color.RGBA, s string) string {
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, s)
}

func (t *DefaultTheme) RenderNote(note game.VisualNote) string {
	return paint(noteColor, noteSyms[note.Animation%len(noteSyms)])
}

func (t *DefaultTheme) RenderHitField(hittable bool) string {
	if hittable {
		return paint(hitColor, hitSym)
	}
	return hitSym
}

// Color is the colour a platform kind is drawn with.
func (t *DefaultTheme) Color(kind game.CellKind) color.RGBA {
	return t.platforms[kind]
}

func (t *DefaultTheme) RenderCell(cell *game.Cell) string {
	if nil == cell {
		return " "
	}
	if cell.Kind == game.CellSign {
		return paint(signColor, signSyms[cell.Sign])
	}
	return paint(t.platforms[cell.Kind], cellSyms[cell.Kind])
}

func (t *DefaultTheme) RenderPlayer(status game.RidingStatus) string {
	if status == game.Airborne {
		return paint(playerColor, "◯")
	}
	return paint(playerColor, "⬤")
}

const hitSym = "│"

var (
	noteSyms = [...]string{"◆", "◈", "◇", "◈"}
	cellSyms = map[game.CellKind]string{
		game.CellNormal:          "▪",
		game.CellStart:           "S",
		game.CellDestination:     "★",
		game.CellHorizontalMover: "↔",
		game.CellVerticalMover:   "↕",
	}
	// The map is drawn with +X on the left, as the camera sees it.
	signSyms = map[game.Direction]string{
		game.Up:    "▲",
		game.Down:  "▼",
		game.Left:  "◀",
		game.Right: "▶",
	}

	noteColor   = color.RGBA{236, 195, 0, 255}
	hitColor    = color.RGBA{0, 236, 128, 255}
	signColor   = color.RGBA{236, 128, 0, 255}
	playerColor = color.RGBA{255, 255, 255, 255}

	platformColors = map[game.CellKind]color.RGBA{
		game.CellNormal:          {192, 128, 64, 255},
		game.CellStart:           {106, 106, 106, 255},
		game.CellDestination:     {236, 30, 0, 255},
		game.CellHorizontalMover: {0, 118, 236, 255},
		game.CellVerticalMover:   {106, 0, 236, 255},
	}
)

// parseColor reads #rgb and #rrggbb colours.
func parseColor(s string) (color.RGBA, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if nil != err {
		return color.RGBA{}, false
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}, true
}
