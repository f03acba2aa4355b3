package parser

import (
	"errors"
	"fmt"
	"io/ioutil"
	"math"
	"strconv"
	"strings"
	"time"

	"git.lost.host/meutraa/beathop/internal/game"
	"git.lost.host/meutraa/beathop/internal/notebar"
	"github.com/tidwall/gjson"
)

var (
	ErrInvalidJSON   = errors.New("invalid json")
	ErrMissingField  = errors.New("missing field")
	ErrEmptyBeatMap  = errors.New("beat map has no rows")
	ErrEmptyBar      = errors.New("beat map row has no columns")
	ErrEmptyStage    = errors.New("stage has no rows")
	ErrBadCell       = errors.New("malformed cell code")
	ErrNoStart       = errors.New("stage has no start cell")
	ErrInvalidPeriod = errors.New("bar period must be positive")
)

type DefaultParser struct{}

func read(file string) ([]byte, error) {
	data, err := ioutil.ReadFile(file)
	if nil != err {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%s: %w", file, ErrInvalidJSON)
	}
	return data, nil
}

func (p *DefaultParser) ParseBeatMap(file string) (*game.BeatMap, error) {
	data, err := read(file)
	if nil != err {
		return nil, err
	}
	bm, err := DecodeBeatMap(data)
	if nil != err {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return bm, nil
}

func (p *DefaultParser) ParseStage(file string) (*Stage, error) {
	data, err := read(file)
	if nil != err {
		return nil, err
	}
	st, err := DecodeStage(data)
	if nil != err {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return st, nil
}

func (p *DefaultParser) ParseBarTheme(file string, base notebar.Geometry) (notebar.Geometry, error) {
	data, err := read(file)
	if nil != err {
		return base, err
	}
	return DecodeBarTheme(data, base), nil
}

func required(data []byte, path string) (gjson.Result, error) {
	r := gjson.GetBytes(data, path)
	if !r.Exists() {
		return r, fmt.Errorf("%w: %s", ErrMissingField, path)
	}
	return r, nil
}

// DecodeBeatMap reads {timeTravel (s), period (ms), wait (ms), content}.
// Content rows are strings of '0' and '1'.
func DecodeBeatMap(data []byte) (*game.BeatMap, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	travel, err := required(data, "timeTravel")
	if nil != err {
		return nil, err
	}
	period, err := required(data, "period")
	if nil != err {
		return nil, err
	}
	if period.Float() <= 0 {
		return nil, ErrInvalidPeriod
	}
	content, err := required(data, "content")
	if nil != err {
		return nil, err
	}

	bm := &game.BeatMap{
		BarPeriod:  ms(period.Float()),
		TravelTime: ms(travel.Float() * 1000),
		Wait:       ms(gjson.GetBytes(data, "wait").Float()),
	}
	for i, row := range content.Array() {
		line := strings.TrimSpace(row.String())
		if len(line) == 0 {
			return nil, fmt.Errorf("%w: row %d", ErrEmptyBar, i)
		}
		bits := make([]bool, len(line))
		for j := 0; j < len(line); j++ {
			bits[j] = line[j] == '1'
		}
		bm.Rows = append(bm.Rows, bits)
	}
	if len(bm.Rows) == 0 {
		return nil, ErrEmptyBeatMap
	}
	return bm, nil
}

func ms(v float64) time.Duration {
	return time.Duration(math.Round(v * float64(time.Millisecond)))
}

// Sign codes follow the map text: '>' points at the next column of the
// row, 'v' at the same column of the next row.
var signs = map[byte]game.Direction{
	'>': {X: 1, Z: 0},
	'<': {X: -1, Z: 0},
	'v': {X: 0, Z: 1},
	'^': {X: 0, Z: -1},
}

var kinds = map[string]game.CellKind{
	"normal":      game.CellNormal,
	"start":       game.CellStart,
	"destination": game.CellDestination,
	"horizontal":  game.CellHorizontalMover,
	"vertical":    game.CellVerticalMover,
	"sign":        game.CellSign,
}

// DecodeStage reads the stage asset. Cell codes: P normal, S start,
// F destination, H<n>/Z<n> movers along X/Z and V<n> along Y with a range
// of n cells, > < ^ v direction signs; anything else is empty.
func DecodeStage(data []byte) (*Stage, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	rows, err := required(data, "stage")
	if nil != err {
		return nil, err
	}

	st := &Stage{
		LosingY:  game.DefaultLosingY,
		Song:     gjson.GetBytes(data, "song").String(),
		Platform: map[game.CellKind]PlatformStyle{},
		Raw:      data,
	}
	if far := gjson.GetBytes(data, "scene.fog.far"); far.Exists() && far.Float() > 0 {
		st.LosingY = -far.Float()
	}

	hasStart := false
	for z, row := range rows.Array() {
		cells, err := decodeRow(z, row.String())
		if nil != err {
			return nil, err
		}
		for _, c := range cells {
			if nil != c && c.Kind == game.CellStart {
				hasStart = true
			}
		}
		st.Cells = append(st.Cells, cells)
	}
	if len(st.Cells) == 0 {
		return nil, ErrEmptyStage
	}
	if !hasStart {
		return nil, ErrNoStart
	}

	gjson.GetBytes(data, "platform").ForEach(func(key, value gjson.Result) bool {
		kind, ok := kinds[key.String()]
		if !ok {
			return true
		}
		st.Platform[kind] = PlatformStyle{
			Color:   value.Get("color").String(),
			Texture: value.Get("texture.top").String(),
		}
		return true
	})
	return st, nil
}

func decodeRow(z int, line string) ([]*game.Cell, error) {
	cells := []*game.Cell{}
	for i := 0; i < len(line); i++ {
		x := len(cells)
		cell := &game.Cell{Row: z, Col: x, Pos: game.Grid(z, x)}
		switch ch := line[i]; ch {
		case 'P':
			cell.Kind = game.CellNormal
		case 'S':
			cell.Kind = game.CellStart
		case 'F':
			cell.Kind = game.CellDestination
		case 'H', 'V', 'Z':
			if i+1 >= len(line) {
				return nil, fmt.Errorf("%w: %c at row %d has no range", ErrBadCell, ch, z)
			}
			r, err := strconv.Atoi(string(line[i+1]))
			if nil != err {
				return nil, fmt.Errorf("%w: %c%c at row %d", ErrBadCell, ch, line[i+1], z)
			}
			i++
			cell.Kind = game.CellHorizontalMover
			cell.Mover = &game.Mover{Axis: game.AxisX, Range: r}
			if ch == 'Z' {
				cell.Mover.Axis = game.AxisZ
			} else if ch == 'V' {
				cell.Kind = game.CellVerticalMover
				cell.Mover.Axis = game.AxisY
			}
		case '>', '<', '^', 'v':
			cell.Kind = game.CellSign
			cell.Sign = signs[ch]
		default:
			cell = nil
		}
		cells = append(cells, cell)
	}
	return cells, nil
}

// DecodeBarTheme overrides the bar geometry with whatever the theme sets.
// Lengths may be plain numbers or percent strings such as "20%".
func DecodeBarTheme(data []byte, base notebar.Geometry) notebar.Geometry {
	g := base
	set := func(path string, dst *float64) {
		if v, ok := percent(gjson.GetBytes(data, path)); ok {
			*dst = v
		}
	}
	set("hitCenter.x", &g.HitCenterPercent)
	set("hitArea.width", &g.HitAreaWidth)
	set("blockArea.width", &g.BlockAreaWidth)
	set("notes.radius", &g.NoteRadius)
	set("notes.spawn", &g.SpawnPercent)
	return g
}

func percent(r gjson.Result) (float64, bool) {
	switch r.Type {
	case gjson.Number:
		return r.Float(), true
	case gjson.String:
		s := strings.TrimRight(strings.TrimSpace(r.Str), "%vhw")
		v, err := strconv.ParseFloat(s, 64)
		return v, nil == err
	}
	return 0, false
}
