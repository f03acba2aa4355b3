package stage_test

import (
	"math"
	"testing"

	"git.lost.host/meutraa/beathop/internal/game"
	"git.lost.host/meutraa/beathop/internal/parser"
	"git.lost.host/meutraa/beathop/internal/stage"
	"git.lost.host/meutraa/beathop/internal/testdata"
)

func load(t *testing.T, data string) *stage.Stage {
	t.Helper()
	asset, err := parser.DecodeStage([]byte(data))
	if nil != err {
		t.Fatal(err)
	}
	s, err := stage.New(asset.Cells, 1, asset.LosingY)
	if nil != err {
		t.Fatal(err)
	}
	return s
}

func TestStart(t *testing.T) {
	s := load(t, testdata.Movers)
	if s.Start().Row != 0 || s.Start().Col != 1 {
		t.Fatalf("start at (%d, %d)", s.Start().Row, s.Start().Col)
	}
	if len(s.Movers()) != 2 {
		t.Fatalf("expected 2 movers, got %d", len(s.Movers()))
	}
}

func TestNoStart(t *testing.T) {
	if _, err := stage.New([][]*game.Cell{{{Kind: game.CellNormal}}}, 1, game.DefaultLosingY); err != stage.ErrNoStart {
		t.Fatalf("expected ErrNoStart, got %v", err)
	}
}

func TestCellAtOutOfBounds(t *testing.T) {
	s := load(t, testdata.Movers)
	for _, c := range [][2]int{{-1, 0}, {0, -1}, {5, 0}, {0, 4}, {1, 3}, {100, 100}} {
		if s.CellAt(c[0], c[1], true) != nil || s.CellAt(c[0], c[1], false) != nil {
			t.Fatalf("expected void at %v", c)
		}
	}
}

func TestSignResolution(t *testing.T) {
	s := load(t, testdata.Signs)

	raw := s.CellAt(1, 0, false)
	if nil == raw || raw.Kind != game.CellSign {
		t.Fatalf("expected a raw sign, got %+v", raw)
	}
	target := s.CellAt(1, 0, true)
	if nil == target || target.Row != 2 || target.Col != 0 || target.Kind != game.CellNormal {
		t.Fatalf("sign resolved to %+v", target)
	}
	if up := s.CellAt(3, 0, true); up != target {
		t.Fatalf("upward sign resolved to %+v", up)
	}

	// Two signs pointing at each other
	if c := s.CellAt(0, 1, true); nil != c {
		t.Fatalf("sign cycle resolved to %+v", c)
	}
	// A sign pointing out of the map
	if c := s.CellAt(1, 3, true); nil != c {
		t.Fatalf("sign into the void resolved to %+v", c)
	}
	// Signs chained into a platform
	chain := load(t, testdata.Movers)
	if c := chain.CellAt(3, 1, true); nil == c || c.Col != 3 || c.Kind != game.CellNormal {
		t.Fatalf("sign chain resolved to %+v", c)
	}
}

func TestMoverBounceContainment(t *testing.T) {
	s := load(t, testdata.Movers)
	for i := 0; i < 10*game.FPS; i++ {
		s.TickMovers()
		for _, c := range s.Movers() {
			bound := float64(c.Mover.Range) * game.CellPitch
			d := c.Pos.Sub(c.Mover.Rest)
			for axis := 0; axis < 3; axis++ {
				if math.Abs(d[axis]) > bound+1e-9 {
					t.Fatalf("mover %v escaped to %v after %d ticks", c.Mover.Axis, c.Pos, i)
				}
			}
		}
	}
}

func TestMoverReflectsAtBound(t *testing.T) {
	s := load(t, testdata.Movers)
	h := s.CellAt(1, 1, false)
	v := h.Mover.Velocity
	if v <= 0 {
		t.Fatalf("mover should start moving, velocity %v", v)
	}
	flipped := false
	for i := 0; i < 2*game.FPS; i++ {
		s.TickMovers()
		if h.Mover.Velocity < 0 {
			flipped = true
			break
		}
	}
	if !flipped {
		t.Fatal("mover never bounced within its range")
	}
	if h.Mover.Velocity != -v {
		t.Fatalf("bounce changed speed from %v to %v", v, h.Mover.Velocity)
	}
}

func TestCarryFollowsMover(t *testing.T) {
	s := load(t, testdata.Movers)
	h := s.CellAt(1, 1, false)
	if carry := s.TickMovers(); nil != carry.Cell {
		t.Fatal("carry reported without a rider")
	}

	h.Mover.HasPlayer = true
	before := h.Pos
	sum := 0.0
	for i := 0; i < 10; i++ {
		v := h.Mover.Velocity
		carry := s.TickMovers()
		if carry.Cell != h {
			t.Fatalf("carry from %+v", carry.Cell)
		}
		if math.Abs(carry.Delta.X()-v) > 1e-9 || carry.Delta.Y() != 0 || carry.Delta.Z() != 0 {
			t.Fatalf("carry delta %v, velocity %v", carry.Delta, v)
		}
		sum += carry.Delta.X()
		if carry.GridZ != 1 || carry.GridX < 0 || carry.GridX > 2 {
			t.Fatalf("carried to grid (%d, %d)", carry.GridX, carry.GridZ)
		}
	}
	if math.Abs(h.Pos.X()-before.X()-sum) > 1e-9 {
		t.Fatalf("mover moved %v, carried %v", h.Pos.X()-before.X(), sum)
	}

	s.ReleasePlayer()
	if h.Mover.HasPlayer {
		t.Fatal("release left the rider flag set")
	}
}

func TestCarryGridRounds(t *testing.T) {
	s := load(t, testdata.Movers)
	h := s.CellAt(1, 1, false)
	h.Mover.HasPlayer = true
	seen := map[int]bool{}
	for i := 0; i < 4*game.FPS; i++ {
		carry := s.TickMovers()
		expected := 1 + int(math.Round(h.Mover.Offset/game.CellPitch))
		if carry.GridX != expected {
			t.Fatalf("grid %d for offset %v", carry.GridX, h.Mover.Offset)
		}
		seen[carry.GridX] = true
	}
	// A range of one cell only ever reaches the neighbours
	for x := range seen {
		if x < 0 || x > 2 {
			t.Fatalf("grid x %d outside the mover range", x)
		}
	}
}

func TestReset(t *testing.T) {
	s := load(t, testdata.Movers)
	for i := 0; i < 17; i++ {
		s.TickMovers()
	}
	s.Reset()
	for _, c := range s.Movers() {
		if c.Pos != c.Mover.Rest || c.Mover.Offset != 0 || c.Mover.HasPlayer {
			t.Fatalf("mover not reset %+v", c.Mover)
		}
	}
}
