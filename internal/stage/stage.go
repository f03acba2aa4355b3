package stage

import (
	"errors"
	"math"

	"git.lost.host/meutraa/beathop/internal/game"
	"github.com/go-gl/mathgl/mgl64"
)

var ErrNoStart = errors.New("stage has no start cell")

// Carry is the displacement a mover applied to its rider this frame.
type Carry struct {
	Cell         *game.Cell
	Delta        mgl64.Vec3
	GridX, GridZ int
}

// Stage is the platform grid of a level. Rows follow Z, columns follow X.
// Cells are shared with the renderer and are read only outside TickMovers.
type Stage struct {
	cells   [][]*game.Cell
	start   *game.Cell
	movers  []*game.Cell
	count   int
	speed   float64 // Mover speed in world units per frame
	losingY float64
}

// New indexes a grid of cells. moverSpeed is in cells per second.
func New(cells [][]*game.Cell, moverSpeed float64, losingY float64) (*Stage, error) {
	s := &Stage{
		cells:   cells,
		speed:   moverSpeed * game.CellPitch / game.FPS,
		losingY: losingY,
	}
	for _, row := range cells {
		for _, c := range row {
			if nil == c {
				continue
			}
			s.count++
			switch c.Kind {
			case game.CellStart:
				if nil == s.start {
					s.start = c
				}
			case game.CellHorizontalMover, game.CellVerticalMover:
				if nil == c.Mover {
					c.Mover = &game.Mover{Axis: game.AxisX}
				}
				c.Mover.Rest = game.Grid(c.Row, c.Col)
				c.Pos = c.Mover.Rest
				s.movers = append(s.movers, c)
			}
		}
	}
	if nil == s.start {
		return nil, ErrNoStart
	}
	s.Reset()
	return s, nil
}

func (s *Stage) raw(row, col int) *game.Cell {
	if row < 0 || row >= len(s.cells) {
		return nil
	}
	if col < 0 || col >= len(s.cells[row]) {
		return nil
	}
	return s.cells[row][col]
}

// CellAt returns the cell at a grid coordinate, or nil for the void. With
// resolveSigns, direction signs are followed to the platform they point at.
// Chains of signs are followed; a cycle or a sign pointing into the void
// resolves to nil.
func (s *Stage) CellAt(row, col int, resolveSigns bool) *game.Cell {
	c := s.raw(row, col)
	if !resolveSigns {
		return c
	}
	for steps := 0; nil != c && c.Kind == game.CellSign; steps++ {
		if steps >= s.count {
			return nil
		}
		c = s.raw(c.Row+c.Sign.Z, c.Col+c.Sign.X)
	}
	return c
}

// TickMovers advances every mover by one frame. Movers bounce instantly at
// the edge of their range. The returned carry describes how the mover
// flagged as carrying the player moved; Cell is nil when nobody rides.
func (s *Stage) TickMovers() Carry {
	var carry Carry
	for _, c := range s.movers {
		m := c.Mover
		bound := m.Bound()
		next := m.Offset + m.Velocity
		if next > bound {
			next = 2*bound - next
			m.Velocity = -m.Velocity
		} else if next < -bound {
			next = -2*bound - next
			m.Velocity = -m.Velocity
		}
		next = math.Max(-bound, math.Min(bound, next))
		delta := axis(m.Axis).Mul(next - m.Offset)
		m.Offset = next
		c.Pos = m.Rest.Add(axis(m.Axis).Mul(m.Offset))

		if m.HasPlayer {
			carry = Carry{Cell: c, Delta: delta, GridX: c.Col, GridZ: c.Row}
			cells := int(math.Round(m.Offset / game.CellPitch))
			switch m.Axis {
			case game.AxisX:
				carry.GridX += cells
			case game.AxisZ:
				carry.GridZ += cells
			}
		}
	}
	return carry
}

// ReleasePlayer clears every rider flag, including stale ones.
func (s *Stage) ReleasePlayer() {
	for _, c := range s.movers {
		c.Mover.HasPlayer = false
	}
}

// Reset returns every mover to its rest position.
func (s *Stage) Reset() {
	for _, c := range s.movers {
		m := c.Mover
		m.Offset = 0
		m.HasPlayer = false
		m.Velocity = s.speed
		if m.Range == 0 {
			m.Velocity = 0
		}
		c.Pos = m.Rest
	}
}

func (s *Stage) Start() *game.Cell {
	return s.start
}

func (s *Stage) Movers() []*game.Cell {
	return s.movers
}

// Rows returns the grid for rendering.
func (s *Stage) Rows() [][]*game.Cell {
	return s.cells
}

func (s *Stage) LosingY() float64 {
	return s.losingY
}

func axis(a game.Axis) mgl64.Vec3 {
	switch a {
	case game.AxisY:
		return mgl64.Vec3{0, 1, 0}
	case game.AxisZ:
		return mgl64.Vec3{0, 0, 1}
	}
	return mgl64.Vec3{1, 0, 0}
}
