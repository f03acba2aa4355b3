package game

import "github.com/go-gl/mathgl/mgl64"

// CellKind tags the variant held by a Cell.
type CellKind uint8

const (
	CellNormal CellKind = iota
	CellStart
	CellDestination
	CellHorizontalMover
	CellVerticalMover
	CellSign
)

func (k CellKind) String() string {
	return [...]string{"normal", "start", "destination", "horizontal", "vertical", "sign"}[k]
}

// Physical reports whether a player can stand on the cell.
func (k CellKind) Physical() bool {
	return k != CellSign
}

// IsMover reports whether the cell oscillates.
func (k CellKind) IsMover() bool {
	return k == CellHorizontalMover || k == CellVerticalMover
}

// Axis is the world axis a mover oscillates along.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Mover is the payload of a moving platform.
type Mover struct {
	Axis     Axis
	Range    int     // Cells travelled either side of the rest position
	Velocity float64 // World units per frame, signed
	Offset   float64 // Current displacement from Rest along Axis

	Rest      mgl64.Vec3
	HasPlayer bool
}

// Bound is the largest displacement the mover may reach.
func (m *Mover) Bound() float64 {
	return float64(m.Range) * CellPitch
}

// Cell is one grid element of a stage. Pos is the world position of the
// platform centre; for movers it follows the oscillation.
type Cell struct {
	Kind     CellKind
	Row, Col int
	Pos      mgl64.Vec3

	Mover *Mover    // CellHorizontalMover, CellVerticalMover
	Sign  Direction // CellSign
}

// Top is the height of the walkable surface the player rests on.
func (c *Cell) Top() float64 {
	return c.Pos.Y()
}

// Grid converts a grid coordinate to the rest position of a platform.
func Grid(row, col int) mgl64.Vec3 {
	return mgl64.Vec3{float64(col) * CellPitch, 0, float64(row) * CellPitch}
}
