package game

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Direction is a discrete grid step. X follows columns, Z follows rows.
type Direction struct {
	X, Z int
}

// The camera looks down +Z, so +X is on the left of the screen.
var (
	Up    = Direction{X: 0, Z: 1}
	Down  = Direction{X: 0, Z: -1}
	Left  = Direction{X: 1, Z: 0}
	Right = Direction{X: -1, Z: 0}
)

func (d Direction) IsZero() bool {
	return d.X == 0 && d.Z == 0
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "none"
}

// RidingStatus is the state of the player state machine.
type RidingStatus uint8

const (
	Airborne RidingStatus = iota
	OnNormalPlatform
	OnHorizontalMover
	OnVerticalMover
)

func (s RidingStatus) String() string {
	return [...]string{"airborne", "normal", "horizontal", "vertical"}[s]
}

// PlayerState is a snapshot of the player. GridX is a column, GridZ a row.
type PlayerState struct {
	GridX, GridZ int
	Position     mgl64.Vec3
	Velocity     mgl64.Vec3
	Status       RidingStatus
	Pending      *Direction
}

// Input is a committed move, kept for run history.
type Input struct {
	Index   int           // Direction index, see DirectionIndex
	HitTime time.Duration // Stage time of the jump
}

var directions = [...]Direction{Up, Down, Left, Right}

// DirectionIndex maps a direction to a stable small integer.
func DirectionIndex(d Direction) int {
	for i, dd := range directions {
		if d == dd {
			return i
		}
	}
	return -1
}

// DirectionAt is the inverse of DirectionIndex.
func DirectionAt(i int) Direction {
	if i < 0 || i >= len(directions) {
		return Direction{}
	}
	return directions[i]
}
