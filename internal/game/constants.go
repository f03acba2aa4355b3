package game

import "time"

// Physics and geometry constants. The movement feel is tuned against FPS,
// so kinematics must always be integrated at this logical rate.
const (
	FPS = 45

	PlatformWidth  = 14.0
	PlatformHeight = 4.0
	PlatformDepth  = 14.0
	PlatformSep    = 1.0
	CellPitch      = PlatformWidth + PlatformSep

	CharRadius    = 2.5
	RestingHeight = CharRadius + 1

	JumpInitVelocity = 20.0
	FallSpeed        = 100.0
	LandingEpsilon   = 0.001

	DefaultLosingY = -100.0
)

// FramePeriod is the duration of one logical tick.
const FramePeriod = time.Second / FPS
