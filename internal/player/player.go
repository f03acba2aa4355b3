package player

import (
	"math"
	"math/rand"

	"git.lost.host/meutraa/beathop/internal/game"
	"git.lost.host/meutraa/beathop/internal/stage"
	"github.com/go-gl/mathgl/mgl64"
)

// JumpVariants is the number of jump sounds to pick from.
const JumpVariants = 3

// Gate decides whether a jump is on beat and consumes the beat when it is.
type Gate interface {
	IsHittable() bool
	ConsumeHit() (game.VisualNote, bool)
}

// MoveResult is what became of a move request.
type MoveResult int

const (
	MoveIgnored MoveResult = iota
	MoveQueued
	MoveJumped
)

func (r MoveResult) String() string {
	return [...]string{"ignored", "queued", "jumped"}[r]
}

// Player turns discrete moves into jumps and resolves where they land. It
// is the only writer of its state; movers hand it their displacement
// through Ride.
type Player struct {
	stage   *stage.Stage
	gate    Gate
	signals game.Signals
	rng     *rand.Rand

	state  game.PlayerState
	riding *game.Cell
	fallen bool
	onJump func(game.Direction)
}

func New(st *stage.Stage, gate Gate, signals game.Signals, rng *rand.Rand) *Player {
	if nil == signals {
		signals = game.NopSignals{}
	}
	if nil == rng {
		rng = rand.New(rand.NewSource(1))
	}
	p := &Player{stage: st, gate: gate, signals: signals, rng: rng}
	p.Reset()
	return p
}

// OnJump registers fn to be told the direction of every jump, including
// queued moves replayed on landing.
func (p *Player) OnJump(fn func(game.Direction)) {
	p.onJump = fn
}

// Reset places the player on the start platform.
func (p *Player) Reset() {
	start := p.stage.Start()
	p.state = game.PlayerState{
		GridX:    start.Col,
		GridZ:    start.Row,
		Position: mgl64.Vec3{start.Pos.X(), start.Top() + game.RestingHeight, start.Pos.Z()},
		Status:   game.OnNormalPlatform,
	}
	p.riding = start
	p.fallen = false
}

// RequestMove jumps one cell in dir if a note is hittable. A request made
// while falling close to the ground is kept and replayed on landing; only
// the latest such request is kept.
func (p *Player) RequestMove(dir game.Direction) MoveResult {
	if dir.IsZero() || !p.gate.IsHittable() {
		return MoveIgnored
	}
	if p.state.Status == game.Airborne {
		if p.state.Velocity.Y() < 0 && p.state.Position.Y() < 2*game.RestingHeight {
			d := dir
			p.state.Pending = &d
			return MoveQueued
		}
		return MoveIgnored
	}
	p.jump(dir)
	return MoveJumped
}

func (p *Player) jump(dir game.Direction) {
	p.stage.ReleasePlayer()
	p.riding = nil

	x, z := p.state.GridX+dir.X, p.state.GridZ+dir.Z
	from := p.state.Position
	to := from.Add(mgl64.Vec3{float64(dir.X) * game.CellPitch, 0, float64(dir.Z) * game.CellPitch})

	// Signs send the jump to the platform they point at, which may be
	// further than one pitch away.
	if dest := p.stage.CellAt(z, x, true); nil != dest {
		if raw := p.stage.CellAt(z, x, false); raw != dest {
			x, z = dest.Col, dest.Row
		}
		to = dest.Pos
	}

	scale := game.FallSpeed / (game.JumpInitVelocity * 2)
	p.state.Velocity = mgl64.Vec3{
		(to.X() - from.X()) * scale,
		game.JumpInitVelocity,
		(to.Z() - from.Z()) * scale,
	}
	p.state.GridX, p.state.GridZ = x, z
	p.state.Status = game.Airborne

	p.gate.ConsumeHit()
	p.signals.OnPlayerJump(p.rng.Intn(JumpVariants))
	if nil != p.onJump {
		p.onJump(dir)
	}
}

// Ride moves the player with the mover it stands on.
func (p *Player) Ride(carry stage.Carry) {
	if nil == carry.Cell || carry.Cell != p.riding || p.state.Status == game.Airborne {
		return
	}
	p.state.Position = p.state.Position.Add(carry.Delta)
	p.state.GridX, p.state.GridZ = carry.GridX, carry.GridZ
}

// Tick integrates one frame of flight and resolves landing. Gravity is
// applied after the position update, so landings are quantised to frames.
func (p *Player) Tick() game.Outcome {
	if p.state.Status != game.Airborne {
		return game.OutcomeNone
	}

	pos, vel := p.state.Position, p.state.Velocity
	pos[1] += vel.Y() / game.FPS
	vel[1] -= game.FallSpeed / game.FPS
	pos[0] += vel.X() / game.FPS
	pos[2] += vel.Z() / game.FPS
	p.state.Position, p.state.Velocity = pos, vel

	if cell := p.stage.CellAt(p.state.GridZ, p.state.GridX, true); nil != cell && p.landed(cell) {
		return p.land(cell)
	}

	if pos.Y() < p.stage.LosingY() && !p.fallen {
		p.fallen = true
		return game.OutcomeFail
	}
	return game.OutcomeNone
}

func (p *Player) landed(cell *game.Cell) bool {
	if p.state.Velocity.Y() >= 0 || !p.overlaps(cell) {
		return false
	}
	h := p.state.Position.Y() - game.RestingHeight
	if cell.Kind == game.CellVerticalMover {
		// Shallow catch zone around the moving top surface
		top := cell.Top() + game.PlatformHeight/4
		return h <= top && h >= top-game.PlatformHeight/2
	}
	return h-cell.Top() <= game.LandingEpsilon && h-cell.Top() > -game.PlatformHeight
}

func (p *Player) overlaps(cell *game.Cell) bool {
	dx := math.Abs(p.state.Position.X() - cell.Pos.X())
	dz := math.Abs(p.state.Position.Z() - cell.Pos.Z())
	return dx <= game.PlatformWidth/2+game.CharRadius && dz <= game.PlatformDepth/2+game.CharRadius
}

func (p *Player) land(cell *game.Cell) game.Outcome {
	p.state.Velocity = mgl64.Vec3{}
	p.state.Position = mgl64.Vec3{cell.Pos.X(), cell.Top() + game.RestingHeight, cell.Pos.Z()}
	p.state.GridX, p.state.GridZ = cell.Col, cell.Row
	p.riding = cell

	switch cell.Kind {
	case game.CellHorizontalMover:
		p.state.Status = game.OnHorizontalMover
		cell.Mover.HasPlayer = true
	case game.CellVerticalMover:
		p.state.Status = game.OnVerticalMover
		cell.Mover.HasPlayer = true
	default:
		p.state.Status = game.OnNormalPlatform
	}
	p.signals.OnPlayerLand(cell)

	if cell.Kind == game.CellDestination {
		p.state.Pending = nil
		return game.OutcomeClear
	}
	if pending := p.state.Pending; nil != pending {
		p.state.Pending = nil
		p.RequestMove(*pending)
	}
	return game.OutcomeNone
}

// State returns a copy of the player state.
func (p *Player) State() game.PlayerState {
	s := p.state
	if nil != s.Pending {
		d := *s.Pending
		s.Pending = &d
	}
	return s
}

// Riding returns the platform under the player, nil while airborne.
func (p *Player) Riding() *game.Cell {
	return p.riding
}
