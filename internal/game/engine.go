package game

import (
	"math"

	"golang.org/x/exp/rand"
)

// Inputs holds the latest movement axis for each side, -1, 0 or +1.
// Unoccupied sides stay at zero.
type Inputs [NumSides]int8

type Config struct {
	WinScore uint16
	// OpenWalls leaves a vacated edge open to scoring. The default treats
	// it as a solid reflecting wall so a short-handed match keeps playing
	// rather than pausing or bleeding points through the empty side.
	OpenWalls bool
	Policy    ScorePolicy
	Seed      uint64
}

// Engine is the authoritative fixed-timestep simulation. Advance is a total
// function: it never fails, and with the same seed, state and input script
// it always produces the same next state.
type Engine struct {
	cfg Config
	rng *rand.Rand
}

func NewEngine(cfg Config) *Engine {
	if cfg.WinScore == 0 {
		cfg.WinScore = 10
	}
	if cfg.Policy == nil {
		cfg.Policy = FreeForAll{}
	}
	return &Engine{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// Start moves the match out of the lobby and serves the first ball.
func (e *Engine) Start(st *MatchState) {
	if st.Phase != PhaseLobby {
		return
	}
	st.Phase = PhaseActive
	st.Ball.Reset(e.rng)
	st.FreezeTicks = ServeFreezeTicks
}

// Advance runs one simulation tick: paddle movement, ball integration,
// collision resolution, scoring. After the match finishes it does nothing.
func (e *Engine) Advance(st *MatchState, in Inputs) {
	if st.Phase == PhaseFinished {
		return
	}
	st.Tick++
	if st.Phase != PhaseActive {
		return
	}

	for i, p := range st.Paddles {
		if p != nil {
			p.Pos = StepPaddle(p.Pos, in[i], p.Length)
		}
	}

	// Post-goal serve freeze: paddles may move, the ball stays put.
	if st.FreezeTicks > 0 {
		st.FreezeTicks--
		return
	}

	st.Ball.Pos.X += st.Ball.Vel.X
	st.Ball.Pos.Y += st.Ball.Vel.Y

	e.collide(st)

	if goal, ok := goalSide(&st.Ball); ok {
		e.cfg.Policy.Score(&st.Scores, goal, st.Occupied(), st.Ball.LastTouchedBy)
		st.Ball.Reset(e.rng)
		st.FreezeTicks = ServeFreezeTicks

		for _, sc := range st.Scores {
			if sc >= e.cfg.WinScore {
				st.Phase = PhaseFinished
				break
			}
		}
	}
}

// collide resolves all four edges in a single pass. A ball squeezed into a
// corner crosses two edges in the same tick and gets both components
// reflected, one by each edge's check.
func (e *Engine) collide(st *MatchState) {
	for _, side := range Sides {
		if p := st.Paddles[side]; p != nil {
			paddleBounce(&st.Ball, p)
		} else if !e.cfg.OpenWalls {
			wallBounce(&st.Ball, side)
		}
	}
}

// paddleBounce reflects the ball off a paddle. The outgoing angle is taken
// from where the ball struck the paddle, capped at MaxBounceAngle off the
// normal, and the speed grows by BallSpeedGain up to MaxBallSpeed.
func paddleBounce(b *Ball, p *Paddle) {
	switch p.Side {
	case North:
		plane := PaddlePadding
		if b.Vel.Y < 0 && b.Pos.Y-b.Radius <= plane && overlaps(b.Pos.X, b.Radius, p) {
			theta := bounceTheta(b.Pos.X, p)
			speed := grownSpeed(b.Vel)
			b.Vel.X = speed * float32(math.Sin(theta))
			b.Vel.Y = speed * float32(math.Cos(theta))
			b.Pos.Y = plane + b.Radius
			b.LastTouchedBy = p.Side
		}
	case South:
		plane := BoardSize - PaddlePadding
		if b.Vel.Y > 0 && b.Pos.Y+b.Radius >= plane && overlaps(b.Pos.X, b.Radius, p) {
			theta := bounceTheta(b.Pos.X, p)
			speed := grownSpeed(b.Vel)
			b.Vel.X = speed * float32(math.Sin(theta))
			b.Vel.Y = -speed * float32(math.Cos(theta))
			b.Pos.Y = plane - b.Radius
			b.LastTouchedBy = p.Side
		}
	case West:
		plane := PaddlePadding
		if b.Vel.X < 0 && b.Pos.X-b.Radius <= plane && overlaps(b.Pos.Y, b.Radius, p) {
			theta := bounceTheta(b.Pos.Y, p)
			speed := grownSpeed(b.Vel)
			b.Vel.X = speed * float32(math.Cos(theta))
			b.Vel.Y = speed * float32(math.Sin(theta))
			b.Pos.X = plane + b.Radius
			b.LastTouchedBy = p.Side
		}
	case East:
		plane := BoardSize - PaddlePadding
		if b.Vel.X > 0 && b.Pos.X+b.Radius >= plane && overlaps(b.Pos.Y, b.Radius, p) {
			theta := bounceTheta(b.Pos.Y, p)
			speed := grownSpeed(b.Vel)
			b.Vel.X = -speed * float32(math.Cos(theta))
			b.Vel.Y = speed * float32(math.Sin(theta))
			b.Pos.X = plane - b.Radius
			b.LastTouchedBy = p.Side
		}
	}
}

// wallBounce reflects the ball off an unpaddled, closed edge, carrying the
// overshoot back into the board.
func wallBounce(b *Ball, side Side) {
	switch side {
	case North:
		if b.Vel.Y < 0 && b.Pos.Y-b.Radius <= 0 {
			b.Pos.Y = 2*b.Radius - b.Pos.Y
			b.Vel.Y = -b.Vel.Y
		}
	case South:
		if b.Vel.Y > 0 && b.Pos.Y+b.Radius >= BoardSize {
			b.Pos.Y = 2*(BoardSize-b.Radius) - b.Pos.Y
			b.Vel.Y = -b.Vel.Y
		}
	case West:
		if b.Vel.X < 0 && b.Pos.X-b.Radius <= 0 {
			b.Pos.X = 2*b.Radius - b.Pos.X
			b.Vel.X = -b.Vel.X
		}
	case East:
		if b.Vel.X > 0 && b.Pos.X+b.Radius >= BoardSize {
			b.Pos.X = 2*(BoardSize-b.Radius) - b.Pos.X
			b.Vel.X = -b.Vel.X
		}
	}
}

func overlaps(coord, radius float32, p *Paddle) bool {
	return coord+radius >= p.Pos-p.Length/2 && coord-radius <= p.Pos+p.Length/2
}

func bounceTheta(coord float32, p *Paddle) float64 {
	off := (coord - p.Pos) / (p.Length / 2)
	if off > 1 {
		off = 1
	} else if off < -1 {
		off = -1
	}
	return float64(off) * MaxBounceAngle
}

func grownSpeed(v Vec2) float32 {
	s := float32(math.Hypot(float64(v.X), float64(v.Y))) * BallSpeedGain
	if s > MaxBallSpeed {
		s = MaxBallSpeed
	}
	return s
}

// goalSide reports which boundary the ball has fully crossed, if any.
func goalSide(b *Ball) (Side, bool) {
	switch {
	case b.Pos.Y+b.Radius < 0:
		return North, true
	case b.Pos.Y-b.Radius > BoardSize:
		return South, true
	case b.Pos.X+b.Radius < 0:
		return West, true
	case b.Pos.X-b.Radius > BoardSize:
		return East, true
	}
	return SideNone, false
}
