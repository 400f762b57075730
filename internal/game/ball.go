package game

import "golang.org/x/exp/rand"

type Vec2 struct {
	X float32
	Y float32
}

type Ball struct {
	Pos           Vec2
	Vel           Vec2
	Radius        float32
	LastTouchedBy Side
}

func NewBall() Ball {
	return Ball{
		Pos:           Vec2{X: BoardSize / 2, Y: BoardSize / 2},
		Vel:           Vec2{X: ServeSpeed * 0.6, Y: ServeSpeed * 0.8},
		Radius:        BallRadius,
		LastTouchedBy: SideNone,
	}
}

// Reset recenters the ball and serves it along one of the four axes picked
// from rng. A seeded rng makes the serve direction reproducible.
func (b *Ball) Reset(rng *rand.Rand) {
	b.Pos = Vec2{X: BoardSize / 2, Y: BoardSize / 2}
	b.LastTouchedBy = SideNone

	switch rng.Intn(NumSides) {
	case 0:
		b.Vel = Vec2{X: 0, Y: -ServeSpeed}
	case 1:
		b.Vel = Vec2{X: 0, Y: ServeSpeed}
	case 2:
		b.Vel = Vec2{X: ServeSpeed, Y: 0}
	case 3:
		b.Vel = Vec2{X: -ServeSpeed, Y: 0}
	}
}
