package game

import (
	"reflect"
	"testing"

	"golang.org/x/exp/rand"
)

func activeState(sides ...Side) MatchState {
	st := NewMatchState()
	st.Phase = PhaseActive
	for _, s := range sides {
		st.AddPaddle(s)
	}
	return st
}

func TestStepPaddleClamps(t *testing.T) {
	pos := StepPaddle(5.0, 1, PaddleLength)
	if pos != 5.0+PaddleStep {
		t.Fatalf("expected %v, got %v", 5.0+PaddleStep, pos)
	}
	pos = StepPaddle(pos, -1, PaddleLength)
	if pos != 5.0 {
		t.Fatalf("expected 5.0, got %v", pos)
	}

	min := PaddleLength / 2
	if got := StepPaddle(min, -1, PaddleLength); got != min {
		t.Fatalf("paddle slid past the low corner: %v", got)
	}
	max := BoardSize - PaddleLength/2
	if got := StepPaddle(max, 1, PaddleLength); got != max {
		t.Fatalf("paddle slid past the high corner: %v", got)
	}

	// out-of-range axis values are clamped, not rejected
	if got := StepPaddle(5.0, 7, PaddleLength); got != 5.0+PaddleStep {
		t.Fatalf("oversized axis not clamped: %v", got)
	}
}

func TestAdvanceDeterministic(t *testing.T) {
	run := func() MatchState {
		e := NewEngine(Config{Seed: 99, WinScore: 50})
		st := activeState(North, South, East, West)
		st.Ball = Ball{Pos: Vec2{X: 3, Y: 4}, Vel: Vec2{X: 0.09, Y: -0.11}, Radius: BallRadius, LastTouchedBy: SideNone}
		for i := 0; i < 500; i++ {
			in := Inputs{int8(i % 3 - 1), int8((i + 1) % 3 - 1), 0, 1}
			e.Advance(&st, in)
		}
		return st
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("identical runs diverged:\n%#v\n%#v", a, b)
	}
}

func TestPaddleBounceSpeedOnlyGrows(t *testing.T) {
	e := NewEngine(Config{Seed: 1, WinScore: 50})
	st := activeState(North)

	speed := func(v Vec2) float64 {
		return float64(v.X)*float64(v.X) + float64(v.Y)*float64(v.Y)
	}

	mag := float32(0.2)
	for i := 0; i < 40; i++ {
		// drop the ball just above the north paddle, heading in
		st.Ball.Pos = Vec2{X: st.Paddles[North].Pos, Y: 0.45}
		st.Ball.Vel = Vec2{X: 0, Y: -mag}
		before := speed(st.Ball.Vel)
		e.Advance(&st, Inputs{})
		if st.Ball.Vel.Y <= 0 {
			t.Fatalf("bounce %d did not reflect the ball: vel %v", i, st.Ball.Vel)
		}
		after := speed(st.Ball.Vel)
		if after < before-1e-9 {
			t.Fatalf("bounce %d shrank the speed: %v -> %v", i, before, after)
		}
		if after > float64(MaxBallSpeed)*float64(MaxBallSpeed)+1e-6 {
			t.Fatalf("bounce %d exceeded the speed cap: %v", i, after)
		}
		mag = st.Ball.Vel.Y
	}
	if float64(mag) < float64(MaxBallSpeed)-1e-3 {
		t.Fatalf("speed never reached the cap: %v", mag)
	}
}

func TestOpenWallScoringFiresOnce(t *testing.T) {
	// three players, the fourth side open; ball driven at the empty west edge
	e := NewEngine(Config{Seed: 5, WinScore: 50, OpenWalls: true})
	st := activeState(North, South, East)
	st.Ball = Ball{Pos: Vec2{X: 0.3, Y: 5}, Vel: Vec2{X: -0.3, Y: 0}, Radius: BallRadius, LastTouchedBy: SideNone}

	for i := 0; i < 5 && st.Scores[North] == 0; i++ {
		e.Advance(&st, Inputs{})
	}

	want := [NumSides]uint16{North: 1, South: 1, East: 1, West: 0}
	if st.Scores != want {
		t.Fatalf("free-for-all scores = %v, want %v", st.Scores, want)
	}
	if st.Ball.Pos.X != BoardSize/2 || st.Ball.Pos.Y != BoardSize/2 {
		t.Fatalf("ball not reset to center: %v", st.Ball.Pos)
	}
	if st.FreezeTicks == 0 {
		t.Fatal("expected a serve freeze after the goal")
	}
}

func TestClosedWallReflects(t *testing.T) {
	e := NewEngine(Config{Seed: 5, WinScore: 50})
	st := activeState(North, South, East) // west unoccupied, walls closed
	st.Ball = Ball{Pos: Vec2{X: 0.3, Y: 5}, Vel: Vec2{X: -0.3, Y: 0}, Radius: BallRadius, LastTouchedBy: SideNone}

	e.Advance(&st, Inputs{})

	if st.Ball.Vel.X <= 0 {
		t.Fatalf("ball passed through a closed wall, vel %v", st.Ball.Vel)
	}
	if st.Scores != ([NumSides]uint16{}) {
		t.Fatalf("closed wall produced a score: %v", st.Scores)
	}
}

func TestCornerReflectsBothComponents(t *testing.T) {
	e := NewEngine(Config{Seed: 5, WinScore: 50})
	st := activeState(South, East) // north-west corner is all wall
	st.Ball = Ball{Pos: Vec2{X: 0.3, Y: 0.3}, Vel: Vec2{X: -0.25, Y: -0.25}, Radius: BallRadius, LastTouchedBy: SideNone}

	e.Advance(&st, Inputs{})

	if st.Ball.Vel.X <= 0 || st.Ball.Vel.Y <= 0 {
		t.Fatalf("corner hit should reflect both components, vel %v", st.Ball.Vel)
	}
}

func TestServeFreezeHoldsBall(t *testing.T) {
	e := NewEngine(Config{Seed: 5, WinScore: 50})
	st := activeState(North, South)
	st.FreezeTicks = 3
	st.Ball.Pos = Vec2{X: BoardSize / 2, Y: BoardSize / 2}

	for i := 0; i < 3; i++ {
		e.Advance(&st, Inputs{})
		if st.Ball.Pos != (Vec2{X: BoardSize / 2, Y: BoardSize / 2}) {
			t.Fatalf("ball moved during freeze tick %d: %v", i, st.Ball.Pos)
		}
	}
	e.Advance(&st, Inputs{})
	if st.Ball.Pos == (Vec2{X: BoardSize / 2, Y: BoardSize / 2}) {
		t.Fatal("ball still frozen after the freeze window")
	}
}

func TestWinScoreFinishesMatch(t *testing.T) {
	e := NewEngine(Config{Seed: 5, WinScore: 3, OpenWalls: true})
	st := activeState(North, South)

	goals := 0
	for goals < 3 {
		st.FreezeTicks = 0
		st.Ball = Ball{Pos: Vec2{X: 0.3, Y: 5}, Vel: Vec2{X: -0.3, Y: 0}, Radius: BallRadius, LastTouchedBy: SideNone}
		before := st.Scores[North]
		for st.Scores[North] == before && st.Phase == PhaseActive {
			e.Advance(&st, Inputs{})
		}
		goals++
	}

	if st.Phase != PhaseFinished {
		t.Fatalf("phase = %v after reaching the win score", st.Phase)
	}
	if st.Scores[North] != 3 {
		t.Fatalf("north score = %d, want 3", st.Scores[North])
	}

	// no physics after the match ends
	tick, pos := st.Tick, st.Ball.Pos
	e.Advance(&st, Inputs{North: 1})
	if st.Tick != tick || st.Ball.Pos != pos {
		t.Fatal("state changed after the match finished")
	}
}

func TestBallResetReproducible(t *testing.T) {
	a := NewBall()
	b := NewBall()
	rngA := rand.New(rand.NewSource(1234))
	rngB := rand.New(rand.NewSource(1234))
	for i := 0; i < 20; i++ {
		a.Reset(rngA)
		b.Reset(rngB)
		if a.Vel != b.Vel {
			t.Fatalf("reset %d diverged: %v vs %v", i, a.Vel, b.Vel)
		}
	}
}

func TestLobbyTicksWithoutPhysics(t *testing.T) {
	e := NewEngine(Config{Seed: 5, WinScore: 50})
	st := NewMatchState()
	st.AddPaddle(North)
	pos := st.Ball.Pos

	e.Advance(&st, Inputs{North: 1})

	if st.Tick != 1 {
		t.Fatalf("tick = %d, want 1", st.Tick)
	}
	if st.Ball.Pos != pos {
		t.Fatal("ball moved while the match was in the lobby")
	}
	if st.Paddles[North].Pos != BoardSize/2 {
		t.Fatal("paddle moved while the match was in the lobby")
	}
}
