package game

// Bot steers an unmanned paddle. It aims at the point where the ball will
// cross its edge, folding one wall bounce into the estimate, and drifts
// back to center when the ball is headed elsewhere.
type Bot struct {
	Side Side
}

// Act returns the axis the bot wants this tick.
func (b *Bot) Act(st *MatchState) int8 {
	p := st.Paddles[b.Side]
	if p == nil || st.Phase != PhaseActive {
		return 0
	}

	target := BoardSize / 2
	if hit, ok := edgeIntersect(st.Ball, b.Side); ok {
		target = hit
	}

	// Deadband of one step so the bot does not jitter around the target.
	if target > p.Pos+PaddleStep {
		return 1
	}
	if target < p.Pos-PaddleStep {
		return -1
	}
	return 0
}

// edgeIntersect projects the ball forward to the given edge, reflecting at
// most once off a perpendicular wall.
func edgeIntersect(ball Ball, side Side) (float32, bool) {
	var t, hit float32
	switch side {
	case North:
		if ball.Vel.Y >= 0 {
			return 0, false
		}
		t = -ball.Pos.Y / ball.Vel.Y
		hit = ball.Pos.X + ball.Vel.X*t
	case South:
		if ball.Vel.Y <= 0 {
			return 0, false
		}
		t = (BoardSize - ball.Pos.Y) / ball.Vel.Y
		hit = ball.Pos.X + ball.Vel.X*t
	case West:
		if ball.Vel.X >= 0 {
			return 0, false
		}
		t = -ball.Pos.X / ball.Vel.X
		hit = ball.Pos.Y + ball.Vel.Y*t
	case East:
		if ball.Vel.X <= 0 {
			return 0, false
		}
		t = (BoardSize - ball.Pos.X) / ball.Vel.X
		hit = ball.Pos.Y + ball.Vel.Y*t
	default:
		return 0, false
	}

	if hit < 0 {
		hit = -hit
	}
	if hit > BoardSize {
		hit = 2*BoardSize - hit
	}
	if hit < 0 || hit > BoardSize {
		return 0, false
	}
	return hit, true
}
