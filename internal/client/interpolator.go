package client

import (
	"time"

	"quadropong/internal/game"
)

// Past this fraction of a tick interval the interpolator stops
// extrapolating and holds the latest known positions. One missed snapshot
// stays smooth; a longer gap freezes rather than guessing.
const maxLerpFraction = 1.5

// Interpolator renders the ball and remote paddles between the last two
// snapshots so the picture moves at render rate, not at snapshot arrival
// rate.
type Interpolator struct {
	prev, next game.Snapshot
	hasPrev    bool
	hasNext    bool
	prevAt     time.Time
	nextAt     time.Time
	interval   time.Duration
}

func NewInterpolator(interval time.Duration) *Interpolator {
	if interval <= 0 {
		interval = time.Second / game.TickRate
	}
	return &Interpolator{interval: interval}
}

// Push records a newly arrived snapshot.
func (ip *Interpolator) Push(s game.Snapshot, now time.Time) {
	if ip.hasNext {
		ip.prev = ip.next
		ip.prevAt = ip.nextAt
		ip.hasPrev = true
	}
	ip.next = s
	ip.hasNext = true
	ip.nextAt = now
}

// At returns the render state for time now. Scores and phase always come
// from the newest snapshot; only positions are blended.
func (ip *Interpolator) At(now time.Time) (game.Snapshot, bool) {
	if !ip.hasNext {
		return game.Snapshot{}, false
	}
	if !ip.hasPrev {
		return ip.next, true
	}

	// Blend by time elapsed since the older snapshot arrived: halfway
	// between the two arrivals renders the halfway point.
	f := float32(now.Sub(ip.prevAt)) / float32(ip.interval)
	if f < 0 {
		f = 0
	}
	if f > maxLerpFraction {
		return ip.next, true
	}

	out := ip.next
	out.BallPos = lerpVec(ip.prev.BallPos, ip.next.BallPos, f)
	for i := range out.Paddles {
		if ip.prev.Paddles[i].Occupied && ip.next.Paddles[i].Occupied {
			out.Paddles[i].Pos = lerp(ip.prev.Paddles[i].Pos, ip.next.Paddles[i].Pos, f)
		}
	}
	return out, true
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

func lerpVec(a, b game.Vec2, t float32) game.Vec2 {
	return game.Vec2{X: lerp(a.X, b.X, t), Y: lerp(a.Y, b.Y, t)}
}
