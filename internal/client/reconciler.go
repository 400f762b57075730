package client

import "quadropong/internal/game"

// How far prediction may drift from the server before the local paddle
// snaps to the authoritative position. Small disagreements are normal
// confirmation lag and snapping on them would just look like jitter.
const snapTolerance = 0.5

// Reconciler keeps the player's own paddle responsive: inputs move it
// immediately, and authoritative snapshots overwrite everything else
// unconditionally while only correcting the own paddle past the tolerance.
type Reconciler struct {
	side game.Side

	predicted float32
	hasLocal  bool

	latest   game.Snapshot
	lastTick uint32
	applied  bool
}

func NewReconciler(side game.Side) *Reconciler {
	return &Reconciler{side: side, predicted: game.BoardSize / 2}
}

// ApplyInput advances the predicted paddle with the same step function the
// server runs, so agreement is exact when no packets are lost.
func (r *Reconciler) ApplyInput(axis int8) {
	r.predicted = game.StepPaddle(r.predicted, axis, game.PaddleLength)
	r.hasLocal = true
}

// ApplySnapshot folds an authoritative snapshot in. Stale ticks are
// discarded; returns whether the snapshot was applied.
func (r *Reconciler) ApplySnapshot(s game.Snapshot) bool {
	if r.applied && int32(s.Tick-r.lastTick) <= 0 {
		return false
	}
	r.lastTick = s.Tick
	r.applied = true
	r.latest = s

	own := s.Paddles[r.side]
	if !own.Occupied {
		return true
	}
	diff := r.predicted - own.Pos
	if !r.hasLocal || diff > snapTolerance || diff < -snapTolerance {
		r.predicted = own.Pos
		r.hasLocal = true
	}
	return true
}

// PaddlePos is the position to render for the player's own paddle.
func (r *Reconciler) PaddlePos() float32 {
	return r.predicted
}

// Latest returns the newest applied snapshot.
func (r *Reconciler) Latest() (game.Snapshot, bool) {
	return r.latest, r.applied
}

func (r *Reconciler) Side() game.Side {
	return r.side
}
