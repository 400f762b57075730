package game

// Board geometry and tuning. The board is a BoardSize x BoardSize square
// with (0,0) at the north-west corner; paddles float PaddlePadding in from
// their edge.
const (
	BoardSize     float32 = 10.0
	PaddlePadding float32 = 0.25
	PaddleLength  float32 = 1.0
	PaddleStep    float32 = 0.3
	BallRadius    float32 = 0.125
	ServeSpeed    float32 = 0.125
	BallSpeedGain float32 = 1.02
	MaxBallSpeed  float32 = 0.35
	// Reflection angle is capped at 60 degrees off the paddle normal.
	MaxBounceAngle float64 = 3.14159265358979 / 3

	TickRate = 60
	// Ticks the ball stays frozen at center after a goal (~750ms).
	ServeFreezeTicks uint32 = 45
)

type Phase uint8

const (
	PhaseLobby Phase = iota
	PhaseActive
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseActive:
		return "active"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

type Paddle struct {
	Side   Side
	Pos    float32 // center of the paddle along its edge
	Length float32
}

func NewPaddle(side Side) *Paddle {
	return &Paddle{Side: side, Pos: BoardSize / 2, Length: PaddleLength}
}

// StepPaddle advances a paddle center by one tick of input, clamped so the
// paddle never overlaps a corner. Shared by the server engine and the
// client-side prediction so both compute identical positions.
func StepPaddle(pos float32, axis int8, length float32) float32 {
	if axis > 1 {
		axis = 1
	} else if axis < -1 {
		axis = -1
	}
	pos += PaddleStep * float32(axis)
	min := length / 2
	max := BoardSize - length/2
	if pos < min {
		pos = min
	}
	if pos > max {
		pos = max
	}
	return pos
}

// MatchState is the single authoritative game state. It is owned and
// mutated only by the engine on the server; clients only ever hold copies.
type MatchState struct {
	Tick        uint32
	Ball        Ball
	Paddles     [NumSides]*Paddle
	Scores      [NumSides]uint16
	Phase       Phase
	FreezeTicks uint32
}

func NewMatchState() MatchState {
	return MatchState{Ball: NewBall(), Phase: PhaseLobby}
}

func (st *MatchState) Occupied() [NumSides]bool {
	var occ [NumSides]bool
	for i, p := range st.Paddles {
		occ[i] = p != nil
	}
	return occ
}

// AddPaddle places a fresh paddle on side. No-op if the side already has one.
func (st *MatchState) AddPaddle(side Side) {
	if st.Paddles[side] == nil {
		st.Paddles[side] = NewPaddle(side)
	}
}

// RemovePaddle frees a side, turning its edge back into a plain wall (or an
// open boundary, depending on engine config).
func (st *MatchState) RemovePaddle(side Side) {
	st.Paddles[side] = nil
}

// PaddleView is one side's entry in a snapshot.
type PaddleView struct {
	Occupied bool
	Pos      float32
}

// Snapshot is an immutable flat copy of the match state at one tick. It is
// what goes over the wire to every client.
type Snapshot struct {
	Tick    uint32
	BallPos Vec2
	BallVel Vec2
	Paddles [NumSides]PaddleView
	Scores  [NumSides]uint16
	Phase   Phase
	Frozen  bool
}

// Snapshot captures the current state.
func (st *MatchState) Snapshot() Snapshot {
	s := Snapshot{
		Tick:    st.Tick,
		BallPos: st.Ball.Pos,
		BallVel: st.Ball.Vel,
		Scores:  st.Scores,
		Phase:   st.Phase,
		Frozen:  st.FreezeTicks > 0,
	}
	for i, p := range st.Paddles {
		if p != nil {
			s.Paddles[i] = PaddleView{Occupied: true, Pos: p.Pos}
		}
	}
	return s
}
