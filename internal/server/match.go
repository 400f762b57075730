package server

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"quadropong/internal/game"
	"quadropong/internal/protocol"
	"quadropong/internal/session"
)

// How long a finished match keeps broadcasting its final snapshot before
// the loops tear down.
const finishGrace = 3 * time.Second

// Minimum players before a lobby can go active.
const minPlayers = 2

// How long an empty lobby waits for a first player before tearing down.
const lobbyIdleGrace = time.Minute

// Match owns one game: its authoritative state, engine, session slots and
// snapshot cell. The state is mutated only by the tick loop; Info reads it
// under the same lock.
type Match struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu     sync.Mutex
	state  game.MatchState
	bots   map[game.Side]*game.Bot
	engine *game.Engine
	sess   *session.Manager
	cell   *snapshotCell
}

type MatchConfig struct {
	WinScore  uint16
	OpenWalls bool
	Policy    game.ScorePolicy
	Timeout   time.Duration
	Seed      uint64 // 0 derives a per-match seed from the clock
}

func newMatch(cfg MatchConfig) *Match {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Match{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		state:     game.NewMatchState(),
		bots:      make(map[game.Side]*game.Bot),
		engine: game.NewEngine(game.Config{
			WinScore:  cfg.WinScore,
			OpenWalls: cfg.OpenWalls,
			Policy:    cfg.Policy,
			Seed:      seed,
		}),
		sess: session.NewManager(cfg.Timeout),
		cell: newSnapshotCell(),
	}
}

// Join reserves a side for a new player. Called from the REST handlers.
func (m *Match) Join(name string, isBot bool) (protocol.PlayerInfo, error) {
	id := uuid.New()
	now := time.Now()
	side, err := m.sess.Join(id, name, isBot, now)
	if err != nil {
		return protocol.PlayerInfo{}, err
	}
	if isBot {
		m.mu.Lock()
		m.bots[side] = &game.Bot{Side: side}
		m.mu.Unlock()
	}
	slog.Info("player joined", "match", m.ID, "player", id, "side", side, "bot", isBot)
	return protocol.PlayerInfo{
		ID:       id,
		Name:     name,
		Side:     side.String(),
		IsBot:    isBot,
		JoinedAt: now,
	}, nil
}

// HandleInput routes one decoded datagram. Runs on the receive goroutine;
// everything it touches is the session's short-lock slot table.
func (m *Match) HandleInput(in protocol.Input, addr *net.UDPAddr, now time.Time) {
	switch in.Op {
	case protocol.OpJoin:
		if side, ok := m.sess.Bind(in.PlayerID, addr, now); ok {
			slog.Info("player bound", "match", m.ID, "player", in.PlayerID, "side", side, "addr", addr)
		}
	case protocol.OpMove:
		m.sess.RecordInput(in.PlayerID, in.Seq, in.Axis, now)
	case protocol.OpReady:
		if ready, ok := m.sess.SetReady(in.PlayerID, now); ok {
			slog.Info("ready toggled", "match", m.ID, "player", in.PlayerID, "ready", ready)
		}
	case protocol.OpLeave:
		if side, ok := m.sess.Leave(in.PlayerID); ok {
			slog.Info("player left", "match", m.ID, "player", in.PlayerID, "side", side)
		}
	case protocol.OpPing:
		m.sess.Touch(in.PlayerID, now)
	default:
		slog.Debug("unhandled op", "match", m.ID, "op", in.Op)
	}
}

// Run drives the simulation at a fixed rate with an accumulator, so a
// stalled wall-clock frame is caught up with extra steps instead of a
// longer one. Returns when the context ends or the match has been finished
// for finishGrace.
func (m *Match) Run(ctx context.Context) {
	const tick = time.Second / game.TickRate
	ticker := time.NewTicker(tick / 4)
	defer ticker.Stop()

	last := time.Now()
	var acc time.Duration
	var finishedAt time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			acc += now.Sub(last)
			last = now
			for acc >= tick {
				acc -= tick
				m.step(now)
			}
			if m.abandoned(now) {
				slog.Info("match abandoned", "match", m.ID)
				return
			}
			if m.Phase() == game.PhaseFinished {
				if finishedAt.IsZero() {
					finishedAt = now
					slog.Info("match finished", "match", m.ID)
				} else if now.Sub(finishedAt) > finishGrace {
					return
				}
			}
		}
	}
}

// step runs exactly one simulation tick and publishes the snapshot.
func (m *Match) step(now time.Time) {
	for _, side := range m.sess.Housekeeping(now) {
		slog.Info("slot timed out", "match", m.ID, "side", side)
	}

	occ := m.sess.Occupied()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Keep paddle occupancy in lockstep with the session slots, so joins,
	// leaves and evictions all land here on the next tick.
	for _, side := range game.Sides {
		switch {
		case occ[side] && m.state.Paddles[side] == nil:
			m.state.AddPaddle(side)
		case !occ[side] && m.state.Paddles[side] != nil:
			m.state.RemovePaddle(side)
			delete(m.bots, side)
		}
	}

	if m.state.Phase == game.PhaseLobby {
		if total, _ := m.sess.Count(); total >= minPlayers && m.sess.AllReady() {
			m.engine.Start(&m.state)
			slog.Info("match started", "match", m.ID)
		}
	}

	for side, bot := range m.bots {
		m.sess.SetAxis(side, bot.Act(&m.state))
	}

	m.engine.Advance(&m.state, m.sess.Inputs())
	m.cell.publish(m.state.Snapshot())
}

// broadcast fans each published snapshot out to every bound address. Send
// failures are logged and superseded by the next tick's snapshot.
func (m *Match) broadcast(ctx context.Context, conn *net.UDPConn) {
	for {
		snap, ok := m.cell.wait(ctx)
		if !ok {
			return
		}
		buf := protocol.EncodeSnapshot(snap)
		for _, addr := range m.sess.Addrs() {
			if _, err := conn.WriteToUDP(buf, addr); err != nil {
				slog.Debug("snapshot send failed", "match", m.ID, "addr", addr, "error", err)
			}
		}
	}
}

// abandoned reports whether every slot is gone and the match is past the
// point of waiting for new players. A fresh lobby gets lobbyIdleGrace to
// attract its first join; once play has begun, an empty match is dead.
func (m *Match) abandoned(now time.Time) bool {
	if total, _ := m.sess.Count(); total > 0 {
		return false
	}
	if m.Phase() == game.PhaseLobby {
		return now.Sub(m.CreatedAt) > lobbyIdleGrace
	}
	return true
}

func (m *Match) Phase() game.Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Phase
}

// Snapshot returns the latest published state, if any tick has run.
func (m *Match) Snapshot() (game.Snapshot, bool) {
	return m.cell.latest()
}

// Info assembles the REST view of the match.
func (m *Match) Info() protocol.GameInfo {
	m.mu.Lock()
	phase := m.state.Phase
	scores := m.state.Scores
	m.mu.Unlock()

	info := protocol.GameInfo{
		ID:        m.ID,
		State:     phase.String(),
		CreatedAt: m.CreatedAt,
		Players:   []protocol.PlayerInfo{},
	}
	for _, slot := range m.sess.Slots() {
		info.Players = append(info.Players, protocol.PlayerInfo{
			ID:       slot.PlayerID,
			Name:     slot.Name,
			Side:     slot.Side.String(),
			Score:    scores[slot.Side],
			IsBot:    slot.IsBot,
			JoinedAt: slot.JoinedAt,
		})
	}
	return info
}
