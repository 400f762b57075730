// Package session owns the four player slots of one match: who holds which
// side, where their datagrams come from, and which of their inputs is the
// freshest. It is the only state shared between the network goroutines and
// the tick loop, so every method holds the lock briefly and never blocks.
package session

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"quadropong/internal/game"
)

var ErrSlotsFull = errors.New("session: all four sides are occupied")

// Timeout after which a silent slot is evicted.
const DefaultTimeout = 2 * time.Second

type Slot struct {
	Side     game.Side
	PlayerID uuid.UUID
	Name     string
	Addr     *net.UDPAddr
	JoinedAt time.Time
	LastSeen time.Time
	Ready    bool
	IsBot    bool

	lastSeq uint32
	hasSeq  bool
	axis    int8
}

type Manager struct {
	mu      sync.Mutex
	slots   [game.NumSides]*Slot
	timeout time.Duration
}

func NewManager(timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Manager{timeout: timeout}
}

// Join assigns the lowest-index free side. It returns ErrSlotsFull when all
// four are taken; existing slots are never disturbed.
func (m *Manager) Join(playerID uuid.UUID, name string, isBot bool, now time.Time) (game.Side, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range game.Sides {
		if m.slots[s] == nil {
			m.slots[s] = &Slot{
				Side:     s,
				PlayerID: playerID,
				Name:     name,
				JoinedAt: now,
				LastSeen: now,
				Ready:    isBot, // bots are always ready
				IsBot:    isBot,
			}
			return s, nil
		}
	}
	return game.SideNone, ErrSlotsFull
}

// Bind attaches a network address to the player's slot, typically on the
// first UDP datagram after the REST join.
func (m *Manager) Bind(playerID uuid.UUID, addr *net.UDPAddr, now time.Time) (game.Side, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	slot := m.byPlayer(playerID)
	if slot == nil {
		return game.SideNone, false
	}
	slot.Addr = addr
	slot.LastSeen = now
	return slot.Side, true
}

// RecordInput accepts an input only when its sequence number is serially
// newer than the slot's last accepted one. Duplicates and reordered
// datagrams are dropped; signed serial comparison keeps a wrapped counter
// advancing.
func (m *Manager) RecordInput(playerID uuid.UUID, seq uint32, axis int8, now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	slot := m.byPlayer(playerID)
	if slot == nil {
		return false
	}
	if slot.hasSeq && int32(seq-slot.lastSeq) <= 0 {
		return false
	}
	slot.lastSeq = seq
	slot.hasSeq = true
	if axis > 1 {
		axis = 1
	} else if axis < -1 {
		axis = -1
	}
	slot.axis = axis
	slot.LastSeen = now
	return true
}

// Touch refreshes a slot's liveness without consuming an input, for pings.
func (m *Manager) Touch(playerID uuid.UUID, now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	slot := m.byPlayer(playerID)
	if slot == nil {
		return false
	}
	slot.LastSeen = now
	return true
}

// SetReady toggles the slot's ready flag and reports the new value.
func (m *Manager) SetReady(playerID uuid.UUID, now time.Time) (bool, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	slot := m.byPlayer(playerID)
	if slot == nil {
		return false, false
	}
	slot.Ready = !slot.Ready
	slot.LastSeen = now
	return slot.Ready, true
}

// Leave frees the player's side immediately.
func (m *Manager) Leave(playerID uuid.UUID) (game.Side, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	slot := m.byPlayer(playerID)
	if slot == nil {
		return game.SideNone, false
	}
	m.slots[slot.Side] = nil
	return slot.Side, true
}

// Housekeeping evicts slots that have been silent past the timeout and
// returns the freed sides. Bots cannot time out.
func (m *Manager) Housekeeping(now time.Time) []game.Side {
	m.mu.Lock()
	defer m.mu.Unlock()

	var evicted []game.Side
	for _, s := range game.Sides {
		slot := m.slots[s]
		if slot == nil || slot.IsBot {
			continue
		}
		if now.Sub(slot.LastSeen) > m.timeout {
			m.slots[s] = nil
			evicted = append(evicted, s)
		}
	}
	return evicted
}

// Inputs copies the latest axis per side for the engine. Empty sides read
// as zero.
func (m *Manager) Inputs() game.Inputs {
	m.mu.Lock()
	defer m.mu.Unlock()

	var in game.Inputs
	for _, s := range game.Sides {
		if slot := m.slots[s]; slot != nil {
			in[s] = slot.axis
		}
	}
	return in
}

// SetAxis overwrites a side's latest axis directly, bypassing sequencing.
// Used for bot slots, which live in-process.
func (m *Manager) SetAxis(side game.Side, axis int8) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if slot := m.slots[side]; slot != nil {
		slot.axis = axis
	}
}

// Addrs lists the bound addresses for snapshot fan-out.
func (m *Manager) Addrs() []*net.UDPAddr {
	m.mu.Lock()
	defer m.mu.Unlock()

	var addrs []*net.UDPAddr
	for _, slot := range m.slots {
		if slot != nil && slot.Addr != nil {
			addrs = append(addrs, slot.Addr)
		}
	}
	return addrs
}

func (m *Manager) Occupied() [game.NumSides]bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	var occ [game.NumSides]bool
	for i, slot := range m.slots {
		occ[i] = slot != nil
	}
	return occ
}

// Count returns occupied slots and how many of them are human.
func (m *Manager) Count() (total, humans int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, slot := range m.slots {
		if slot != nil {
			total++
			if !slot.IsBot {
				humans++
			}
		}
	}
	return total, humans
}

// AllReady reports whether every occupied slot has readied up.
func (m *Manager) AllReady() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	any := false
	for _, slot := range m.slots {
		if slot == nil {
			continue
		}
		any = true
		if !slot.Ready {
			return false
		}
	}
	return any
}

// Slots returns copies of the occupied slots, side order.
func (m *Manager) Slots() []Slot {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Slot
	for _, slot := range m.slots {
		if slot != nil {
			out = append(out, *slot)
		}
	}
	return out
}

// SideOf resolves a player id to its side.
func (m *Manager) SideOf(playerID uuid.UUID) (game.Side, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if slot := m.byPlayer(playerID); slot != nil {
		return slot.Side, true
	}
	return game.SideNone, false
}

// byPlayer is called with the lock held.
func (m *Manager) byPlayer(playerID uuid.UUID) *Slot {
	for _, slot := range m.slots {
		if slot != nil && slot.PlayerID == playerID {
			return slot
		}
	}
	return nil
}
