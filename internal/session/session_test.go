package session

import (
	"errors"
	"math"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"

	"quadropong/internal/game"
)

func TestJoinAssignsLowestFreeSide(t *testing.T) {
	m := NewManager(0)
	now := time.Now()

	var got []game.Side
	for i := 0; i < game.NumSides; i++ {
		side, err := m.Join(uuid.New(), "p", false, now)
		if err != nil {
			t.Fatalf("join %d: %v", i, err)
		}
		got = append(got, side)
	}

	want := []game.Side{game.North, game.South, game.East, game.West}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("join order = %v, want %v", got, want)
		}
	}
}

func TestFifthJoinRejected(t *testing.T) {
	m := NewManager(0)
	now := time.Now()
	ids := make([]uuid.UUID, game.NumSides)
	for i := range ids {
		ids[i] = uuid.New()
		if _, err := m.Join(ids[i], "p", false, now); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := m.Join(uuid.New(), "late", false, now); !errors.Is(err, ErrSlotsFull) {
		t.Fatalf("err = %v, want ErrSlotsFull", err)
	}

	// existing slots untouched
	for i, id := range ids {
		if _, ok := m.SideOf(id); !ok {
			t.Fatalf("slot %d lost after rejected join", i)
		}
	}
}

func TestRecordInputDropsStaleSequences(t *testing.T) {
	m := NewManager(0)
	now := time.Now()
	id := uuid.New()
	if _, err := m.Join(id, "p", false, now); err != nil {
		t.Fatal(err)
	}

	deliveries := []struct {
		seq  uint32
		want bool
	}{
		{5, true},
		{3, false},
		{7, true},
		{7, false},
	}
	for _, d := range deliveries {
		if got := m.RecordInput(id, d.seq, 1, now); got != d.want {
			t.Fatalf("seq %d accepted=%v, want %v", d.seq, got, d.want)
		}
	}
}

func TestRecordInputSurvivesSequenceWrap(t *testing.T) {
	m := NewManager(0)
	now := time.Now()
	id := uuid.New()
	if _, err := m.Join(id, "p", false, now); err != nil {
		t.Fatal(err)
	}

	if !m.RecordInput(id, math.MaxUint32-1, 1, now) {
		t.Fatal("pre-wrap input dropped")
	}
	if !m.RecordInput(id, 2, 1, now) {
		t.Fatal("post-wrap input dropped")
	}
	if m.RecordInput(id, math.MaxUint32, 1, now) {
		t.Fatal("stale pre-wrap input accepted after the wrap")
	}
}

func TestRecordInputClampsAxis(t *testing.T) {
	m := NewManager(0)
	now := time.Now()
	id := uuid.New()
	side, err := m.Join(id, "p", false, now)
	if err != nil {
		t.Fatal(err)
	}

	m.RecordInput(id, 1, 120, now)
	if in := m.Inputs(); in[side] != 1 {
		t.Fatalf("axis = %d, want clamped 1", in[side])
	}
}

func TestHousekeepingEvictsSilentSlots(t *testing.T) {
	m := NewManager(2 * time.Second)
	start := time.Now()
	quiet := uuid.New()
	chatty := uuid.New()
	bot := uuid.New()

	quietSide, _ := m.Join(quiet, "quiet", false, start)
	if _, err := m.Join(chatty, "chatty", false, start); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Join(bot, "bot", true, start); err != nil {
		t.Fatal(err)
	}

	later := start.Add(3 * time.Second)
	m.Touch(chatty, later)

	evicted := m.Housekeeping(later)
	if len(evicted) != 1 || evicted[0] != quietSide {
		t.Fatalf("evicted = %v, want [%v]", evicted, quietSide)
	}
	if _, ok := m.SideOf(quiet); ok {
		t.Fatal("evicted player still has a slot")
	}
	if _, ok := m.SideOf(chatty); !ok {
		t.Fatal("live player was evicted")
	}
	if _, ok := m.SideOf(bot); !ok {
		t.Fatal("bots must not time out")
	}
}

func TestLeaveFreesSideForReuse(t *testing.T) {
	m := NewManager(0)
	now := time.Now()
	id := uuid.New()
	side, err := m.Join(id, "p", false, now)
	if err != nil {
		t.Fatal(err)
	}

	if gone, ok := m.Leave(id); !ok || gone != side {
		t.Fatalf("leave = (%v, %v)", gone, ok)
	}
	if again, err := m.Join(uuid.New(), "next", false, now); err != nil || again != side {
		t.Fatalf("freed side not reassigned: (%v, %v)", again, err)
	}
}

func TestBindAndAddrs(t *testing.T) {
	m := NewManager(0)
	now := time.Now()
	id := uuid.New()
	if _, err := m.Join(id, "p", false, now); err != nil {
		t.Fatal(err)
	}

	if addrs := m.Addrs(); len(addrs) != 0 {
		t.Fatalf("unbound slot has an address: %v", addrs)
	}

	addr := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 40000}
	if _, ok := m.Bind(id, addr, now); !ok {
		t.Fatal("bind failed")
	}
	addrs := m.Addrs()
	if len(addrs) != 1 || addrs[0] != addr {
		t.Fatalf("addrs = %v", addrs)
	}
}

func TestAllReadyGatesOnEveryHuman(t *testing.T) {
	m := NewManager(0)
	now := time.Now()
	a, b := uuid.New(), uuid.New()
	m.Join(a, "a", false, now)
	m.Join(b, "b", false, now)

	if m.AllReady() {
		t.Fatal("nobody has readied up yet")
	}
	m.SetReady(a, now)
	if m.AllReady() {
		t.Fatal("one player still not ready")
	}
	m.SetReady(b, now)
	if !m.AllReady() {
		t.Fatal("both ready, AllReady false")
	}

	// toggling off flips the gate back
	m.SetReady(b, now)
	if m.AllReady() {
		t.Fatal("unready toggle ignored")
	}
}
