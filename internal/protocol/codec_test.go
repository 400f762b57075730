package protocol

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/uuid"

	"quadropong/internal/game"
)

func TestInputRoundTrip(t *testing.T) {
	in := Input{
		MatchID:  uuid.MustParse("11111111-2222-3333-4444-555555555555"),
		PlayerID: uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"),
		Seq:      0xDEADBEEF,
		Op:       OpMove,
		Axis:     -1,
	}

	buf := EncodeInput(in)
	if len(buf) != InputSize {
		t.Fatalf("encoded length = %d, want %d", len(buf), InputSize)
	}

	got, err := DecodeInput(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != in {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", got, in)
	}

	// decode then re-encode must reproduce identical bytes
	if !bytes.Equal(EncodeInput(got), buf) {
		t.Fatal("re-encode produced different bytes")
	}
}

func TestInputWireLayout(t *testing.T) {
	in := Input{Seq: 0x01020304, Op: OpReady, Axis: 1}
	buf := EncodeInput(in)

	if buf[0] != byte(Version) {
		t.Fatalf("version byte = %d", buf[0])
	}
	if buf[33] != 0x01 || buf[34] != 0x02 || buf[35] != 0x03 || buf[36] != 0x04 {
		t.Fatalf("sequence not big-endian: % x", buf[33:37])
	}
	if buf[37] != byte(OpReady) {
		t.Fatalf("op byte = %d", buf[37])
	}
	if int8(buf[38]) != 1 {
		t.Fatalf("axis byte = %d", buf[38])
	}
}

func TestDecodeInputRejectsMalformed(t *testing.T) {
	buf := EncodeInput(Input{})

	if _, err := DecodeInput(buf[:InputSize-1]); !errors.Is(err, ErrBadLength) {
		t.Fatalf("short buffer: err = %v", err)
	}
	if _, err := DecodeInput(append(buf, 0)); !errors.Is(err, ErrBadLength) {
		t.Fatalf("long buffer: err = %v", err)
	}

	bad := EncodeInput(Input{})
	bad[0] = Version + 1
	if _, err := DecodeInput(bad); !errors.Is(err, ErrBadVersion) {
		t.Fatalf("wrong version: err = %v", err)
	}
}

func sampleSnapshot() game.Snapshot {
	return game.Snapshot{
		Tick:    777,
		BallPos: game.Vec2{X: 1.25, Y: 8.5},
		BallVel: game.Vec2{X: -0.125, Y: 0.25},
		Paddles: [game.NumSides]game.PaddleView{
			{Occupied: true, Pos: 4.5},
			{Occupied: true, Pos: 5.25},
			{},
			{Occupied: true, Pos: 9.5},
		},
		Scores: [game.NumSides]uint16{3, 0, 7, 1},
		Phase:  game.PhaseActive,
		Frozen: true,
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	snap := sampleSnapshot()

	buf := EncodeSnapshot(snap)
	if len(buf) != SnapshotSize {
		t.Fatalf("encoded length = %d, want %d", len(buf), SnapshotSize)
	}

	got, err := DecodeSnapshot(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != snap {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", got, snap)
	}
	if !bytes.Equal(EncodeSnapshot(got), buf) {
		t.Fatal("re-encode produced different bytes")
	}
}

func TestSnapshotEncodingIsStable(t *testing.T) {
	a := EncodeSnapshot(sampleSnapshot())
	b := EncodeSnapshot(sampleSnapshot())
	if !bytes.Equal(a, b) {
		t.Fatal("identical snapshots encoded differently")
	}
}

func TestDecodeSnapshotRejectsMalformed(t *testing.T) {
	buf := EncodeSnapshot(sampleSnapshot())

	if _, err := DecodeSnapshot(buf[:10]); !errors.Is(err, ErrBadLength) {
		t.Fatalf("short buffer: err = %v", err)
	}

	buf[0] = Version + 9
	if _, err := DecodeSnapshot(buf); !errors.Is(err, ErrBadVersion) {
		t.Fatalf("wrong version: err = %v", err)
	}
}
