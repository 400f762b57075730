package protocol

import (
	"encoding/binary"
	"math"

	"quadropong/internal/game"
)

// Snapshot datagram layout, 53 bytes:
//
//	[0]     version
//	[1:5]   tick
//	[5:21]  ball x, y, vx, vy (float32 each)
//	[21:41] four paddles, {occupied byte, position float32} by side order
//	[41:49] four scores (uint16 each)
//	[49]    phase
//	[50]    serve-freeze flag
//	[51:53] reserved, zero
const SnapshotSize = 53

func EncodeSnapshot(s game.Snapshot) []byte {
	buf := make([]byte, SnapshotSize)
	buf[0] = Version
	binary.BigEndian.PutUint32(buf[1:5], s.Tick)
	putFloat32(buf[5:9], s.BallPos.X)
	putFloat32(buf[9:13], s.BallPos.Y)
	putFloat32(buf[13:17], s.BallVel.X)
	putFloat32(buf[17:21], s.BallVel.Y)
	for i, p := range s.Paddles {
		off := 21 + i*5
		if p.Occupied {
			buf[off] = 1
		}
		putFloat32(buf[off+1:off+5], p.Pos)
	}
	for i, sc := range s.Scores {
		binary.BigEndian.PutUint16(buf[41+i*2:43+i*2], sc)
	}
	buf[49] = byte(s.Phase)
	if s.Frozen {
		buf[50] = 1
	}
	return buf
}

func DecodeSnapshot(buf []byte) (game.Snapshot, error) {
	var s game.Snapshot
	if len(buf) != SnapshotSize {
		return s, ErrBadLength
	}
	if buf[0] != Version {
		return s, ErrBadVersion
	}
	s.Tick = binary.BigEndian.Uint32(buf[1:5])
	s.BallPos.X = getFloat32(buf[5:9])
	s.BallPos.Y = getFloat32(buf[9:13])
	s.BallVel.X = getFloat32(buf[13:17])
	s.BallVel.Y = getFloat32(buf[17:21])
	for i := range s.Paddles {
		off := 21 + i*5
		s.Paddles[i] = game.PaddleView{
			Occupied: buf[off] == 1,
			Pos:      getFloat32(buf[off+1 : off+5]),
		}
	}
	for i := range s.Scores {
		s.Scores[i] = binary.BigEndian.Uint16(buf[41+i*2 : 43+i*2])
	}
	s.Phase = game.Phase(buf[49])
	s.Frozen = buf[50] == 1
	return s, nil
}

func putFloat32(b []byte, f float32) {
	binary.BigEndian.PutUint32(b, math.Float32bits(f))
}

func getFloat32(b []byte) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(b))
}
