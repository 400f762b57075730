package protocol

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// Input datagram layout, 39 bytes:
//
//	[0]     version
//	[1:17]  match id
//	[17:33] player id
//	[33:37] sequence number
//	[37]    op code
//	[38]    movement axis, signed
const InputSize = 39

type Input struct {
	MatchID  uuid.UUID
	PlayerID uuid.UUID
	Seq      uint32
	Op       Op
	Axis     int8
}

func EncodeInput(in Input) []byte {
	buf := make([]byte, InputSize)
	buf[0] = Version
	copy(buf[1:17], in.MatchID[:])
	copy(buf[17:33], in.PlayerID[:])
	binary.BigEndian.PutUint32(buf[33:37], in.Seq)
	buf[37] = byte(in.Op)
	buf[38] = byte(in.Axis)
	return buf
}

func DecodeInput(buf []byte) (Input, error) {
	var in Input
	if len(buf) != InputSize {
		return in, ErrBadLength
	}
	if buf[0] != Version {
		return in, ErrBadVersion
	}
	copy(in.MatchID[:], buf[1:17])
	copy(in.PlayerID[:], buf[17:33])
	in.Seq = binary.BigEndian.Uint32(buf[33:37])
	in.Op = Op(buf[37])
	in.Axis = int8(buf[38])
	return in, nil
}
