// Package protocol defines the UDP wire contract between quadropong
// servers and clients. Every datagram is a fixed-width big-endian record:
// two independent builds encoding the same values must produce identical
// bytes. Malformed datagrams are rejected whole, never partially decoded.
package protocol

import "errors"

const Version uint8 = 1

var (
	ErrBadLength  = errors.New("protocol: bad datagram length")
	ErrBadVersion = errors.New("protocol: unsupported protocol version")
)

// Op is the input datagram's operation code.
type Op uint8

const (
	OpMove Op = iota
	OpJoin
	OpReady
	OpLeave
	OpPing
)

func (o Op) String() string {
	switch o {
	case OpMove:
		return "move"
	case OpJoin:
		return "join"
	case OpReady:
		return "ready"
	case OpLeave:
		return "leave"
	case OpPing:
		return "ping"
	default:
		return "unknown"
	}
}
