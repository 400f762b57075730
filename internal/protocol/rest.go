package protocol

import (
	"time"

	"github.com/google/uuid"
)

// REST bootstrap payloads. The HTTP API only sets up a session; gameplay
// itself rides the UDP datagrams above.

type PlayerInfo struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Side     string    `json:"side"`
	Score    uint16    `json:"score"`
	IsBot    bool      `json:"is_bot"`
	JoinedAt time.Time `json:"joined_at"`
}

type GameInfo struct {
	ID        uuid.UUID    `json:"id"`
	State     string       `json:"state"`
	CreatedAt time.Time    `json:"created_at"`
	Players   []PlayerInfo `json:"players"`
}

type JoinRequest struct {
	Username string `json:"username,omitempty"`
}

// JoinResponse carries everything a client needs to enter the UDP phase.
type JoinResponse struct {
	Player  PlayerInfo `json:"player"`
	GameID  uuid.UUID  `json:"game_id"`
	UDPAddr string     `json:"udp_addr"`
}
