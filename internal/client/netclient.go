package client

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"quadropong/internal/game"
	"quadropong/internal/protocol"
)

// NetClient is the client side of the UDP contract: it sends sequenced
// input datagrams and keeps the latest decoded snapshot in a single-slot
// overwrite cell for the render loop.
type NetClient struct {
	conn     *net.UDPConn
	matchID  uuid.UUID
	playerID uuid.UUID
	seq      atomic.Uint32

	mu      sync.Mutex
	latest  game.Snapshot
	has     bool
	updates chan struct{}
}

// Dial connects the socket and announces the player to the server so its
// slot gets this address bound.
func Dial(serverAddr string, matchID, playerID uuid.UUID) (*NetClient, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", serverAddr)
	if err != nil {
		return nil, fmt.Errorf("resolving server address: %w", err)
	}
	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		return nil, fmt.Errorf("dialing server: %w", err)
	}

	c := &NetClient{
		conn:     conn,
		matchID:  matchID,
		playerID: playerID,
		updates:  make(chan struct{}, 1),
	}
	if err := c.send(protocol.OpJoin, 0); err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

// Run owns the receive path until the context ends: decode, drop stale or
// malformed datagrams, overwrite the snapshot cell. It also keeps the
// server's liveness check fed with pings.
func (c *NetClient) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		c.conn.SetReadDeadline(time.Now())
	}()

	go c.pingLoop(ctx)

	var lastTick uint32
	var hasTick bool
	buf := make([]byte, 128)
	for {
		n, err := c.conn.Read(buf)
		if err != nil {
			if ctx.Err() != nil {
				c.conn.Close()
				return
			}
			slog.Debug("read failed", "error", err)
			continue
		}

		snap, err := protocol.DecodeSnapshot(buf[:n])
		if err != nil {
			slog.Debug("dropping snapshot", "error", err)
			continue
		}
		if hasTick && int32(snap.Tick-lastTick) <= 0 {
			continue
		}
		lastTick = snap.Tick
		hasTick = true

		c.mu.Lock()
		c.latest = snap
		c.has = true
		c.mu.Unlock()

		select {
		case c.updates <- struct{}{}:
		default:
		}
	}
}

func (c *NetClient) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.send(protocol.OpPing, 0); err != nil {
				slog.Debug("ping failed", "error", err)
			}
		}
	}
}

// SendMove ships the current movement axis with the next sequence number.
func (c *NetClient) SendMove(axis int8) error {
	return c.send(protocol.OpMove, axis)
}

func (c *NetClient) SendReady() error {
	return c.send(protocol.OpReady, 0)
}

func (c *NetClient) SendLeave() error {
	return c.send(protocol.OpLeave, 0)
}

func (c *NetClient) send(op protocol.Op, axis int8) error {
	buf := protocol.EncodeInput(protocol.Input{
		MatchID:  c.matchID,
		PlayerID: c.playerID,
		Seq:      c.seq.Add(1),
		Op:       op,
		Axis:     axis,
	})
	if _, err := c.conn.Write(buf); err != nil {
		return fmt.Errorf("sending %s: %w", op, err)
	}
	return nil
}

// Latest returns the newest snapshot, if one has arrived.
func (c *NetClient) Latest() (game.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest, c.has
}

// Updates signals when a fresh snapshot lands. The channel never backs up;
// a slow reader just coalesces notifications.
func (c *NetClient) Updates() <-chan struct{} {
	return c.updates
}
