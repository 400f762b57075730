package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"quadropong/internal/protocol"
)

// UDPServer owns the receive path: it decodes input datagrams and routes
// them to the right match. Malformed datagrams are dropped, never fatal.
type UDPServer struct {
	conn *net.UDPConn
	reg  *Registry
}

func NewUDPServer(conn *net.UDPConn, reg *Registry) *UDPServer {
	return &UDPServer{conn: conn, reg: reg}
}

// Run reads until the context ends. It never blocks the simulation: all it
// shares with the tick loops is the sessions' latest-input tables.
func (s *UDPServer) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		// Wake the blocked read so the loop can observe cancellation.
		s.conn.SetReadDeadline(time.Now())
	}()

	buf := make([]byte, 128)
	for {
		n, addr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			var nerr net.Error
			if errors.As(err, &nerr) && nerr.Timeout() {
				continue
			}
			slog.Debug("udp read failed", "error", err)
			continue
		}

		in, err := protocol.DecodeInput(buf[:n])
		if err != nil {
			slog.Debug("dropping datagram", "addr", addr, "error", err)
			continue
		}

		m, ok := s.reg.Get(in.MatchID)
		if !ok {
			slog.Debug("datagram for unknown match", "match", in.MatchID)
			continue
		}
		m.HandleInput(in, addr, time.Now())
	}
}
