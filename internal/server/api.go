package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"quadropong/internal/protocol"
	"quadropong/internal/session"
)

// API is the REST bootstrap surface. It only sets sessions up; once a
// client has a player id and the UDP address, gameplay leaves HTTP behind.
type API struct {
	reg     *Registry
	udpAddr string
	ctx     context.Context
}

// NewAPI builds the handler set. ctx is the lifetime matches created over
// HTTP are bound to; udpAddr is what join responses advertise.
func NewAPI(ctx context.Context, reg *Registry, udpAddr string) *API {
	return &API{reg: reg, udpAddr: udpAddr, ctx: ctx}
}

func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /game", a.createGame)
	mux.HandleFunc("GET /game", a.listGames)
	mux.HandleFunc("GET /game/{id}", a.getGame)
	mux.HandleFunc("POST /game/{id}/join", a.joinGame)
	mux.HandleFunc("POST /game/{id}/add_bot", a.addBot)
	return mux
}

func (a *API) createGame(w http.ResponseWriter, r *http.Request) {
	m := a.reg.Create(a.ctx)
	slog.Info("match created", "match", m.ID)
	writeJSON(w, http.StatusOK, m.Info())
}

func (a *API) listGames(w http.ResponseWriter, r *http.Request) {
	matches := a.reg.List()
	infos := make([]protocol.GameInfo, 0, len(matches))
	for _, m := range matches {
		infos = append(infos, m.Info())
	}
	writeJSON(w, http.StatusOK, infos)
}

func (a *API) getGame(w http.ResponseWriter, r *http.Request) {
	m, ok := a.matchFrom(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, m.Info())
}

func (a *API) joinGame(w http.ResponseWriter, r *http.Request) {
	m, ok := a.matchFrom(w, r)
	if !ok {
		return
	}

	var req protocol.JoinRequest
	if r.Body != nil {
		// An empty or absent body means an anonymous join.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	name := req.Username
	if name == "" {
		name = fmt.Sprintf("player_%d", len(m.Info().Players)+1)
	}

	player, err := m.Join(name, false)
	if errors.Is(err, session.ErrSlotsFull) {
		http.Error(w, "game is full", http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, protocol.JoinResponse{
		Player:  player,
		GameID:  m.ID,
		UDPAddr: a.udpAddr,
	})
}

func (a *API) addBot(w http.ResponseWriter, r *http.Request) {
	m, ok := a.matchFrom(w, r)
	if !ok {
		return
	}

	bots := 0
	for _, p := range m.Info().Players {
		if p.IsBot {
			bots++
		}
	}

	player, err := m.Join(fmt.Sprintf("bot_%d", bots+1), true)
	if errors.Is(err, session.ErrSlotsFull) {
		http.Error(w, "game is full", http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, player)
}

func (a *API) matchFrom(w http.ResponseWriter, r *http.Request) (*Match, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "bad game id", http.StatusBadRequest)
		return nil, false
	}
	m, ok := a.reg.Get(id)
	if !ok {
		http.Error(w, "game not found", http.StatusNotFound)
		return nil, false
	}
	return m, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("response encode failed", "error", err)
	}
}
