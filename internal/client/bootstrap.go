package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"quadropong/internal/protocol"
)

// APIClient talks to the bootstrap REST endpoint before the UDP phase.
type APIClient struct {
	base string
	http *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		base: baseURL,
		http: &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *APIClient) CreateGame(ctx context.Context) (protocol.GameInfo, error) {
	var info protocol.GameInfo
	err := c.do(ctx, http.MethodPost, "/game", nil, &info)
	return info, err
}

func (c *APIClient) ListGames(ctx context.Context) ([]protocol.GameInfo, error) {
	var infos []protocol.GameInfo
	err := c.do(ctx, http.MethodGet, "/game", nil, &infos)
	return infos, err
}

func (c *APIClient) GetGame(ctx context.Context, id uuid.UUID) (protocol.GameInfo, error) {
	var info protocol.GameInfo
	err := c.do(ctx, http.MethodGet, "/game/"+id.String(), nil, &info)
	return info, err
}

// JoinGame reserves a slot and returns the player identity plus the UDP
// address gameplay happens on.
func (c *APIClient) JoinGame(ctx context.Context, id uuid.UUID, username string) (protocol.JoinResponse, error) {
	var resp protocol.JoinResponse
	err := c.do(ctx, http.MethodPost, "/game/"+id.String()+"/join", protocol.JoinRequest{Username: username}, &resp)
	return resp, err
}

func (c *APIClient) AddBot(ctx context.Context, id uuid.UUID) (protocol.PlayerInfo, error) {
	var info protocol.PlayerInfo
	err := c.do(ctx, http.MethodPost, "/game/"+id.String()+"/add_bot", nil, &info)
	return info, err
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out any) error {
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s: server returned %s", method, path, resp.Status)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
