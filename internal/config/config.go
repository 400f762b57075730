package config

import (
	"encoding/json"
	"log/slog"
	"os"
)

var Config Configuration

type Configuration struct {
	LogLevel   int    `json:"logLevel"`
	SocketAddr string `json:"socketAddr"`
	APIAddr    string `json:"apiAddr"`
	APIURL     string `json:"apiUrl"`
	WinScore   uint16 `json:"winScore"`
	OpenWalls  bool   `json:"openWalls"`
	ScoreRule  string `json:"scoreRule"`
	TimeoutMS  int    `json:"timeoutMs"`
}

// LoadConfig reads config.json (or the given path), fills in defaults for
// anything missing and lets SOCKET_ADDR / API_URL env vars win over the
// file. A missing or unreadable config is not an error.
func LoadConfig(path string) {
	c := Configuration{
		SocketAddr: "127.0.0.1:34254",
		APIAddr:    "127.0.0.1:3000",
		APIURL:     "http://127.0.0.1:3000",
		WinScore:   10,
		ScoreRule:  "ffa",
		TimeoutMS:  2000,
	}

	if path == "" {
		path = "config.json"
	}
	cf, err := os.ReadFile(path)
	if err != nil {
		slog.Info("failed to open config at path provided, using default config instead")
	} else if err := json.Unmarshal(cf, &c); err != nil {
		slog.Info("failed to read configuration, using default config instead...", "error", err)
	}

	if addr := os.Getenv("SOCKET_ADDR"); addr != "" {
		c.SocketAddr = addr
	}
	if url := os.Getenv("API_URL"); url != "" {
		c.APIURL = url
	}

	Config = c
}
