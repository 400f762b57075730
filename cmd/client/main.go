package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"quadropong/internal/ansii"
	"quadropong/internal/client"
	"quadropong/internal/config"
	"quadropong/internal/game"
)

// Raw terminal input has no key-up events, so a press holds its axis for a
// short burst and decays back to neutral.
const keyHold = 200 * time.Millisecond

type heldAxis struct {
	mu    sync.Mutex
	axis  int8
	until time.Time
}

func (h *heldAxis) press(axis int8) {
	h.mu.Lock()
	h.axis = axis
	h.until = time.Now().Add(keyHold)
	h.mu.Unlock()
}

func (h *heldAxis) current() int8 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if time.Now().After(h.until) {
		return 0
	}
	return h.axis
}

func main() {
	if len(os.Args) == 1 {
		config.LoadConfig("")
	} else {
		config.LoadConfig(os.Args[1])
	}
	slog.SetLogLoggerLevel(slog.Level(config.Config.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("Welcome to quadropong!")

	api := client.NewAPIClient(config.Config.APIURL)
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("Press enter to create a game, or paste a game id to join one")
	line, err := reader.ReadString('\n')
	if err != nil {
		log.Fatal(err)
	}

	var gameID uuid.UUID
	if trimmed := strings.TrimSpace(line); trimmed == "" {
		info, err := api.CreateGame(ctx)
		if err != nil {
			log.Fatal("failed to create game: ", err)
		}
		gameID = info.ID
		fmt.Println("Created game", gameID)
	} else {
		gameID, err = uuid.Parse(trimmed)
		if err != nil {
			log.Fatal("that is not a game id: ", err)
		}
	}

	fmt.Println("Please enter your username")
	name, err := reader.ReadString('\n')
	if err != nil {
		log.Fatal(err)
	}

	join, err := api.JoinGame(ctx, gameID, strings.TrimSpace(name))
	if err != nil {
		log.Fatal("failed to join game: ", err)
	}
	side, ok := game.SideByName(join.Player.Side)
	if !ok {
		log.Fatal("server assigned an unknown side: ", join.Player.Side)
	}
	fmt.Println("Joined as", join.Player.Name, "on side", side)

	nc, err := client.Dial(join.UDPAddr, gameID, join.Player.ID)
	if err != nil {
		log.Fatal("failed to reach game socket: ", err)
	}
	go nc.Run(ctx)

	rec := client.NewReconciler(side)
	interp := client.NewInterpolator(time.Second / game.TickRate)

	prev, err := ansii.MakeTermRaw()
	if err != nil {
		log.Fatal("failed to make terminal raw: ", err)
	}
	defer ansii.RestoreTerm(prev)
	os.Stdout.WriteString(string(ansii.Screen.HideCursor))
	defer os.Stdout.WriteString(string(ansii.Screen.ShowCursor))

	held := &heldAxis{}

	// Key reader
	go func() {
		buf := make([]byte, 8)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				stop()
				return
			}
			switch key(buf[:n]) {
			case "left":
				held.press(-1)
			case "right":
				held.press(1)
			case "ready":
				if err := nc.SendReady(); err != nil {
					slog.Debug("ready send failed", "error", err)
				}
			case "quit":
				stop()
				return
			}
		}
	}()

	// Snapshots into the reconciler and interpolator
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-nc.Updates():
				if snap, ok := nc.Latest(); ok {
					rec.ApplySnapshot(snap)
					interp.Push(snap, time.Now())
				}
			}
		}
	}()

	// Prediction steps at the server tick rate so a held key moves the
	// local paddle exactly as fast as the authoritative one; rendering
	// runs on its own slower clock.
	input := time.NewTicker(time.Second / game.TickRate)
	defer input.Stop()
	frame := time.NewTicker(time.Second / 30)
	defer frame.Stop()
	for {
		select {
		case <-ctx.Done():
			nc.SendLeave()
			return
		case <-input.C:
			axis := held.current()
			rec.ApplyInput(axis)
			if err := nc.SendMove(axis); err != nil {
				slog.Debug("move send failed", "error", err)
			}
		case <-frame.C:
			if snap, ok := interp.At(time.Now()); ok {
				os.Stdout.WriteString(ansii.DrawBoard(snap, side, rec.PaddlePos()))
			}
		}
	}
}

// key normalizes one raw read into an action name.
func key(b []byte) string {
	if len(b) == 3 && b[0] == 0x1b && b[1] == '[' {
		switch b[2] {
		case 'D', 'A': // left / up arrows
			return "left"
		case 'C', 'B': // right / down arrows
			return "right"
		}
		return ""
	}
	if len(b) == 0 {
		return ""
	}
	switch b[0] {
	case 'a', 'h', 'w', 'k':
		return "left"
	case 'd', 'l', 's', 'j':
		return "right"
	case 'r':
		return "ready"
	case 'q', 0x03:
		return "quit"
	}
	return ""
}
