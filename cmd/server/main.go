package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quadropong/internal/config"
	"quadropong/internal/game"
	"quadropong/internal/server"
)

func main() {
	if len(os.Args) == 1 {
		config.LoadConfig("")
	} else {
		config.LoadConfig(os.Args[1])
	}
	slog.SetLogLoggerLevel(slog.Level(config.Config.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	udpAddr, err := net.ResolveUDPAddr("udp", config.Config.SocketAddr)
	if err != nil {
		log.Fatal(err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	reg := server.NewRegistry(conn, server.MatchConfig{
		WinScore:  config.Config.WinScore,
		OpenWalls: config.Config.OpenWalls,
		Policy:    game.PolicyByName(config.Config.ScoreRule),
		Timeout:   time.Duration(config.Config.TimeoutMS) * time.Millisecond,
	})

	fmt.Println("Starting quadropong server...")
	go server.NewUDPServer(conn, reg).Run(ctx)

	api := server.NewAPI(ctx, reg, config.Config.SocketAddr)
	httpSrv := &http.Server{Addr: config.Config.APIAddr, Handler: api.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()

	fmt.Println("API on", config.Config.APIAddr, "- game socket on", config.Config.SocketAddr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
