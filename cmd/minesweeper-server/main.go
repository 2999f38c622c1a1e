package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"minesweeper/db"
	server "minesweeper/internal/minesweeper/handlers"
	"minesweeper/internal/minesweeper/models"
)

func main() {
	_ = godotenv.Load()

	cfg := models.LoadConfig()
	if len(os.Args) > 1 {
		cfg.Port = os.Args[1]
	}

	var auth server.CredentialChecker
	switch cfg.AuthBackend {
	case models.AuthBackendPostgres:
		auth = server.NewPostgresChecker(db.InitDB(cfg))
	default:
		auth = server.NewFileChecker(cfg.AuthFile)
	}

	s := server.NewServer(cfg, auth)

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigint
		log.Printf("shutdown signal received, draining connections...")
		s.Shutdown()
	}()

	if err := s.ListenAndServe(); err != nil {
		log.Fatalf("server failed: %v", err)
	}

	// ListenAndServe returns as soon as the listener closes; wait here for
	// the drain started by the signal handler to finish.
	s.Shutdown()
}
