package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/solidon/donation-backend/internal/config"
	"github.com/solidon/donation-backend/internal/db"
	"github.com/solidon/donation-backend/internal/model"
	"github.com/solidon/donation-backend/internal/server"
)

func main() {
	_ = godotenv.Load()

	srv := server.New(nil)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	errCh := make(chan error, 1)

	go func() {
		log.Printf("starting server on %s", addr)
		errCh <- srv.Start(addr)
	}()

	go func() {
		cfg, err := config.Load()
		if err != nil {
			log.Printf("config load error: %v", err)
			return
		}
		conn, err := db.Connect(cfg)
		if err != nil {
			log.Printf("db connect error: %v", err)
			return
		}
		srv.SetDB(conn)
		if err := conn.AutoMigrate(
			&model.User{},
			&model.Category{},
			&model.Proposition{},
			&model.Demande{},
			&model.Don{},
			&model.Notification{},
			&model.Message{},
		); err != nil {
			log.Printf("auto migrate error: %v", err)
		}
	}()

	if err := <-errCh; err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
