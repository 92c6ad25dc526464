package main

import (
	"context"
	"log"

	"github.com/antonvlsk/verimail/internal/server"
	"github.com/antonvlsk/verimail/internal/server/config"
	"github.com/joho/godotenv"
)

func main() {

	// optional .env for local development
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
