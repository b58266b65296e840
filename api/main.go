// @title BBBAB Chat
// @version 0.1
// @description Chat core: users, direct and group conversations, messages and realtime events.

// @host localhost:8080
// @BasePath /api
// @query.collection.format multi
// @schemes http

package main

import (
	"log/slog"
	"os"

	_ "tush00nka/bbbab_chat/docs"
	"tush00nka/bbbab_chat/internal/app"
	"tush00nka/bbbab_chat/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}

	if err := app.Run(cfg); err != nil {
		slog.Error("app stopped", "error", err)
		os.Exit(1)
	}
}
