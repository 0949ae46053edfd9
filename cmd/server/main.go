// cmd/server/main.go
package main

import (
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"lexio/internal/bot"
	"lexio/internal/config"
	"lexio/internal/history"
	"lexio/internal/server"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	if err := config.LoadGameConfig(envOr("LEXIO_CONFIG", "data/game_config.json")); err != nil {
		logger.Warnf("game config not loaded, using defaults: %v", err)
	}
	if err := bot.LoadIdentities(envOr("LEXIO_BOT_IDENTITIES", "data/bot_identities.json")); err != nil {
		logger.Warnf("bot identities not loaded, using fallbacks: %v", err)
	}
	if err := history.ConnectRedis(); err != nil {
		logger.Warnf("round history disabled: %v", err)
	}

	srv := server.NewServer(logger)
	mux := http.NewServeMux()
	srv.Routes(mux)

	addr := envOr("LEXIO_ADDR", ":8080")
	logger.Infof("lexio server listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatalf("server error: %v", err)
	}
}

func envOr(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}
