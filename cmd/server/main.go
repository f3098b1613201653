package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/Vika-svg/project1/internal/config"
	"github.com/Vika-svg/project1/internal/ratings"
	"github.com/Vika-svg/project1/internal/server"
	"github.com/Vika-svg/project1/internal/store"
	"github.com/Vika-svg/project1/internal/util"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	sessionTTL, err := config.ParseSessionTTL(cfg.SessionTTL)
	if err != nil {
		log.Fatalf("failed to parse session TTL: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	dataStore, err := store.NewGormStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to init postgres store: %v", err)
	}

	var sessions store.SessionStore
	switch {
	case cfg.RedisAddr != "":
		sessions = store.NewRedisSessionStore(cfg.RedisAddr, cfg.RedisPassword, sessionTTL)
	default:
		sessions = store.NewJWTSessionStore(cfg.SessionSecret, sessionTTL)
	}

	var ratingsClient server.RatingsClient
	if cfg.RatingsBaseURL != "" {
		ratingsClient = ratings.NewClient(cfg.RatingsBaseURL, cfg.RatingsAPIKey)
	}

	httpServer := server.New(server.Config{
		Store:    dataStore,
		Sessions: sessions,
		Ratings:  ratingsClient,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}
