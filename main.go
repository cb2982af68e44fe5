package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/jobboard-be/internal/api"
	"github.com/isdelr/jobboard-be/internal/auth"
	"github.com/isdelr/jobboard-be/internal/config"
	"github.com/isdelr/jobboard-be/internal/database"
	"github.com/isdelr/jobboard-be/internal/logger"
	"github.com/isdelr/jobboard-be/internal/scheduler"
	"github.com/isdelr/jobboard-be/internal/services"
	"github.com/isdelr/jobboard-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	err = database.Migrate(migrateCtx, db)
	cancelMigrate()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	eventService := services.NewEventService(db)
	userService := services.NewUserService(db, eventService, cfg.BcryptCost)
	jobService := services.NewJobService(db, eventService, hub)

	// Set up and run the background scheduler
	sched, err := scheduler.New(cfg.EventPruneSchedule, cfg.EventRetention, eventService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure scheduler")
	}
	sched.Start()

	// Set up router
	router := api.NewRouter(api.Dependencies{
		Config:    cfg,
		DB:        db,
		Hub:       hub,
		Tokens:    auth.NewTokens([]byte(cfg.JWTSecret), cfg.TokenTTL),
		Transport: auth.NewTransport(cfg),
		Users:     userService,
		Jobs:      jobService,
		Events:    eventService,
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().
			Int("port", cfg.ServerPort).
			Str("env", cfg.AppEnv).
			Str("token_transport", cfg.TokenTransport).
			Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	sched.Stop() // Stop the scheduler

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownAfter)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	hub.Stop() // Closes open feed connections

	log.Info().Msg("Server exiting")
}
