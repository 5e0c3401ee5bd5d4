// main.go - Entry point for the discovery backend server

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"go-discovery-backend/config"
	"go-discovery-backend/database"
	"go-discovery-backend/discovery"
	"go-discovery-backend/handlers"
	"go-discovery-backend/knowledgebase"
	"go-discovery-backend/logger"
	"go-discovery-backend/middleware"
	"go-discovery-backend/mqtt"
)

func main() {
	// STEP 1: Load configuration and set up logging
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	// STEP 2: Open the record store and seed it
	store, err := database.Open(cfg.Store, log)
	if err != nil {
		log.Fatal("store open failed", "driver", cfg.Store.Driver, "error", err)
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}
	repos := database.NewRepositories(store)
	if err := database.Bootstrap(repos, cfg.Auth, log); err != nil {
		log.Fatal("store bootstrap failed", "error", err)
	}

	// STEP 3: Connect collaborators (knowledge base, MQTT events)
	kb := knowledgebase.New(cfg.KnowledgeBase, log)
	events, err := mqtt.Connect(cfg.MQTT, log)
	if err != nil {
		// Events are best effort; run without them
		log.Warn("mqtt unavailable, events disabled", "broker", cfg.MQTT.Broker, "error", err)
		events = mqtt.Noop{}
	}
	if c, ok := events.(*mqtt.Client); ok {
		defer c.Close()
	}

	// STEP 4: Build the generation pipeline and the router
	resolver := discovery.NewResolver(repos.Mappings, repos.Prompts)
	orchestrator := discovery.NewOrchestrator(resolver, kb, events, log)

	gin.SetMode(cfg.Server.Mode)
	h := handlers.New(handlers.Deps{
		Repos:        repos,
		Tokens:       middleware.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Orchestrator: orchestrator,
		KB:           kb,
		Events:       events,
		Log:          log,
	})
	router := handlers.NewRouter(h, cfg.CORS)

	// STEP 5: Start the web server and wait for a shutdown signal
	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: router}
	go func() {
		log.Info("server listening", "addr", srv.Addr, "store", cfg.Store.Driver, "knowledge_base", cfg.KnowledgeBase.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
