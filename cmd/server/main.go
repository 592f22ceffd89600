package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/inamate/shapecut/internal/auth"
	"github.com/inamate/shapecut/internal/config"
	"github.com/inamate/shapecut/internal/db"
	"github.com/inamate/shapecut/internal/engine"
	"github.com/inamate/shapecut/internal/export"
	mw "github.com/inamate/shapecut/internal/middleware"
	"github.com/inamate/shapecut/internal/render"
	"github.com/inamate/shapecut/internal/session"
	"github.com/inamate/shapecut/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)
	render.SetLogger(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kv, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("open store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	hub := session.NewHub(session.Options{
		Width:  cfg.CanvasWidth,
		Height: cfg.CanvasHeight,
		TTL:    cfg.SessionTTL,
		Persister: func(sessionID string) engine.Persister {
			return store.NewScenePersister(kv, store.SceneKey(cfg.StorageKey, sessionID), logger)
		},
		Logger: logger,
	})
	go hub.Run()

	authService := auth.NewService(cfg.JWTSecret, cfg.SessionTTL)
	authHandler := auth.NewHandler(authService, func() string { return hub.Create().ID })
	sessionHandler := session.NewHandler(hub)

	artifacts := export.NewArtifactStore(cfg.ExportDir)
	exportHandler := export.NewHandler(hub, artifacts)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	r.HandleFunc("/sessions", authHandler.CreateSession).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Stored exports are public; ids are unguessable.
	r.PathPrefix("/exports/").Handler(artifacts.Serve()).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)

	api.HandleFunc("/sessions/{sessionId}/scene", sessionHandler.Scene).Methods("GET")
	api.HandleFunc("/sessions/{sessionId}/undo", sessionHandler.Undo).Methods("POST")
	api.HandleFunc("/sessions/{sessionId}/export.{format:svg|png}", exportHandler.Download).Methods("GET")
	api.HandleFunc("/sessions/{sessionId}/exports", exportHandler.Store).Methods("POST")

	// WebSocket endpoint
	r.HandleFunc("/ws/session/{sessionId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, cfg.OriginHosts())
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop hub first so every live scene is saved
		slog.Info("saving all sessions...")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "canvas", fmt.Sprintf("%dx%d", cfg.CanvasWidth, cfg.CanvasHeight))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// openStore picks PostgreSQL when DATABASE_URL is set and files otherwise.
func openStore(ctx context.Context, cfg *config.Config) (store.KV, func(), error) {
	if cfg.DatabaseURL == "" {
		kv, err := store.NewFile(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("using file store", "dir", cfg.DataDir)
		return kv, func() {}, nil
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	slog.Info("using postgres store")
	return store.NewPostgres(pool), pool.Close, nil
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *session.Hub, authSvc *auth.Service, origins []string) {
	sessionID := mux.Vars(r)["sessionId"]

	// Browsers cannot set headers on websocket requests, so the token rides
	// in the query string.
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	granted, err := authSvc.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	if granted != sessionID {
		http.Error(w, "token does not grant this session", http.StatusForbidden)
		return
	}

	s, err := hub.Open(sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: origins,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := session.NewClient(hub, s, conn, uuid.New().String())

	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
