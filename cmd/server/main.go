package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"fyugp-assistant/internal/config"
	"fyugp-assistant/internal/database"
	"fyugp-assistant/internal/handlers"
	"fyugp-assistant/internal/middleware"
	"fyugp-assistant/internal/router"
	"fyugp-assistant/internal/services"
	"fyugp-assistant/internal/session"
	"fyugp-assistant/internal/websocket"
)

func main() {
	log.Println("🚀 Starting FYUGP Assistant...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize Redis (optional) ────
	var redisClients *database.RedisClients
	if cfg.RedisURL != "" {
		var err error
		redisClients, err = database.NewRedisClients(cfg.RedisURL)
		if err != nil {
			log.Fatalf("✗ Redis connection failed: %v", err)
		}
		defer redisClients.Close()
		log.Println("✓ Redis connected")
	} else {
		log.Println("• REDIS_URL not set: lookup cache off, updates delivered in-process")
	}

	// ──── Step 3: Initialize Lookup Service ────
	var lookup services.Lookup
	switch cfg.LookupProvider {
	case config.LookupGemini:
		gemini, err := services.NewGeminiLookup(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("✗ Gemini client initialization failed: %v", err)
		}
		defer gemini.Close()
		lookup = gemini
		log.Println("✓ Gemini lookup initialized")
	default:
		lookup = services.NewDuckDuckGoLookup(cfg.LookupURL, cfg.LookupRequestsPerSec)
		log.Println("✓ DuckDuckGo lookup initialized")
	}
	if redisClients != nil {
		lookup = services.NewCachedLookup(lookup, redisClients.Cache, cfg.LookupCacheTTL)
		log.Println("✓ Lookup cache enabled")
	}

	// ──── Step 4: Sessions & Update Hub ────
	sessions := session.NewManager(cfg.SessionIdleTTL)
	tokens := middleware.NewSessionTokens(cfg.SessionSecret, cfg.SessionToken)

	wsHub := websocket.NewHub(redisClients.PubSubClient(), tokens, func(id uuid.UUID) bool {
		_, err := sessions.Get(id)
		return err == nil
	})
	sessions.OnExpire(wsHub.CloseSession)
	sessions.Start(time.Minute)
	log.Println("✓ WebSocket hub started")

	// ──── Step 5: Initialize Services & Handlers ────
	resolver := services.NewResolver(lookup, services.WithLookupTimeout(cfg.LookupTimeout))
	assistant := services.NewAssistantService(resolver, services.NewFileExtractService(), wsHub)

	h := router.Handlers{
		Session:  handlers.NewSessionHandler(sessions, tokens, wsHub),
		Chat:     handlers.NewChatHandler(assistant),
		Document: handlers.NewDocumentHandler(assistant, cfg.MaxUploadBytes),
		Info:     handlers.NewInfoHandler(),
	}
	chatLimiter := middleware.NewRateLimiter(cfg.ChatRatePerMinute, time.Minute)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(tokens, sessions, h, wsHub, chatLimiter, cfg.FrontendURL)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		sessions.Stop()
		chatLimiter.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ FYUGP Assistant ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
