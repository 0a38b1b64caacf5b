package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"flood-watch/internal/config"
	"flood-watch/internal/database"
	"flood-watch/internal/engine"
	"flood-watch/internal/handlers"
	"flood-watch/internal/middleware"
	"flood-watch/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := openStore(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to store (%s): %v", cfg.Database.Type, err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			log.Printf("Failed to close store: %v", err)
		}
	}()
	log.Printf("Connected to %s store", cfg.Database.Type)

	// Seed accounts and sample questions before the actors load their state.
	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureSeedUsers(seedCtx, store); err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	if err := database.EnsureSeedPosts(seedCtx, store); err != nil {
		log.Fatalf("Failed to seed posts: %v", err)
	}

	metrics := utils.NewMetricsCollector()
	system := actor.NewActorSystem()
	boardEngine := engine.NewEngine(system, metrics, store)

	server := handlers.NewServer(system, system.Root, boardEngine, metrics, store)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", server.HandleHealth())
	mux.HandleFunc("/user/register", server.HandleUserRegistration())
	mux.HandleFunc("/user/login", server.HandleUserLogin())
	mux.HandleFunc("/posts", server.HandlePosts())
	mux.HandleFunc("/posts/get", server.HandleGetPost())
	mux.HandleFunc("/posts/answer", server.HandleSubmitAnswer())
	mux.HandleFunc("/posts/vote", server.HandleVote())
	mux.HandleFunc("/posts/tag", server.HandleToggleTag())
	mux.HandleFunc("/posts/accept", server.HandleAcceptAnswer())
	mux.HandleFunc("/tags", server.HandleKnownTags())

	corsConfig := middleware.DefaultCORSConfig(cfg.AllowedOrigins)
	handler := middleware.CORSMiddleware(corsConfig)(middleware.JWTMiddleware(mux))

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting server on %s", serverAddr)
	if err := http.ListenAndServe(serverAddr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// openStore picks the persistence backend from configuration.
func openStore(cfg *config.DatabaseConfig) (database.Store, error) {
	switch cfg.Type {
	case "memory":
		return database.NewMemoryStore(), nil
	case "mongodb":
		return database.NewMongoDB(cfg.URI)
	case "postgres":
		return database.NewPostgresDB(cfg.URI)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.Type)
	}
}
