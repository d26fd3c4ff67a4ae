// Package main provides the API server entry point
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ofekfell/media-mcp-editor/pkg/api"
	"github.com/ofekfell/media-mcp-editor/pkg/auth"
	_ "github.com/ofekfell/media-mcp-editor/pkg/operators/builtin"
	"github.com/ofekfell/media-mcp-editor/pkg/store"
)

var (
	port      = flag.Int("port", 8080, "Server port")
	host      = flag.String("host", "0.0.0.0", "Server host")
	jwtSecret = flag.String("jwt-secret", "", "JWT signing secret; authentication is disabled when empty")
	apiKeys   = flag.String("api-keys", "", "Comma-separated client:key pairs accepted as X-API-Key")
)

func main() {
	flag.Parse()

	log.Println("Initializing store...")
	s := store.NewMemoryStore()
	defer s.Close()

	log.Println("Creating API server...")
	server := api.NewServer(s)
	defer server.Close()

	mux := setupRoutes(server, *jwtSecret, *apiKeys)

	addr := fmt.Sprintf("%s:%d", *host, *port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func setupRoutes(server *api.Server, jwtSecret, apiKeys string) *http.ServeMux {
	mux := http.NewServeMux()

	// Auth is optional unless a JWT secret or key list is configured
	jwtManager := auth.NewJWTManager(jwtSecret, 24*time.Hour)
	keyManager := auth.NewAPIKeyManager()
	for _, pair := range strings.Split(apiKeys, ",") {
		if pair == "" {
			continue
		}
		clientID, key, ok := strings.Cut(pair, ":")
		if !ok {
			log.Fatalf("malformed -api-keys entry %q, want client:key", pair)
		}
		if err := keyManager.Add(key, clientID); err != nil {
			log.Fatalf("cannot register API key for %s: %v", clientID, err)
		}
	}
	authMiddleware := auth.NewAuthMiddleware(jwtManager, keyManager, jwtSecret == "" && apiKeys == "")

	protected := func(h http.HandlerFunc) http.HandlerFunc {
		chained := api.Chain(h,
			api.RecoveryMiddleware,
			api.CORSMiddleware,
			api.LoggingMiddleware,
		)
		return func(w http.ResponseWriter, r *http.Request) {
			authMiddleware.Handler(chained).ServeHTTP(w, r)
		}
	}

	// Health check
	mux.HandleFunc("/health", api.Chain(
		server.HandleHealth,
		api.LoggingMiddleware,
	))

	// Render collection routes
	mux.HandleFunc("/api/v1/renders", protected(handleRendersRoute(server)))

	// Render detail route
	mux.HandleFunc("/api/v1/renders/", protected(handleRenderDetailRoute(server)))

	// Operation catalog
	mux.HandleFunc("/api/v1/operations", protected(server.HandleListOperations))

	// Media probing
	mux.HandleFunc("/api/v1/probe", protected(server.HandleProbe))

	return mux
}

// handleRendersRoute handles /api/v1/renders (list and create)
func handleRendersRoute(server *api.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			server.HandleListRenders(w, r)
		case http.MethodPost:
			server.HandleCreateRender(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

// handleRenderDetailRoute handles /api/v1/renders/{id} (get and delete)
func handleRenderDetailRoute(server *api.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			server.HandleGetRender(w, r)
		case http.MethodDelete:
			server.HandleDeleteRender(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}
