/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the payment reconciliation server: config,
  storage, tracker, router, graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse flags; flags beat env
  2. Open the SQLite snapshot store; on failure fall back to memory-only
  3. Load persisted state into the tracker
  4. Start the HTTP server with graceful shutdown

CONFIGURATION:
  -port / PORT       HTTP server port (default 8080)
  -db   / DB_PATH    SQLite database path (default paytrack.db,
                     ":memory:" for in-memory)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, wait up to 30s for
  active requests, close the database, exit.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pagotrack/payment-engine/api"
	"github.com/pagotrack/payment-engine/store"
	"github.com/pagotrack/payment-engine/store/memory"
	"github.com/pagotrack/payment-engine/store/sqlite"
	"github.com/pagotrack/payment-engine/tracker"
)

func main() {
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DB_PATH", "paytrack.db"), "SQLite database path")
	flag.Parse()

	// Open storage; a failure degrades to memory-only instead of aborting,
	// reconciliation never depends on storage being available.
	var snap store.Snapshot
	sqliteSnap, err := sqlite.Open(*dbPath)
	if err != nil {
		log.Printf("storage unavailable, running in memory only: %v", err)
		snap = memory.New()
	} else {
		defer sqliteSnap.Close()
		snap = sqliteSnap
	}

	trk := tracker.New(snap)
	if err := trk.Load(context.Background()); err != nil {
		log.Printf("warning: failed to load persisted state: %v", err)
	}

	router := api.NewRouter(api.NewHandler(trk))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
