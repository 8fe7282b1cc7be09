/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the shift scheduler HTTP server. Handles
  configuration, dependency injection, optional demo seeding, and
  graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite repository
  3. Optionally seed a demo baseline-feasibility scenario
  4. Create API handler with dependencies
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port  HTTP server port (default: 8080)
  -db    SQLite database path (default: scheduler.db)
         Use ":memory:" for in-memory database
  -tz    fixed IANA time zone name for all calendar arithmetic (default: UTC)
  -seed  if true, seed an empty database with a small demo scenario

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the database connection
  4. Exit

SEE ALSO:
  - api/server.go: router configuration
  - api/handlers.go: HTTP handlers
  - repository/sqlite/sqlite.go: database implementation
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
	"syscall"
	"time"

	"github.com/warp/shift-scheduler/api"
	"github.com/warp/shift-scheduler/core"
	"github.com/warp/shift-scheduler/repository/sqlite"
)

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "scheduler.db", "SQLite database path")
	tz := flag.String("tz", "UTC", "fixed IANA time zone for calendar arithmetic")
	seed := flag.Bool("seed", false, "seed an empty database with a small demo scenario")
	flag.Parse()

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		log.Fatalf("invalid -tz %q: %v", *tz, err)
	}
	cal := core.NewCalendar(loc)

	store, err := sqlite.New(*dbPath, cal)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer store.Close()

	if *seed {
		if err := seedDemoScenario(context.Background(), store, cal); err != nil {
			log.Printf("warning: failed to seed demo scenario: %v", err)
		}
	}

	handler := api.NewHandler(store, cal)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server starting on http://localhost:%d", *port)
		log.Printf("api available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server stopped")
}
