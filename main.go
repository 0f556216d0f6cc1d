package main

import (
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/pollwire/pollwire/cliparse"
	"github.com/pollwire/pollwire/db"
	"github.com/pollwire/pollwire/middleware"
	"github.com/pollwire/pollwire/router"
)

func main() {
	var err error

	// Load .env if present (dev convenience; env wins in production)
	_ = godotenv.Load()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the database
	driver := "sqlite"
	if cfg.DatabaseType == "postgres" {
		driver = "postgres"
	}
	dbConn, err := sql.Open(driver, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Verify connection
	if err := dbConn.Ping(); err != nil {
		slog.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "driver", driver)

	// Create router
	mux := router.NewRouter(dbConn, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
