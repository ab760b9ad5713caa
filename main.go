package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/danielhkuo/assessment-path/auth"
	"github.com/danielhkuo/assessment-path/bridge"
	"github.com/danielhkuo/assessment-path/catalog"
	"github.com/danielhkuo/assessment-path/cliparse"
	"github.com/danielhkuo/assessment-path/db"
	"github.com/danielhkuo/assessment-path/middleware"
	"github.com/danielhkuo/assessment-path/router"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// Load the question catalog
	cat := catalog.Empty()
	if cfg.CatalogPath != "" {
		cat, err = catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			slog.Error("catalog load failed", "path", cfg.CatalogPath, "error", err)
			os.Exit(1)
		}
	}
	slog.Info("Catalog ready", "survey_question_id", cat.SurveyID(), "questions", cat.Len())

	// Bridge to the save and flow endpoints
	token, err := auth.GenerateCSRFToken(cfg.CSRFSalt)
	if err != nil {
		slog.Error("csrf token generation failed", "error", err)
		os.Exit(1)
	}
	client := bridge.NewClient(bridge.Config{
		SaveURL:         cfg.SaveURL,
		RewindURL:       cfg.RewindURL,
		NextQuestionURL: cfg.NextQuestionURL,
		CSRFToken:       token,
	})

	// Create router
	mux := router.NewRouter(dbConn, cfg, cat, client)

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
