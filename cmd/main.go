package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fbettag/easymesh-monitor/internal/auth"
	"github.com/fbettag/easymesh-monitor/internal/config"
	"github.com/fbettag/easymesh-monitor/internal/database"
	"github.com/fbettag/easymesh-monitor/internal/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

var (
	Version = "dev" // Set by build process
)

var (
	configFile  = flag.String("config", "config.yaml", "Path to configuration file")
	port        = flag.Int("port", 8081, "Port to run the API server on")
	dbPath      = flag.String("database", "", "Path to database file (overrides config)")
	logLevel    = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	showVersion = flag.Bool("version", false, "Show version and exit")
)

func main() {
	flag.Parse()

	// Handle version flag
	if *showVersion {
		fmt.Printf("EasyMesh Monitor %s\n", Version)
		os.Exit(0)
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	// Set log level from flag
	switch *logLevel {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "info":
		logger.SetLevel(logrus.InfoLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	logger.Infof("Starting EasyMesh Monitor %s", Version)

	// Load or initialize configuration
	cfg, err := config.LoadOrInitialize(*configFile)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Override database path if provided via flag
	databasePath := cfg.DatabasePath
	if *dbPath != "" {
		databasePath = *dbPath
		logger.Infof("Using database path from command line: %s", databasePath)
	}

	// Initialize database
	db, err := database.Initialize(databasePath)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize session store
	sessionStore := auth.NewSessionStore(cfg.SessionSecret)

	// Create app context
	app := &handlers.App{
		Config:       cfg,
		ConfigPath:   *configFile,
		DB:           db,
		Logger:       logger,
		SessionStore: sessionStore,
	}

	// Connect to the configured controller and start polling
	if cfg.IsConfigured() {
		go func() {
			if err := app.StartMonitoring(); err != nil {
				logger.Errorf("Failed to start controller monitoring: %v", err)
			}
		}()
	}

	// Setup routes
	router := setupRoutes(app)

	// Start server
	addr := fmt.Sprintf(":%d", *port)
	logger.Infof("Starting server on http://localhost%s", addr)

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		logger.Info("Shutting down...")
		app.StopMonitoring()
		os.Exit(0)
	}()

	// Create server with timeouts
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *handlers.App) *mux.Router {
	router := mux.NewRouter()

	// Setup and login routes (no auth required)
	router.HandleFunc("/api/setup", app.SetupAPIHandler).Methods("POST")
	router.HandleFunc("/api/login", app.LoginHandler).Methods("POST")
	router.HandleFunc("/api/logout", app.LogoutHandler).Methods("GET", "POST")

	// Protected routes (require authentication)
	api := router.PathPrefix("/api").Subrouter()
	api.Use(app.AuthMiddleware)

	api.HandleFunc("/status", app.GetStatusHandler).Methods("GET")
	api.HandleFunc("/topology", app.GetTopologyHandler).Methods("GET")
	api.HandleFunc("/agents", app.GetAgentsHandler).Methods("GET")
	api.HandleFunc("/stations", app.GetStationsHandler).Methods("GET")
	api.HandleFunc("/rssi", app.GetRSSIHandler).Methods("GET")
	api.HandleFunc("/events", app.GetEventsHandler).Methods("GET")

	api.HandleFunc("/connect", app.ConnectHandler).Methods("POST")
	api.HandleFunc("/disconnect", app.DisconnectHandler).Methods("POST")

	api.HandleFunc("/steer", app.SteerStationHandler).Methods("POST")
	api.HandleFunc("/vbss/move", app.VBSSMoveHandler).Methods("POST")
	api.HandleFunc("/vbss/create", app.VBSSCreateHandler).Methods("POST")
	api.HandleFunc("/vbss/destroy", app.VBSSDestroyHandler).Methods("POST")

	return router
}
