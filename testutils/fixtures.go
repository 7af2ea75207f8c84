package testutils

import (
	"os"
	"testing"
	"time"

	"github.com/fbettag/easymesh-monitor/internal/auth"
	"github.com/fbettag/easymesh-monitor/internal/config"
	"github.com/fbettag/easymesh-monitor/internal/database"
	"github.com/fbettag/easymesh-monitor/internal/handlers"
	"github.com/sirupsen/logrus"
)

// TestApp holds test application context
type TestApp struct {
	App     *handlers.App
	Config  *config.Config
	Cleanup func()
}

// NewTestApp creates a new test application instance
func NewTestApp(t *testing.T) *TestApp {
	// Create unique test files
	dbFile := "test_db_" + time.Now().Format("20060102150405.000000000") + ".db"

	// Set up logger with test level
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel) // Reduce noise in tests
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
	})

	// Create test config
	cfg := &config.Config{
		DatabasePath:  dbFile,
		SessionSecret: "test-session-secret-32-characters!",
		SetupComplete: false,
		Controller: config.ControllerConfig{
			Username:       "admin",
			PollIntervalMs: 50,
			RootDMPath:     "Device.WiFi.DataElements.",
			EventLogging:   true,
		},
	}

	// Initialize database
	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}

	// Initialize session store
	sessionStore := auth.NewSessionStore(cfg.SessionSecret)

	// Create app context
	app := &handlers.App{
		Config:       cfg,
		DB:           db,
		Logger:       logger,
		SessionStore: sessionStore,
	}

	cleanup := func() {
		app.StopMonitoring()
		if db != nil {
			db.Close()
		}
		os.Remove(dbFile)
	}

	return &TestApp{
		App:     app,
		Config:  cfg,
		Cleanup: cleanup,
	}
}

// CompleteSetup marks the app as configured against the given controller
func (ta *TestApp) CompleteSetup(host string, port int, username, password string) {
	ta.Config.SetupComplete = true
	ta.Config.Admin.Username = "admin"
	_ = ta.Config.SetAdminPassword("test-password")
	ta.Config.Controller.Host = host
	ta.Config.Controller.Port = port
	ta.Config.Controller.Username = username
	ta.Config.Controller.Password = password
}
