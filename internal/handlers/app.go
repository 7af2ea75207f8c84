package handlers

import (
	"fmt"
	"sync"
	"time"

	"github.com/fbettag/easymesh-monitor/internal/auth"
	"github.com/fbettag/easymesh-monitor/internal/config"
	"github.com/fbettag/easymesh-monitor/internal/database"
	"github.com/fbettag/easymesh-monitor/internal/nbapi"
	"github.com/fbettag/easymesh-monitor/internal/topology"
	"github.com/sirupsen/logrus"
)

type App struct {
	Config       *config.Config
	ConfigPath   string
	DB           *database.DB
	Logger       *logrus.Logger
	SessionStore *auth.SessionStore

	// Connection state. One poller runs at a time; the history store
	// outlives pollers so that station movement survives reconnects to
	// the same controller.
	mu      sync.RWMutex
	client  *nbapi.Client
	poller  *nbapi.Poller
	history *nbapi.History

	cleanupStop chan struct{}
}

// History returns the cross-cycle history store, creating it on first use.
func (app *App) History() *nbapi.History {
	app.mu.Lock()
	defer app.mu.Unlock()
	if app.history == nil {
		app.history = nbapi.NewHistory()
	}
	return app.history
}

// Topology returns the most recently published topology, or nil when no
// poller is running or no cycle has completed yet.
func (app *App) Topology() *topology.Topology {
	app.mu.RLock()
	defer app.mu.RUnlock()
	if app.poller == nil {
		return nil
	}
	return app.poller.Topology()
}

// Client returns the active NBAPI client, or nil when disconnected.
func (app *App) Client() *nbapi.Client {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.client
}

// Heartbeats returns the number of completed poll cycles on the current
// connection.
func (app *App) Heartbeats() int {
	app.mu.RLock()
	defer app.mu.RUnlock()
	if app.poller == nil {
		return 0
	}
	return app.poller.Heartbeats()
}

// IsConnected reports whether a poller is currently running.
func (app *App) IsConnected() bool {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.poller != nil
}

// StartMonitoring connects to the controller configured in the config
// file. Called at startup when setup is complete.
func (app *App) StartMonitoring() error {
	ctrl := app.Config.Controller
	return app.Connect(ctrl.Host, ctrl.Port, ctrl.Username, ctrl.Password)
}

// Connect establishes a new controller connection, stopping any previous
// poller first. Only one poller runs per process.
func (app *App) Connect(host string, port int, username, password string) error {
	if host == "" {
		return fmt.Errorf("no controller host given")
	}

	app.StopMonitoring()

	history := app.History()
	meshLogger := nbapi.NewLogrusAdapter(app.Logger)
	client := nbapi.NewClient(host, port, username, password, meshLogger)
	client.SetRootDMPath(app.Config.Controller.RootDMPath)

	cadence := time.Duration(app.Config.Controller.PollIntervalMs) * time.Millisecond
	if cadence <= 0 {
		cadence = time.Second
	}
	poller := nbapi.NewPoller(client, history, cadence, meshLogger, app.onPollCycle)

	app.mu.Lock()
	app.client = client
	app.poller = poller
	app.cleanupStop = make(chan struct{})
	app.mu.Unlock()

	app.Logger.Infof("Connecting to controller at %s:%d", host, port)
	poller.Start()
	go app.startCleanupJob(app.cleanupStop)
	return nil
}

// StopMonitoring stops the active poller, if any.
func (app *App) StopMonitoring() {
	app.mu.Lock()
	poller := app.poller
	cleanupStop := app.cleanupStop
	app.poller = nil
	app.client = nil
	app.cleanupStop = nil
	app.mu.Unlock()

	if poller != nil {
		app.Logger.Info("Stopping controller monitoring")
		poller.Stop()
	}
	if cleanupStop != nil {
		close(cleanupStop)
	}
}

// onPollCycle runs after every completed resolve: it persists station
// movement events and refreshes the station state table.
func (app *App) onPollCycle(topo *topology.Topology, moved []string) {
	for _, mac := range moved {
		ruid := topo.RUIDForStation(mac)
		app.Logger.Infof("Station %s moved to radio %s", mac, ruid)

		if app.Config.Controller.EventLogging {
			if err := app.DB.LogEvent(&database.EventEntry{
				StationMAC: mac,
				Event:      "station_moved",
				ToRUID:     ruid,
				Message:    "Station moved between radios",
			}); err != nil {
				app.Logger.Errorf("Failed to log move event for %s: %v", mac, err)
			}
		}
	}

	for _, sta := range topo.Stations() {
		mac := sta.MAC()
		if err := app.DB.UpdateStationState(mac, topo.RUIDForStation(mac), true); err != nil {
			app.Logger.Errorf("Failed to update station state for %s: %v", mac, err)
		}
	}
}

// startCleanupJob runs a background job to clean up old events every hour
func (app *App) startCleanupJob(stop chan struct{}) {
	app.Logger.Info("Starting event cleanup job (runs every hour)")

	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	// Run initial cleanup
	app.cleanupOldEvents()

	for {
		select {
		case <-ticker.C:
			app.cleanupOldEvents()
		case <-stop:
			app.Logger.Info("Stopping event cleanup job")
			return
		}
	}
}

func (app *App) cleanupOldEvents() {
	// Delete events older than 30 days
	deletedCount, err := app.DB.DeleteOldEvents(30)
	if err != nil {
		app.Logger.Errorf("Failed to delete old events: %v", err)
		return
	}

	if deletedCount > 0 {
		app.Logger.Infof("Deleted %d old event entries (>30 days)", deletedCount)
	}
}
