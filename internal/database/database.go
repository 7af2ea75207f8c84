package database

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	*sql.DB
}

// EventEntry is one row of the mesh event log: a station move, a
// steering result, or a connection lifecycle event.
type EventEntry struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	StationMAC string    `json:"station_mac"`
	Event      string    `json:"event"` // "station_moved", "steered", "connected", "disconnected"
	FromRUID   string    `json:"from_ruid,omitempty"`
	ToRUID     string    `json:"to_ruid,omitempty"`
	Message    string    `json:"message"`
}

func Initialize(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Create tables
	if err := createTables(db); err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		station_mac TEXT NOT NULL,
		event TEXT NOT NULL,
		from_ruid TEXT,
		to_ruid TEXT,
		message TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
	CREATE INDEX IF NOT EXISTS idx_events_station_mac ON events(station_mac);
	CREATE INDEX IF NOT EXISTS idx_events_event ON events(event);

	CREATE TABLE IF NOT EXISTS station_states (
		mac TEXT PRIMARY KEY,
		current_ruid TEXT,
		last_seen DATETIME,
		is_connected BOOLEAN DEFAULT FALSE
	);
	`

	_, err := db.Exec(schema)
	return err
}

func (db *DB) LogEvent(entry *EventEntry) error {
	query := `
		INSERT INTO events (station_mac, event, from_ruid, to_ruid, message)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := db.Exec(query, entry.StationMAC, entry.Event, entry.FromRUID, entry.ToRUID, entry.Message)
	return err
}

func (db *DB) GetEvents(limit int, offset int) ([]EventEntry, error) {
	query := `
		SELECT id, timestamp, station_mac, event,
		       COALESCE(from_ruid, ''), COALESCE(to_ruid, ''), message
		FROM events
		ORDER BY timestamp DESC
		LIMIT ? OFFSET ?
	`

	rows, err := db.Query(query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (db *DB) GetEventsByStation(mac string, limit int) ([]EventEntry, error) {
	query := `
		SELECT id, timestamp, station_mac, event,
		       COALESCE(from_ruid, ''), COALESCE(to_ruid, ''), message
		FROM events
		WHERE station_mac = ?
		ORDER BY timestamp DESC
		LIMIT ?
	`

	rows, err := db.Query(query, mac, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (db *DB) GetRecentEvents(hours int) ([]EventEntry, error) {
	query := `
		SELECT id, timestamp, station_mac, event,
		       COALESCE(from_ruid, ''), COALESCE(to_ruid, ''), message
		FROM events
		WHERE timestamp > datetime('now', '-' || ? || ' hours')
		ORDER BY timestamp DESC
	`

	rows, err := db.Query(query, hours)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]EventEntry, error) {
	var events []EventEntry
	for rows.Next() {
		var e EventEntry
		err := rows.Scan(&e.ID, &e.Timestamp, &e.StationMAC, &e.Event,
			&e.FromRUID, &e.ToRUID, &e.Message)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (db *DB) UpdateStationState(mac, currentRUID string, isConnected bool) error {
	query := `
		INSERT INTO station_states (mac, current_ruid, last_seen, is_connected)
		VALUES (?, ?, CURRENT_TIMESTAMP, ?)
		ON CONFLICT(mac) DO UPDATE SET
			current_ruid = excluded.current_ruid,
			last_seen = excluded.last_seen,
			is_connected = excluded.is_connected
	`
	_, err := db.Exec(query, mac, currentRUID, isConnected)
	return err
}

func (db *DB) GetStationState(mac string) (currentRUID string, lastSeen time.Time, isConnected bool, err error) {
	query := `SELECT current_ruid, last_seen, is_connected FROM station_states WHERE mac = ?`
	err = db.QueryRow(query, mac).Scan(&currentRUID, &lastSeen, &isConnected)
	if err == sql.ErrNoRows {
		return "", time.Time{}, false, nil
	}
	return
}

func (db *DB) GetConnectedStations() (map[string]bool, error) {
	query := `SELECT mac FROM station_states WHERE is_connected = true`
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	connected := make(map[string]bool)
	for rows.Next() {
		var mac string
		if err := rows.Scan(&mac); err != nil {
			return nil, err
		}
		connected[mac] = true
	}

	return connected, rows.Err()
}

// DeleteOldEvents deletes event entries older than the specified number of days
func (db *DB) DeleteOldEvents(daysToKeep int) (int64, error) {
	query := `DELETE FROM events WHERE timestamp < datetime('now', '-' || ? || ' days')`
	result, err := db.Exec(query, daysToKeep)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
