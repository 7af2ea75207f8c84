package testutils

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/fbettag/easymesh-monitor/internal/nbapi"
)

// MockNBAPIServer provides a mock EasyMesh controller NBAPI endpoint for
// testing. It serves a configurable record dump and records every command
// posted to it.
type MockNBAPIServer struct {
	Server *httptest.Server
	Host   string
	Port   int

	mu         sync.Mutex
	records    []nbapi.Record
	rootDMPath string
	commands   []map[string]interface{}
}

// NewMockNBAPIServer creates a mock controller serving the given records.
func NewMockNBAPIServer(records []nbapi.Record) *MockNBAPIServer {
	m := &MockNBAPIServer{
		records:    records,
		rootDMPath: nbapi.DefaultRootDMPath,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/serviceElements/root_dm_path", func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		path := m.rootDMPath
		m.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"path": path,
		}); err != nil {
			log.Printf("Failed to encode response: %v", err)
		}
	})

	mux.HandleFunc("/serviceElements/", func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		records := m.records
		m.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			log.Printf("Failed to encode response: %v", err)
		}
	})

	mux.HandleFunc("/commands", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}

		m.mu.Lock()
		m.commands = append(m.commands, payload)
		m.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ok",
		}); err != nil {
			log.Printf("Failed to encode response: %v", err)
		}
	})

	m.Server = httptest.NewServer(mux)

	host, portStr, _ := net.SplitHostPort(strings.TrimPrefix(m.Server.URL, "http://"))
	port, _ := strconv.Atoi(portStr)
	m.Host = host
	m.Port = port

	return m
}

// SetRecords swaps out the record dump served on the next fetch.
func (m *MockNBAPIServer) SetRecords(records []nbapi.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = records
}

// SetRootDMPath changes the root path the mock reports.
func (m *MockNBAPIServer) SetRootDMPath(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rootDMPath = path
}

// Commands returns all command payloads received so far.
func (m *MockNBAPIServer) Commands() []map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]map[string]interface{}, len(m.commands))
	copy(out, m.commands)
	return out
}

// Close shuts down the mock server.
func (m *MockNBAPIServer) Close() {
	m.Server.Close()
}
