package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fbettag/easymesh-monitor/testutils"
	"github.com/gorilla/mux"
)

func newTestRouter(ta *testutils.TestApp) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/api/setup", ta.App.SetupAPIHandler).Methods("POST")
	router.HandleFunc("/api/login", ta.App.LoginHandler).Methods("POST")
	router.HandleFunc("/api/logout", ta.App.LogoutHandler).Methods("POST")

	api := router.PathPrefix("/api").Subrouter()
	api.Use(ta.App.AuthMiddleware)
	api.HandleFunc("/status", ta.App.GetStatusHandler).Methods("GET")
	api.HandleFunc("/stations", ta.App.GetStationsHandler).Methods("GET")
	api.HandleFunc("/topology", ta.App.GetTopologyHandler).Methods("GET")
	api.HandleFunc("/events", ta.App.GetEventsHandler).Methods("GET")
	api.HandleFunc("/rssi", ta.App.GetRSSIHandler).Methods("GET")
	return router
}

func postJSON(t *testing.T, router *mux.Router, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLoginFlow(t *testing.T) {
	ta := testutils.NewTestApp(t)
	defer ta.Cleanup()
	ta.CompleteSetup("192.168.1.1", 8080, "admin", "secret")
	router := newTestRouter(ta)

	// Protected endpoints refuse anonymous requests.
	req := httptest.NewRequest("GET", "/api/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous /api/status = %d, want 401", w.Code)
	}

	// Wrong password is rejected.
	w = postJSON(t, router, "/api/login", map[string]string{
		"username": "admin", "password": "wrong",
	}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad login = %d, want 401", w.Code)
	}

	// Correct credentials yield a session cookie.
	w = postJSON(t, router, "/api/login", map[string]string{
		"username": "admin", "password": "test-password",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login = %d, want 200", w.Code)
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("login set no session cookie")
	}

	// The cookie unlocks protected endpoints.
	req = httptest.NewRequest("GET", "/api/status", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	if w2.Code != http.StatusOK {
		t.Errorf("authenticated /api/status = %d, want 200", w2.Code)
	}

	var status map[string]any
	if err := json.NewDecoder(w2.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode status: %v", err)
	}
	if connected, _ := status["connected"].(bool); connected {
		t.Error("status should report disconnected without a poller")
	}
}

func TestSetupAPIHandler(t *testing.T) {
	ta := testutils.NewTestApp(t)
	defer ta.Cleanup()
	router := newTestRouter(ta)

	// Malformed controller addresses are rejected.
	w := postJSON(t, router, "/api/setup", map[string]any{
		"admin_username": "admin",
		"admin_password": "hunter22!",
		"host":           "not-an-ip",
		"port":           8080,
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("setup with bad host = %d, want 400", w.Code)
	}

	// Valid setup completes and persists.
	w = postJSON(t, router, "/api/setup", map[string]any{
		"admin_username": "admin",
		"admin_password": "hunter22!",
		"host":           "192.168.1.1",
		"port":           8080,
		"username":       "nbapi",
		"password":       "secret",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("setup = %d, want 200: %s", w.Code, w.Body.String())
	}
	if !ta.Config.IsConfigured() {
		t.Error("config not marked configured after setup")
	}
	if !ta.Config.VerifyAdminPassword("hunter22!") {
		t.Error("admin password not stored")
	}

	// A second setup attempt is refused.
	w = postJSON(t, router, "/api/setup", map[string]any{
		"admin_username": "eve",
		"admin_password": "evilpassword",
		"host":           "192.168.1.2",
		"port":           8080,
	}, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("repeated setup = %d, want 403", w.Code)
	}
}

func TestStationsEndpointAgainstMockController(t *testing.T) {
	ta := testutils.NewTestApp(t)
	defer ta.Cleanup()

	mock := testutils.NewMockNBAPIServer(testutils.SampleMeshRecords())
	defer mock.Close()

	ta.CompleteSetup(mock.Host, mock.Port, "admin", "secret")
	if err := ta.App.StartMonitoring(); err != nil {
		t.Fatalf("StartMonitoring() error: %v", err)
	}

	// Wait for the first poll cycle to publish a topology.
	deadline := time.Now().Add(5 * time.Second)
	for ta.App.Topology() == nil {
		if time.Now().After(deadline) {
			t.Fatal("no topology published")
		}
		time.Sleep(10 * time.Millisecond)
	}

	router := newTestRouter(ta)
	w := postJSON(t, router, "/api/login", map[string]string{
		"username": "admin", "password": "test-password",
	}, nil)
	cookies := w.Result().Cookies()

	req := httptest.NewRequest("GET", "/api/stations", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	if w2.Code != http.StatusOK {
		t.Fatalf("/api/stations = %d: %s", w2.Code, w2.Body.String())
	}

	var stations []map[string]any
	if err := json.NewDecoder(w2.Body).Decode(&stations); err != nil {
		t.Fatalf("failed to decode stations: %v", err)
	}
	if len(stations) != 2 {
		t.Fatalf("len(stations) = %d, want 2", len(stations))
	}
	macs := map[string]bool{}
	for _, sta := range stations {
		mac, _ := sta["mac"].(string)
		macs[mac] = true
	}
	if !macs[testutils.SampleStation1MAC] || !macs[testutils.SampleStation2MAC] {
		t.Errorf("stations = %v", macs)
	}
}
