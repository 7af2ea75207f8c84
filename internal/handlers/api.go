package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/fbettag/easymesh-monitor/internal/config"
	"github.com/fbettag/easymesh-monitor/internal/easymesh"
	"github.com/fbettag/easymesh-monitor/internal/validation"
)

// Helper function to send JSON error responses
func (app *App) sendJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	}); err != nil {
		app.Logger.Errorf("Failed to encode error response: %v", err)
	}
}

func (app *App) sendJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		app.Logger.Errorf("Failed to encode response: %v", err)
	}
}

// Middleware to check authentication
func (app *App) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !app.SessionStore.IsAuthenticated(r) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Login endpoint
func (app *App) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		app.sendJSONError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if req.Username != app.Config.Admin.Username || !app.Config.VerifyAdminPassword(req.Password) {
		app.sendJSONError(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	if err := app.SessionStore.Login(r, w); err != nil {
		app.Logger.Errorf("Failed to create session: %v", err)
		app.sendJSONError(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	app.sendJSON(w, map[string]interface{}{"success": true})
}

// Logout endpoint
func (app *App) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.SessionStore.Logout(r, w); err != nil {
		app.Logger.Errorf("Failed to destroy session: %v", err)
	}
	app.sendJSON(w, map[string]interface{}{"success": true})
}

// First-run setup endpoint: creates the admin account and controller
// settings. Refused once setup is complete.
func (app *App) SetupAPIHandler(w http.ResponseWriter, r *http.Request) {
	if app.Config.IsConfigured() {
		app.sendJSONError(w, "Setup already complete", http.StatusForbidden)
		return
	}

	var req struct {
		AdminUsername string `json:"admin_username"`
		AdminPassword string `json:"admin_password"`
		Host          string `json:"host"`
		Port          int    `json:"port"`
		Username      string `json:"username"`
		Password      string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		app.sendJSONError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.AdminUsername == "" || len(req.AdminPassword) < 8 {
		app.sendJSONError(w, "Admin username and a password of at least 8 characters are required", http.StatusBadRequest)
		return
	}
	if !validation.IsIPv4(req.Host) {
		app.sendJSONError(w, fmt.Sprintf("'%s' is not a valid IPv4 address", req.Host), http.StatusBadRequest)
		return
	}
	if !validation.IsPort(strconv.Itoa(req.Port)) {
		app.sendJSONError(w, fmt.Sprintf("'%d' is not a valid port", req.Port), http.StatusBadRequest)
		return
	}

	app.Config.Admin.Username = req.AdminUsername
	if err := app.Config.SetAdminPassword(req.AdminPassword); err != nil {
		app.sendJSONError(w, "Failed to hash admin password", http.StatusInternalServerError)
		return
	}
	app.Config.Controller.Host = req.Host
	app.Config.Controller.Port = req.Port
	if req.Username != "" {
		app.Config.Controller.Username = req.Username
	}
	app.Config.Controller.Password = req.Password
	app.Config.SetupComplete = true

	if app.ConfigPath != "" {
		if err := config.SaveConfig(app.ConfigPath, app.Config); err != nil {
			app.Logger.Errorf("Failed to save configuration: %v", err)
			app.sendJSONError(w, "Failed to save configuration", http.StatusInternalServerError)
			return
		}
	}

	app.sendJSON(w, map[string]interface{}{"success": true})
}

// Status endpoint
func (app *App) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"connected":  app.IsConnected(),
		"heartbeats": app.Heartbeats(),
	}
	if topo := app.Topology(); topo != nil {
		status["ssid"] = topo.SSID()
		status["num_agents"] = len(topo.Agents())
		status["num_stations"] = topo.NumStations()
		status["num_connections"] = topo.NumConnections()
		if controller := topo.Controller(); controller != nil {
			status["controller_id"] = controller.ID()
		}
	}
	app.sendJSON(w, status)
}

// Topology endpoint: the full agent forest as the renderer consumes it.
// Agent attribute bags carry the mirrored radio/interface/station lists,
// so serializing them yields the whole graph.
func (app *App) GetTopologyHandler(w http.ResponseWriter, r *http.Request) {
	topo := app.Topology()
	if topo == nil {
		app.sendJSONError(w, "Not connected to a controller", http.StatusServiceUnavailable)
		return
	}

	agents := make([]easymesh.Params, 0, len(topo.Agents()))
	controllerID := ""
	for _, agent := range topo.Agents() {
		agents = append(agents, agent.Params)
		if agent.IsController {
			controllerID = agent.ID()
		}
	}
	app.sendJSON(w, map[string]interface{}{
		"controller_id": controllerID,
		"agents":        agents,
		"connections":   topo.Connections(),
	})
}

// Agents endpoint
func (app *App) GetAgentsHandler(w http.ResponseWriter, r *http.Request) {
	topo := app.Topology()
	if topo == nil {
		app.sendJSONError(w, "Not connected to a controller", http.StatusServiceUnavailable)
		return
	}

	type agentInfo struct {
		ID           string `json:"id"`
		Hash         string `json:"hash"`
		Manufacturer string `json:"manufacturer,omitempty"`
		NumRadios    int    `json:"num_radios"`
		NumStations  int    `json:"num_stations"`
		IsController bool   `json:"is_controller"`
	}
	agents := make([]agentInfo, 0, len(topo.Agents()))
	for _, agent := range topo.Agents() {
		agents = append(agents, agentInfo{
			ID:           agent.ID(),
			Hash:         agent.HashID(),
			Manufacturer: agent.Manufacturer(),
			NumRadios:    agent.NumRadios(),
			NumStations:  len(agent.ConnectedStations()),
			IsController: agent.IsController,
		})
	}
	app.sendJSON(w, agents)
}

// Stations endpoint
func (app *App) GetStationsHandler(w http.ResponseWriter, r *http.Request) {
	topo := app.Topology()
	if topo == nil {
		app.sendJSONError(w, "Not connected to a controller", http.StatusServiceUnavailable)
		return
	}

	type stationInfo struct {
		MAC     string `json:"mac"`
		Hash    string `json:"hash"`
		BSSID   string `json:"bssid"`
		RUID    string `json:"ruid"`
		RSSI    int    `json:"rssi"`
		Steered bool   `json:"steered"`
	}
	stations := make([]stationInfo, 0)
	for _, sta := range topo.Stations() {
		mac := sta.MAC()
		stations = append(stations, stationInfo{
			MAC:     mac,
			Hash:    sta.HashMAC(),
			BSSID:   topo.BSSIDForStation(mac),
			RUID:    topo.RUIDForStation(mac),
			RSSI:    sta.RSSI(),
			Steered: sta.Steered,
		})
	}
	app.sendJSON(w, stations)
}

// RSSI endpoint: every accumulated signal strength series on the current
// connection, keyed by radio then station MAC.
func (app *App) GetRSSIHandler(w http.ResponseWriter, r *http.Request) {
	app.sendJSON(w, app.History().AllRSSI())
}

// Events endpoint
func (app *App) GetEventsHandler(w http.ResponseWriter, r *http.Request) {
	limit := 100
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	events, err := app.DB.GetEvents(limit, offset)
	if err != nil {
		app.Logger.Errorf("Failed to fetch events: %v", err)
		app.sendJSONError(w, "Failed to fetch events", http.StatusInternalServerError)
		return
	}
	app.sendJSON(w, events)
}

// Connect endpoint: (re)establish the controller connection.
func (app *App) ConnectHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Host     string `json:"host"`
		Port     int    `json:"port"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		app.sendJSONError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if !validation.IsIPv4(req.Host) {
		app.sendJSONError(w, fmt.Sprintf("'%s' is not a valid IPv4 address", req.Host), http.StatusBadRequest)
		return
	}
	if !validation.IsPort(strconv.Itoa(req.Port)) {
		app.sendJSONError(w, fmt.Sprintf("'%d' is not a valid port", req.Port), http.StatusBadRequest)
		return
	}
	if req.Username == "" {
		req.Username = app.Config.Controller.Username
	}

	if err := app.Connect(req.Host, req.Port, req.Username, req.Password); err != nil {
		app.sendJSONError(w, err.Error(), http.StatusBadGateway)
		return
	}
	app.sendJSON(w, map[string]interface{}{"success": true})
}

// Disconnect endpoint
func (app *App) DisconnectHandler(w http.ResponseWriter, r *http.Request) {
	app.StopMonitoring()
	app.sendJSON(w, map[string]interface{}{"success": true})
}

// Client steering endpoint
func (app *App) SteerStationHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StationMAC  string `json:"station_mac"`
		TargetBSSID string `json:"target_bssid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		app.sendJSONError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	topo := app.Topology()
	client := app.Client()
	if topo == nil || client == nil {
		app.sendJSONError(w, "Not connected to a controller", http.StatusServiceUnavailable)
		return
	}
	if ok, reason := validation.VBSSClientMAC(strings.ToLower(req.StationMAC), topo); !ok {
		app.sendJSONError(w, reason, http.StatusBadRequest)
		return
	}

	if err := client.SendClientSteeringRequest(r.Context(), req.StationMAC, req.TargetBSSID); err != nil {
		app.Logger.Errorf("Steering request failed: %v", err)
		app.sendJSONError(w, "Steering request failed", http.StatusBadGateway)
		return
	}
	app.sendJSON(w, map[string]interface{}{"success": true})
}

// VBSS move endpoint
func (app *App) VBSSMoveHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientMAC string `json:"client_mac"`
		DestRUID  string `json:"dest_ruid"`
		SSID      string `json:"ssid"`
		Password  string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		app.sendJSONError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	topo := app.Topology()
	client := app.Client()
	if topo == nil || client == nil {
		app.sendJSONError(w, "Not connected to a controller", http.StatusServiceUnavailable)
		return
	}
	if ok, reason := validation.VBSSClientMAC(strings.ToLower(req.ClientMAC), topo); !ok {
		app.sendJSONError(w, reason, http.StatusBadRequest)
		return
	}
	if ok, reason := validation.VBSSPassword(req.Password); !ok {
		app.sendJSONError(w, reason, http.StatusBadRequest)
		return
	}
	if !topo.ValidateVBSSMoveRequest(req.ClientMAC, req.DestRUID) {
		app.sendJSONError(w, "Station is already on the target radio", http.StatusBadRequest)
		return
	}

	bssid := topo.BSSIDForStation(req.ClientMAC)
	bss := topo.BSSByBSSID(bssid)
	if bss == nil {
		app.sendJSONError(w, "Station is not connected to any BSS", http.StatusBadRequest)
		return
	}

	if err := client.SendVBSSMoveRequest(r.Context(), req.ClientMAC, req.DestRUID, req.SSID, req.Password, bss); err != nil {
		app.Logger.Errorf("VBSS move request failed: %v", err)
		app.sendJSONError(w, "VBSS move request failed", http.StatusBadGateway)
		return
	}
	app.sendJSON(w, map[string]interface{}{"success": true})
}

// VBSS creation endpoint
func (app *App) VBSSCreateHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VBSSID    string `json:"vbssid"`
		ClientMAC string `json:"client_mac"`
		SSID      string `json:"ssid"`
		Password  string `json:"password"`
		RUID      string `json:"ruid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		app.sendJSONError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	topo := app.Topology()
	client := app.Client()
	if topo == nil || client == nil {
		app.sendJSONError(w, "Not connected to a controller", http.StatusServiceUnavailable)
		return
	}
	if ok, reason := validation.VBSSID(strings.ToLower(req.VBSSID), topo); !ok {
		app.sendJSONError(w, reason, http.StatusBadRequest)
		return
	}
	if ok, reason := validation.VBSSClientMAC(strings.ToLower(req.ClientMAC), topo); !ok {
		app.sendJSONError(w, reason, http.StatusBadRequest)
		return
	}
	if ok, reason := validation.VBSSPassword(req.Password); !ok {
		app.sendJSONError(w, reason, http.StatusBadRequest)
		return
	}
	radio := topo.RadioByRUID(req.RUID)
	if radio == nil {
		app.sendJSONError(w, fmt.Sprintf("Radio '%s' not known on the network", req.RUID), http.StatusBadRequest)
		return
	}

	if err := client.SendVBSSCreationRequest(r.Context(), req.VBSSID, req.ClientMAC, req.SSID, req.Password, radio); err != nil {
		app.Logger.Errorf("VBSS creation request failed: %v", err)
		app.sendJSONError(w, "VBSS creation request failed", http.StatusBadGateway)
		return
	}
	app.sendJSON(w, map[string]interface{}{"success": true})
}

// VBSS destruction endpoint
func (app *App) VBSSDestroyHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BSSID              string `json:"bssid"`
		ClientMAC          string `json:"client_mac"`
		ShouldDisassociate bool   `json:"should_disassociate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		app.sendJSONError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	topo := app.Topology()
	client := app.Client()
	if topo == nil || client == nil {
		app.sendJSONError(w, "Not connected to a controller", http.StatusServiceUnavailable)
		return
	}
	bss := topo.BSSByBSSID(req.BSSID)
	if bss == nil {
		app.sendJSONError(w, fmt.Sprintf("BSS '%s' not known on the network", req.BSSID), http.StatusBadRequest)
		return
	}

	if err := client.SendVBSSDestructionRequest(r.Context(), req.ClientMAC, req.ShouldDisassociate, bss); err != nil {
		app.Logger.Errorf("VBSS destruction request failed: %v", err)
		app.sendJSONError(w, "VBSS destruction request failed", http.StatusBadGateway)
		return
	}
	app.sendJSON(w, map[string]interface{}{"success": true})
}
