package nbapi

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/fbettag/easymesh-monitor/internal/easymesh"
	"github.com/fbettag/easymesh-monitor/internal/topology"
)

// newMockController serves the given records on the NBAPI dump endpoint.
func newMockController(t *testing.T, records []Record) (*httptest.Server, *Client) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/serviceElements/root_dm_path", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"path": DefaultRootDMPath})
	})
	mux.HandleFunc("/serviceElements/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(records)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	host, portStr, err := net.SplitHostPort(strings.TrimPrefix(server.URL, "http://"))
	if err != nil {
		t.Fatalf("failed to parse mock server address: %v", err)
	}
	port, _ := strconv.Atoi(portStr)
	return server, NewClient(host, port, "admin", "admin", NewTestLogger(t))
}

func TestPollerPublishesTopology(t *testing.T) {
	_, client := newMockController(t, meshRecords())

	cycles := make(chan *topology.Topology, 16)
	poller := NewPoller(client, NewHistory(), 10*time.Millisecond, NewTestLogger(t),
		func(topo *topology.Topology, moved []string) {
			cycles <- topo
		})
	poller.Start()
	defer poller.Stop()

	select {
	case topo := <-cycles:
		if topo.Controller() == nil {
			t.Error("published topology has no controller")
		}
		if topo.NumStations() != 2 {
			t.Errorf("NumStations() = %d, want 2", topo.NumStations())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no poll cycle completed")
	}

	if poller.Topology() == nil {
		t.Error("Topology() should return the published graph")
	}
	if poller.Heartbeats() == 0 {
		t.Error("Heartbeats() should count completed cycles")
	}
}

func TestPollerReportsMoves(t *testing.T) {
	// Swap the dump between cycles: station 1 moves from the controller's
	// radio to the extender's.
	first := meshRecords()
	second := meshRecords()
	for i, r := range second {
		if r.Path == ctrlRadioPath+"BSS.1.STA.1." {
			second[i] = rec(extRadioPath+"BSS.1.STA.2.", r.Parameters)
		}
	}
	var fetches int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "root_dm_path") {
			_ = json.NewEncoder(w).Encode(map[string]any{"path": DefaultRootDMPath})
			return
		}
		fetches++
		if fetches == 1 {
			_ = json.NewEncoder(w).Encode(first)
			return
		}
		_ = json.NewEncoder(w).Encode(second)
	}))
	defer server.Close()

	host, portStr, _ := net.SplitHostPort(strings.TrimPrefix(server.URL, "http://"))
	port, _ := strconv.Atoi(portStr)
	client := NewClient(host, port, "admin", "admin", NewTestLogger(t))

	moves := make(chan []string, 16)
	poller := NewPoller(client, NewHistory(), 10*time.Millisecond, NewTestLogger(t),
		func(topo *topology.Topology, moved []string) {
			moves <- moved
		})
	poller.Start()
	defer poller.Stop()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case moved := <-moves:
			if len(moved) == 0 {
				continue
			}
			if len(moved) != 1 || moved[0] != station1MAC {
				t.Fatalf("moved = %v, want [%s]", moved, station1MAC)
			}
			return
		case <-deadline:
			t.Fatal("move never reported")
		}
	}
}

func TestPollerStopsOnFetchError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	host, portStr, _ := net.SplitHostPort(strings.TrimPrefix(server.URL, "http://"))
	port, _ := strconv.Atoi(portStr)
	client := NewClient(host, port, "admin", "admin", NewTestLogger(t))

	poller := NewPoller(client, NewHistory(), 10*time.Millisecond, NewTestLogger(t), nil)
	poller.Start()

	// A failed fetch ends the polling task on its own.
	done := make(chan struct{})
	go func() {
		poller.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not stop after fetch error")
	}
	if poller.Heartbeats() != 0 {
		t.Errorf("Heartbeats() = %d, want 0", poller.Heartbeats())
	}
	if poller.Topology() != nil {
		t.Error("no topology should be published after a failed fetch")
	}
}

func TestClientFetchDataModel(t *testing.T) {
	_, client := newMockController(t, meshRecords())

	blob, err := client.FetchDataModel(context.Background())
	if err != nil {
		t.Fatalf("FetchDataModel() error: %v", err)
	}
	topo := Resolve(blob, NewHistory(), NewTestLogger(t))
	if len(topo.Agents()) != 2 {
		t.Errorf("len(Agents()) = %d, want 2", len(topo.Agents()))
	}
}

func TestClientResolveRootPath(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/serviceElements/root_dm_path", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"path": "Device.Custom.DataElements."})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	host, portStr, _ := net.SplitHostPort(strings.TrimPrefix(server.URL, "http://"))
	port, _ := strconv.Atoi(portStr)
	client := NewClient(host, port, "admin", "admin", NewTestLogger(t))

	if err := client.ResolveRootPath(context.Background()); err != nil {
		t.Fatalf("ResolveRootPath() error: %v", err)
	}
	if got := client.RootDMPath(); got != "Device.Custom.DataElements." {
		t.Errorf("RootDMPath() = %q, want the discovered path", got)
	}
}

func TestClientSendCommands(t *testing.T) {
	var received []map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/commands", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		received = append(received, payload)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	host, portStr, _ := net.SplitHostPort(strings.TrimPrefix(server.URL, "http://"))
	port, _ := strconv.Atoi(portStr)
	client := NewClient(host, port, "admin", "admin", NewTestLogger(t))

	bss := easymesh.NewBSS("Device.WiFi.DataElements.Network.Device.2.Radio.1.BSS.3.",
		easymesh.Params{"BSSID": extBSSID})
	if err := client.SendVBSSMoveRequest(context.Background(), station1MAC, extWiFiMAC, "MeshNet", "secret123", bss); err != nil {
		t.Fatalf("SendVBSSMoveRequest() error: %v", err)
	}

	if len(received) != 1 {
		t.Fatalf("len(received) = %d, want 1", len(received))
	}
	command, _ := received[0]["command"].(string)
	want := "Device.WiFi.DataElements.Network.Device.2.Radio.1.BSS.3.TriggerVBSSMove"
	if command != want {
		t.Errorf("command = %q, want %q", command, want)
	}
	args, _ := received[0]["inputArgs"].(map[string]any)
	if args["client_mac"] != station1MAC || args["dest_ruid"] != extWiFiMAC {
		t.Errorf("inputArgs = %v", args)
	}
}
