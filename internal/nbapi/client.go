package nbapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultRootDMPath is the root data-model path controllers historically
// exposed. Newer firmware makes it configurable, so the client can
// rediscover it via ResolveRootPath.
const DefaultRootDMPath = "Device.WiFi.DataElements."

// Client talks HTTP to a controller's NBAPI proxy.
type Client struct {
	httpClient *http.Client
	baseURL    string
	username   string
	password   string
	rootDMPath string
	logger     Logger
}

// NewClient creates an NBAPI client for the controller at host:port,
// authenticating with HTTP basic auth.
func NewClient(host string, port int, username, password string, logger Logger) *Client {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:    fmt.Sprintf("http://%s:%d", host, port),
		username:   username,
		password:   password,
		rootDMPath: DefaultRootDMPath,
		logger:     logger,
	}
}

// RootDMPath returns the data-model root path currently in use.
func (c *Client) RootDMPath() string {
	return c.rootDMPath
}

// SetRootDMPath overrides the data-model root path, typically from
// configuration. Empty values are ignored.
func (c *Client) SetRootDMPath(path string) {
	if path != "" {
		c.rootDMPath = path
	}
}

// FetchDataModel retrieves the full parameter dump under the root
// data-model path and returns the decoded JSON body.
func (c *Client) FetchDataModel(ctx context.Context) (any, error) {
	url := fmt.Sprintf("%s/serviceElements/%s", c.baseURL, c.rootDMPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch data model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("data model fetch returned status %d", resp.StatusCode)
	}

	var blob any
	if err := json.NewDecoder(resp.Body).Decode(&blob); err != nil {
		return nil, fmt.Errorf("failed to decode data model: %w", err)
	}
	return blob, nil
}

// ResolveRootPath asks the controller which root data-model path it
// exposes and updates the client when it differs from the current one.
// Called when a dump could not be resolved into a topology, since the
// usual cause is a relocated data-model root.
func (c *Client) ResolveRootPath(ctx context.Context) error {
	url := c.baseURL + "/serviceElements/root_dm_path"
	c.logger.Debugf("Checking root DM path at %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to resolve root DM path: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("root DM path lookup returned status %d", resp.StatusCode)
	}

	var body struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode root DM path: %w", err)
	}
	if body.Path != "" && body.Path != c.rootDMPath {
		c.logger.Infof("Root DM path changed to %s", body.Path)
		c.rootDMPath = body.Path
	}
	return nil
}

// SendCommand posts a command payload to the controller's command
// endpoint.
func (c *Client) SendCommand(ctx context.Context, payload map[string]any) error {
	url := c.baseURL + "/commands"
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	c.logger.Debugf("Sending NBAPI command to %s, payload=%s", url, body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send command: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("command endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
