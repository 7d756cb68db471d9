package daichi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/joshp123/gohome-daichi/internal/config"
	"github.com/joshp123/gohome-daichi/internal/shape"
)

// Client talks to the Daichi cloud API. It authenticates lazily on first use
// and shares one bearer session across all calls.
type Client struct {
	creds      Credentials
	httpClient *http.Client
	logger     *slog.Logger
	commandID  func() int

	sessions sessionGuard

	userMu   sync.Mutex
	mqttUser *MqttUser
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the base HTTP client used for every request.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	creds, err := cfg.Credentials()
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultDaichiTimeout
	}

	c := &Client{
		creds:      creds,
		httpClient: &http.Client{Timeout: timeout},
		logger:     slog.Default(),
		commandID:  randomCommandID,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("plugin", "daichi")
	c.sessions.build = c.newSession
	return c, nil
}

func (c *Client) newSession(ctx context.Context) (*session, error) {
	c.logger.Debug("daichi session init", "base_url", c.creds.BaseURL)

	token, err := Authenticate(ctx, c.httpClient, c.creds)
	if err != nil {
		c.logger.Debug("daichi token exchange failed", "error", err)
		return nil, err
	}
	c.logger.Debug("daichi token exchange ok")

	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	authed := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, c.httpClient), source)
	authed.Timeout = c.httpClient.Timeout

	return &session{baseURL: c.creds.BaseURL, client: authed}, nil
}

// fetch runs one authenticated request and validates the reply envelope.
func fetch[T any](ctx context.Context, c *Client, method, path, endpoint string, payload any, schema *shape.Schema) (T, error) {
	var zero T
	sess, err := c.sessions.get(ctx)
	if err != nil {
		return zero, err
	}

	body, err := sess.do(ctx, method, path, endpoint, payload)
	if err != nil {
		c.logger.Debug("daichi request failed", "endpoint", endpoint, "error", err)
		return zero, err
	}

	env, err := decodeEnvelope[T](endpoint, body, schema)
	if err != nil {
		c.logger.Debug("daichi reply rejected", "endpoint", endpoint, "error", err)
		return zero, err
	}
	if env.UpdateRequired {
		c.logger.Debug("daichi reports client update required", "endpoint", endpoint)
	}
	c.logger.Debug("daichi reply", "endpoint", endpoint, "done", env.Done)
	return env.Result()
}

// MqttUserInfo returns the broker credentials of the account. The first
// successful result is cached for the lifetime of the client.
func (c *Client) MqttUserInfo(ctx context.Context) (MqttUser, error) {
	c.userMu.Lock()
	cached := c.mqttUser
	c.userMu.Unlock()
	if cached != nil {
		return *cached, nil
	}

	user, err := fetch[User](ctx, c, http.MethodGet, "user", "user", nil, userEnvelope)
	if err != nil {
		return MqttUser{}, err
	}

	info := MqttUser{
		Username: user.MqttUser.Username,
		Password: user.MqttUser.Password,
		ID:       user.ID,
	}

	c.userMu.Lock()
	defer c.userMu.Unlock()
	if c.mqttUser == nil {
		c.mqttUser = &info
	}
	return *c.mqttUser, nil
}

// Buildings returns the buildings of the account in server order.
func (c *Client) Buildings(ctx context.Context) ([]Building, error) {
	return fetch[[]Building](ctx, c, http.MethodGet, "buildings", "buildings", nil, buildingsEnvelope)
}

// Places returns every building's device summaries, building by building.
func (c *Client) Places(ctx context.Context) ([]Place, error) {
	buildings, err := c.Buildings(ctx)
	if err != nil {
		return nil, err
	}
	return flattenPlaces(buildings), nil
}

func flattenPlaces(buildings []Building) []Place {
	var places []Place
	for _, building := range buildings {
		places = append(places, building.Places...)
	}
	return places
}

// Devices fetches the full state of every device concurrently. Results are in
// completion order. The first failed fetch cancels the rest and fails the call.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	places, err := c.Places(ctx)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		devices = make([]Device, 0, len(places))
	)
	group, groupCtx := errgroup.WithContext(ctx)
	for _, place := range places {
		id := place.ID
		group.Go(func() error {
			device, err := c.DeviceState(groupCtx, id)
			if err != nil {
				return &DeviceFetchError{DeviceID: id, Err: err}
			}
			mu.Lock()
			devices = append(devices, device)
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return devices, nil
}

// DeviceState returns the full state of one device.
func (c *Client) DeviceState(ctx context.Context, deviceID int) (Device, error) {
	path := "devices/" + strconv.Itoa(deviceID)
	return fetch[Device](ctx, c, http.MethodGet, path, "devices/{id}", nil, deviceEnvelope)
}

// ControlDevice sends one control command and returns the server snapshot.
func (c *Client) ControlDevice(ctx context.Context, deviceID, functionID int, value ControlValue) (ControlResult, error) {
	if value == nil {
		return ControlResult{}, errors.New("control value is required")
	}

	req := controlRequest{
		CmdID:               c.commandID(),
		Value:               newFunctionControl(functionID, value),
		ConflictResolveData: nil,
	}
	path := fmt.Sprintf("devices/%d/ctrl?ignoreConflicts=false", deviceID)
	c.logger.Debug("daichi control", "device_id", deviceID, "function_id", functionID, "cmd_id", req.CmdID)
	return fetch[ControlResult](ctx, c, http.MethodPost, path, "devices/{id}/ctrl", req, controlEnvelope)
}

// SetPower switches a device on or off through its power-on function.
func (c *Client) SetPower(ctx context.Context, deviceID int, on bool) (ControlResult, error) {
	device, err := c.DeviceState(ctx, deviceID)
	if err != nil {
		return ControlResult{}, err
	}
	fn, ok := device.PowerFunction()
	if !ok {
		return ControlResult{}, fmt.Errorf("device %d has no power function", deviceID)
	}
	return c.ControlDevice(ctx, deviceID, fn.ID, OnOff(on))
}
