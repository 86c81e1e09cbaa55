package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"

	"neurocrypt/src/simulator"
)

const simulatorStatePath = "/auth/simulator-state"

// Client talks to the remote profile store holding per-user simulator state.
// Every call is a single attempt: load/save/delete failures are recoverable by
// the caller's next natural trigger, so there is no internal retry. The
// underlying transport timeout is left at its default.
type Client struct {
	http *resty.Client
}

// NewClient builds a profile-store client for one authenticated user.
// The bearer token scopes every request to that user.
func NewClient(baseURL, token string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = GetConfig().BackendBaseURL
		logger.Warnf("No base URL provided, using default: %s", baseURL)
	}
	baseURL = strings.TrimRight(baseURL, "/")

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(token)

	return &Client{http: httpClient}
}

type stateEnvelope struct {
	State json.RawMessage `json:"state"`
}

type saveRequest struct {
	State simulator.Account `json:"state"`
}

type saveResponse struct {
	Success bool `json:"success"`
}

// Load fetches the saved account. Returns (nil, nil) when the user has no
// saved state and wraps simulator.ErrCorruptState when the stored payload
// cannot be decoded.
func (c *Client) Load(ctx context.Context) (*simulator.Account, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(simulatorStatePath)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("profile store returned status %d", resp.StatusCode())
	}

	var envelope stateEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", simulator.ErrCorruptState, err)
	}
	if len(envelope.State) == 0 || string(envelope.State) == "null" {
		return nil, nil
	}

	var account simulator.Account
	if err := json.Unmarshal(envelope.State, &account); err != nil {
		return nil, fmt.Errorf("%w: %v", simulator.ErrCorruptState, err)
	}
	return &account, nil
}

// Save pushes the full account to the profile store.
func (c *Client) Save(ctx context.Context, account simulator.Account) error {
	var result saveResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(saveRequest{State: account}).
		SetResult(&result).
		Post(simulatorStatePath)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("profile store returned status %d", resp.StatusCode())
	}
	if !result.Success {
		return fmt.Errorf("profile store rejected the saved state")
	}
	return nil
}

// Delete clears the saved account for the user.
func (c *Client) Delete(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete(simulatorStatePath)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("profile store returned status %d", resp.StatusCode())
	}
	return nil
}
