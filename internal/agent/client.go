package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/constants"
	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/game"
)

// Client is the HTTP adapter for one external agent. One instance is bound
// to one agent process; it is safe for use by concurrent games because the
// game id travels with every request.
type Client struct {
	name    string
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the agent at baseURL. timeout bounds every
// protocol round trip on top of whatever deadline the caller's context
// carries.
func NewClient(name, baseURL string, timeout time.Duration) *Client {
	return &Client{
		name:    name,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Name() string { return c.name }

// CheckLiveness issues the liveness probe (GET /). Any success status means
// the agent is up; no body is required.
func (c *Client) CheckLiveness(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+constants.RouteLiveness, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("liveness check for %s: %w", c.name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("liveness check for %s: status %d", c.name, resp.StatusCode)
	}
	return nil
}

// WaitReady polls the liveness endpoint until the agent answers or the
// context expires.
func (c *Client) WaitReady(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := c.CheckLiveness(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("agent %s never became ready: %w", c.name, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *Client) RequestMove(ctx context.Context, gameID string, choices MoveChoices) (int, error) {
	var resp ChoiceResponse
	if err := c.call(ctx, constants.RouteChoices, gameID, choices, &resp); err != nil {
		return 0, err
	}
	if resp.ChoiceIndex < 0 || resp.ChoiceIndex >= len(choices.Choices) {
		return 0, &ProtocolError{
			Agent:    c.name,
			Endpoint: constants.RouteChoices,
			Reason:   fmt.Sprintf("choice index %d out of range [0, %d)", resp.ChoiceIndex, len(choices.Choices)),
		}
	}
	return resp.ChoiceIndex, nil
}

func (c *Client) RequestGamble(ctx context.Context, gameID string) (game.GambleChoice, error) {
	var choice game.GambleChoice
	if err := c.call(ctx, constants.RouteGamble, gameID, struct{}{}, &choice); err != nil {
		return "", err
	}
	if !choice.Valid() {
		return "", &ProtocolError{
			Agent:    c.name,
			Endpoint: constants.RouteGamble,
			Reason:   fmt.Sprintf("unknown gamble choice %q", string(choice)),
		}
	}
	return choice, nil
}

func (c *Client) RequestFight(ctx context.Context, gameID string, enemy EnemyStats) (game.FightChoice, error) {
	var choice game.FightChoice
	if err := c.call(ctx, constants.RouteFight, gameID, enemy, &choice); err != nil {
		return "", err
	}
	if !choice.Valid() {
		return "", &ProtocolError{
			Agent:    c.name,
			Endpoint: constants.RouteFight,
			Reason:   fmt.Sprintf("unknown fight choice %q", string(choice)),
		}
	}
	return choice, nil
}

// call performs one POST round trip and decodes the answer. Every failure
// mode maps to *ProtocolError so the driver can treat them uniformly.
func (c *Client) call(ctx context.Context, endpoint, gameID string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", endpoint, err)
	}

	u := c.baseURL + endpoint + "?" + url.Values{constants.QueryGameID: {gameID}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)

	resp, err := c.http.Do(req)
	if err != nil {
		return &ProtocolError{Agent: c.name, Endpoint: endpoint, Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ProtocolError{
			Agent:    c.name,
			Endpoint: endpoint,
			Reason:   fmt.Sprintf("status %d", resp.StatusCode),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return &ProtocolError{Agent: c.name, Endpoint: endpoint, Reason: "read body", Err: err}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ProtocolError{Agent: c.name, Endpoint: endpoint, Reason: "malformed response", Err: err}
	}
	return nil
}
