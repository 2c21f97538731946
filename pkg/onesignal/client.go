package onesignal

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hotelops/reclamations-backend/pkg/config"
)

// PageSize is the largest page the players endpoint returns.
const PageSize = 300

// Notification is a push message addressed to device subscription tokens.
type Notification struct {
	PlayerIDs []string
	Heading   string
	Content   string
}

// Player is a registered OneSignal device.
type Player struct {
	ID         string `json:"id"`
	DeviceType int    `json:"device_type"`
	LastActive int64  `json:"last_active"`
	InvalidID  bool   `json:"invalid_identifier"`
}

// Client talks to the OneSignal REST API.
type Client struct {
	http  *resty.Client
	appID string
}

type createNotificationRequest struct {
	AppID            string            `json:"app_id"`
	IncludePlayerIDs []string          `json:"include_player_ids"`
	Headings         map[string]string `json:"headings"`
	Contents         map[string]string `json:"contents"`
}

// CreateNotificationResponse mirrors the subset of the API reply we inspect.
type CreateNotificationResponse struct {
	ID         string `json:"id"`
	Recipients int    `json:"recipients"`
	Errors     any    `json:"errors,omitempty"`
}

type listPlayersResponse struct {
	TotalCount int      `json:"total_count"`
	Offset     int      `json:"offset"`
	Limit      int      `json:"limit"`
	Players    []Player `json:"players"`
}

// NewClient builds a client from the push configuration.
func NewClient(cfg config.PushConfig) (*Client, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("onesignal app id and rest api key are required")
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://onesignal.com/api/v1"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json; charset=utf-8").
		SetHeader("Accept", "application/json").
		SetHeader("Authorization", "Basic "+cfg.OneSignalAPIKey)

	return &Client{http: httpClient, appID: cfg.OneSignalAppID}, nil
}

// Send posts one notification carrying the full token set.
func (c *Client) Send(ctx context.Context, n Notification) (*CreateNotificationResponse, error) {
	if len(n.PlayerIDs) == 0 {
		return nil, fmt.Errorf("at least one player id is required")
	}
	var out CreateNotificationResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(createNotificationRequest{
			AppID:            c.appID,
			IncludePlayerIDs: n.PlayerIDs,
			Headings:         map[string]string{"en": n.Heading},
			Contents:         map[string]string{"en": n.Content},
		}).
		SetResult(&out).
		Post("/notifications")
	if err != nil {
		return nil, fmt.Errorf("onesignal send: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("onesignal send: status %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	return &out, nil
}

// ListPlayers pages through every device registered to the app.
func (c *Client) ListPlayers(ctx context.Context) ([]Player, error) {
	var players []Player
	for offset := 0; ; offset += PageSize {
		var page listPlayersResponse
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"app_id": c.appID,
				"limit":  fmt.Sprint(PageSize),
				"offset": fmt.Sprint(offset),
			}).
			SetResult(&page).
			Get("/players")
		if err != nil {
			return nil, fmt.Errorf("onesignal list players: %w", err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("onesignal list players: status %d", resp.StatusCode())
		}
		players = append(players, page.Players...)
		if len(page.Players) < PageSize {
			return players, nil
		}
	}
}

// DeletePlayer removes one device registration.
func (c *Client) DeletePlayer(ctx context.Context, playerID string) error {
	if strings.TrimSpace(playerID) == "" {
		return fmt.Errorf("player id is required")
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("playerID", playerID).
		SetQueryParam("app_id", c.appID).
		Delete("/players/{playerID}")
	if err != nil {
		return fmt.Errorf("onesignal delete player: %w", err)
	}
	switch resp.StatusCode() {
	case http.StatusOK, http.StatusNoContent:
		return nil
	default:
		return fmt.Errorf("onesignal delete player %s: status %d", playerID, resp.StatusCode())
	}
}
