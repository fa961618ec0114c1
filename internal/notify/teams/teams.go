// Package teams delivers alert notifications to a Microsoft Teams
// incoming webhook as MessageCard payloads.
package teams

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"cicd-dashboard/config"
	"cicd-dashboard/internal/alert"
	"cicd-dashboard/internal/notify/format"
	"cicd-dashboard/pkg/log"
)

const requestTimeout = 10 * time.Second

type messageCard struct {
	Title           string    `json:"title"`
	Text            string    `json:"text"`
	ThemeColor      string    `json:"themeColor"`
	Sections        []section `json:"sections,omitempty"`
	PotentialAction []action  `json:"potentialAction,omitempty"`
}

type section struct {
	Facts []format.Fact `json:"facts"`
}

type action struct {
	Type    string   `json:"@type"`
	Name    string   `json:"name"`
	Targets []target `json:"targets"`
}

type target struct {
	OS  string `json:"os"`
	URI string `json:"uri"`
}

// Transport posts cards to the configured webhook URL.
type Transport struct {
	l            log.Logger
	cfg          config.TeamsConfig
	dashboardURL string
	client       *http.Client
}

// New creates the teams transport.
func New(l log.Logger, cfg config.TeamsConfig, dashboardURL string) *Transport {
	return &Transport{
		l:            l,
		cfg:          cfg,
		dashboardURL: dashboardURL,
		client:       &http.Client{Timeout: requestTimeout},
	}
}

// Name returns the channel name.
func (t *Transport) Name() string { return "teams" }

// Enabled reports whether a webhook URL is configured.
func (t *Transport) Enabled() bool { return t.cfg.Enabled() }

// Deliver formats the event and posts it to the webhook. Only an HTTP
// 200 response counts as a successful delivery.
func (t *Transport) Deliver(ctx context.Context, e alert.Event) error {
	if !t.Enabled() {
		return fmt.Errorf("teams webhook not configured")
	}

	card := format.Teams(e, t.dashboardURL)
	payload := messageCard{
		Title:      card.Title,
		Text:       card.Text,
		ThemeColor: card.ThemeColor,
	}
	if len(card.Facts) > 0 {
		payload.Sections = []section{{Facts: card.Facts}}
	}
	if card.ActionURL != "" {
		payload.PotentialAction = []action{{
			Type:    "OpenUri",
			Name:    card.ActionText,
			Targets: []target{{OS: "default", URI: card.ActionURL}},
		}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal teams card: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build teams request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post teams card: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("teams webhook returned status %d", resp.StatusCode)
	}

	t.l.Debugf(ctx, "Teams alert delivered: %s", card.Title)
	return nil
}
