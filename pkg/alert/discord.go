package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// discordContentLimit is Discord's hard cap on message content.
const discordContentLimit = 2000

// Discord sends notifications via Discord webhook.
type Discord struct {
	client     *http.Client
	webhookURL string
	username   string
}

// NewDiscord creates a new Discord notifier.
func NewDiscord(webhookURL, username string) *Discord {
	if username == "" {
		username = "oddscout"
	}
	return &Discord{
		client:     &http.Client{Timeout: 10 * time.Second},
		webhookURL: webhookURL,
		username:   username,
	}
}

func (d *Discord) Name() string { return "discord" }

func (d *Discord) Send(ctx context.Context, n *Notification) error {
	payload := map[string]any{
		"username": d.username,
	}
	if n.Username != "" {
		payload["username"] = n.Username
	}

	if len(n.Fields) > 0 || n.IsError {
		color := 0x00FF00
		if n.IsError {
			color = 0xFF0000
		}
		embed := map[string]any{
			"title":       n.Title,
			"description": n.Body,
			"color":       color,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"footer":      map[string]any{"text": "oddscout scanner"},
		}
		if len(n.Fields) > 0 {
			// Discord allows at most 25 fields per embed.
			fields := n.Fields
			if len(fields) > 25 {
				fields = fields[:25]
			}
			embed["fields"] = fields
		}
		payload["embeds"] = []map[string]any{embed}
	} else {
		content := n.Body
		if len(content) > discordContentLimit {
			content = content[:discordContentLimit]
		}
		payload["content"] = content
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("send discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("discord webhook status %d", resp.StatusCode)
	}

	return nil
}
