package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/toplists/internal/domain"
)

// DiscordService implements NotificationService for Discord webhooks
type DiscordService struct {
	log        zerolog.Logger
	webhookURL string
	httpClient *http.Client
}

// NewDiscordService creates a new Discord notification service
func NewDiscordService(log zerolog.Logger, webhookURL string) *DiscordService {
	return &DiscordService{
		log:        log.With().Str("module", "notification").Str("type", "discord").Logger(),
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SendRefreshFailed posts a red embed when a live catalog stops refreshing
func (s *DiscordService) SendRefreshFailed(ctx context.Context, status domain.RefreshStatus) error {
	if s.webhookURL == "" {
		return nil
	}

	desc := "Live catalog refresh failed, serving the last good snapshot."
	if status.Err != nil {
		desc = fmt.Sprintf("Live catalog refresh failed:\n```%s```", status.Err.Error())
	}

	embed := discordEmbed{
		Title:       fmt.Sprintf("Top Lists: %s refresh failing", status.Source),
		Description: desc,
		Color:       0xff0000,
		Timestamp:   time.Now().Format(time.RFC3339),
		Fields: []discordField{
			{Name: "Source", Value: status.URL, Inline: false},
			{Name: "Serving", Value: fmt.Sprintf("%d items", status.ServedItems), Inline: true},
		},
	}

	return s.sendWebhook(ctx, discordWebhook{Embeds: []discordEmbed{embed}})
}

// SendRefreshRecovered posts a green embed once refreshing works again
func (s *DiscordService) SendRefreshRecovered(ctx context.Context, status domain.RefreshStatus) error {
	if s.webhookURL == "" {
		return nil
	}

	embed := discordEmbed{
		Title:       fmt.Sprintf("Top Lists: %s refresh recovered", status.Source),
		Description: "Live catalog refreshed successfully.",
		Color:       0x00ff00,
		Timestamp:   time.Now().Format(time.RFC3339),
		Fields: []discordField{
			{Name: "Source", Value: status.URL, Inline: false},
			{Name: "Items", Value: fmt.Sprintf("%d", status.Items), Inline: true},
		},
	}

	return s.sendWebhook(ctx, discordWebhook{Embeds: []discordEmbed{embed}})
}

func (s *DiscordService) sendWebhook(ctx context.Context, payload discordWebhook) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "failed to marshal webhook payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to create webhook request")
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to send webhook request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("discord webhook returned status %d", resp.StatusCode)
	}

	s.log.Debug().Int("embeds", len(payload.Embeds)).Msg("Discord notification sent")
	return nil
}

type discordWebhook struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Color       int            `json:"color"`
	Timestamp   string         `json:"timestamp,omitempty"`
	Fields      []discordField `json:"fields,omitempty"`
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}
