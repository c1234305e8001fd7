package notification

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/varoOP/toplists/internal/domain"
)

// Service fans notifications out to every configured channel.
// With no channel configured every call is a no-op.
type Service struct {
	discord *DiscordService
}

func NewService(log zerolog.Logger, webhookURL string) domain.NotificationService {
	var discord *DiscordService
	if webhookURL != "" {
		discord = NewDiscordService(log, webhookURL)
	}

	return &Service{
		discord: discord,
	}
}

func (s *Service) SendRefreshFailed(ctx context.Context, status domain.RefreshStatus) error {
	if s.discord != nil {
		return s.discord.SendRefreshFailed(ctx, status)
	}
	return nil
}

func (s *Service) SendRefreshRecovered(ctx context.Context, status domain.RefreshStatus) error {
	if s.discord != nil {
		return s.discord.SendRefreshRecovered(ctx, status)
	}
	return nil
}
