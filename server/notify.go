package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/disgo/webhook"
)

// Notifier announces administrative actions.
type Notifier interface {
	Notify(ctx context.Context, content string)
	Close(ctx context.Context)
}

func newNotifier(cfg NotificationsConfig) (Notifier, error) {
	if !cfg.Enabled || cfg.WebhookURL == "" {
		return nopNotifier{}, nil
	}

	client, err := webhook.NewWithURL(cfg.WebhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification webhook client: %w", err)
	}

	return &webhookNotifier{client: client}, nil
}

type webhookClient interface {
	CreateContent(content string, opts ...rest.RequestOpt) (*discord.Message, error)
	Close(ctx context.Context)
}

type webhookNotifier struct {
	client webhookClient
}

func (n *webhookNotifier) Notify(ctx context.Context, content string) {
	if _, err := n.client.CreateContent(content, rest.WithCtx(ctx)); err != nil {
		slog.ErrorContext(ctx, "Failed to send notification", slog.Any("err", err))
	}
}

func (n *webhookNotifier) Close(ctx context.Context) {
	n.client.Close(ctx)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, string) {}

func (nopNotifier) Close(context.Context) {}

// SendNotification announces an admin action without blocking the request
// that caused it.
func (s *Server) SendNotification(actor string, format string, a ...any) {
	content := fmt.Sprintf("%s %s (%s)",
		actor,
		fmt.Sprintf(format, a...),
		discord.NewTimestamp(discord.TimestampStyleShortDateTime, time.Now()).String(),
	)

	s.notifyWg.Add(1)
	go func() {
		defer s.notifyWg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s.Notifier.Notify(ctx, content)
	}()
}
