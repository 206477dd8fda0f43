package server

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWebhook struct {
	mu       sync.Mutex
	contents []string
	err      error
	release  chan struct{}
	closed   bool
}

func (f *fakeWebhook) CreateContent(content string, _ ...rest.RequestOpt) (*discord.Message, error) {
	if f.release != nil {
		<-f.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.contents = append(f.contents, content)
	if f.err != nil {
		return nil, f.err
	}
	return &discord.Message{Content: content}, nil
}

func (f *fakeWebhook) Close(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeWebhook) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.contents...)
}

func TestNewNotifier(t *testing.T) {
	n, err := newNotifier(NotificationsConfig{Enabled: false, WebhookURL: "https://discord.com/api/webhooks/1/token"})
	require.NoError(t, err)
	assert.IsType(t, nopNotifier{}, n)

	n, err = newNotifier(NotificationsConfig{Enabled: true})
	require.NoError(t, err)
	assert.IsType(t, nopNotifier{}, n)

	n, err = newNotifier(NotificationsConfig{Enabled: true, WebhookURL: "https://discord.com/api/webhooks/123456789012345678/token"})
	require.NoError(t, err)
	assert.IsType(t, &webhookNotifier{}, n)
}

func TestWebhookNotifierSendsContent(t *testing.T) {
	client := &fakeWebhook{}
	n := &webhookNotifier{client: client}

	n.Notify(context.Background(), "ada@example.com deleted user `u1`")
	assert.Equal(t, []string{"ada@example.com deleted user `u1`"}, client.sent())

	client.err = errors.New("webhook down")
	n.Notify(context.Background(), "second")
	assert.Len(t, client.sent(), 2)

	n.Close(context.Background())
	assert.True(t, client.closed)
}

func TestSendNotificationFormatsMessage(t *testing.T) {
	client := &fakeWebhook{}
	s := &Server{Notifier: &webhookNotifier{client: client}}

	s.SendNotification("ada@example.com", "deleted club `%s`", "c1")
	s.Stop()

	sent := client.sent()
	require.Len(t, sent, 1)
	assert.Regexp(t, "^ada@example.com deleted club `c1` \\(<t:\\d+:f>\\)$", sent[0])
}

func TestStopWaitsForNotifications(t *testing.T) {
	client := &fakeWebhook{release: make(chan struct{})}
	s := &Server{Notifier: &webhookNotifier{client: client}}

	s.SendNotification("ada@example.com", "verified user `%s`", "u1")

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned before the notification was sent")
	case <-time.After(50 * time.Millisecond):
	}

	close(client.release)

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return after the notification was sent")
	}

	assert.Len(t, client.sent(), 1)
	client.mu.Lock()
	defer client.mu.Unlock()
	assert.True(t, client.closed)
}
