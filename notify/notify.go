// notify/notify.go
package notify

import (
	"context"
	"log"
)

// Notifier delivers operational messages: NotifyAdmin goes to the admin chat,
// Broadcast to the players' channel.
type Notifier interface {
	NotifyAdmin(ctx context.Context, text string) error
	Broadcast(ctx context.Context, text string) error
}

// LogNotifier writes messages to the service log. It is used when no bot is
// configured.
type LogNotifier struct{}

func (LogNotifier) NotifyAdmin(_ context.Context, text string) error {
	log.Printf("📣 [NOTIFY] admin: %s", text)
	return nil
}

func (LogNotifier) Broadcast(_ context.Context, text string) error {
	log.Printf("📣 [NOTIFY] broadcast: %s", text)
	return nil
}
