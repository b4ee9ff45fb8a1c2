// Package natsnotifier publishes notifications to NATS subjects.
package natsnotifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
)

const DefaultSubjectPrefix = "notifications"

// Notifier implements ports.NotificationGateway. Each channel key becomes a
// subject under the configured prefix, e.g. "notifications.user.<id>".
type Notifier struct {
	conn   *nats.Conn
	prefix string
}

func NewNotifier(url, prefix string) (*Notifier, error) {
	conn, err := nats.Connect(url, nats.Name("fulfillment"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return NewNotifierWithConn(conn, prefix), nil
}

func NewNotifierWithConn(conn *nats.Conn, prefix string) *Notifier {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &Notifier{conn: conn, prefix: prefix}
}

func (n *Notifier) Notify(_ context.Context, channel string, payload any) error {
	subject, err := n.Subject(channel)
	if err != nil {
		return err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	return n.conn.Publish(subject, data)
}

// Subject maps a channel key onto a NATS subject.
func (n *Notifier) Subject(channel string) (string, error) {
	channel = strings.Trim(strings.TrimSpace(channel), ".")
	if channel == "" || strings.ContainsAny(channel, " \t*>") {
		return "", fmt.Errorf("invalid notification channel %q", channel)
	}
	return n.prefix + "." + channel, nil
}

func (n *Notifier) Close() error {
	if err := n.conn.Drain(); err != nil {
		n.conn.Close()
		return err
	}
	return nil
}
