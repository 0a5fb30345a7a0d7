// Package alert delivers run reports and summaries to chat channels.
package alert

import (
	"context"
	"errors"
	"fmt"
)

// Field is an optional rich-card key/value pair for channels that
// support embeds.
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Notification is one outbound message. Body is expected to already fit
// the channel limit (the report formatter chunks long reports before
// they reach a notifier).
type Notification struct {
	Title    string  `json:"title"`
	Body     string  `json:"body"`
	Username string  `json:"username,omitempty"`
	Fields   []Field `json:"fields,omitempty"`
	IsError  bool    `json:"is_error,omitempty"`
}

// Notifier delivers notifications to a specific destination.
type Notifier interface {
	Name() string
	Send(ctx context.Context, n *Notification) error
}

// Manager broadcasts notifications to all registered notifiers.
// A failing destination never blocks the others.
type Manager struct {
	notifiers []Notifier
}

// NewManager creates a new alert manager.
func NewManager(notifiers []Notifier) *Manager {
	return &Manager{notifiers: notifiers}
}

// HasNotifiers returns true if at least one notifier is configured.
func (m *Manager) HasNotifiers() bool {
	return len(m.notifiers) > 0
}

// Broadcast sends a notification to all registered notifiers and joins
// their errors.
func (m *Manager) Broadcast(ctx context.Context, n *Notification) error {
	var errs []error
	for _, notifier := range m.notifiers {
		if err := notifier.Send(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", notifier.Name(), err))
		}
	}
	return errors.Join(errs...)
}
