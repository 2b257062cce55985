package app

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careerpath/internal/persist"
)

// notifyBuffer bounds queued notifications; extra ones are dropped.
const notifyBuffer = 16

// Notifier is a persist.Notifier that queues notifications for the TUI.
// Notify never blocks, so it is safe to call from the autosave timer.
type Notifier struct {
	ch chan persist.Notification
}

var _ persist.Notifier = (*Notifier)(nil)

// NewNotifier returns an empty Notifier.
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan persist.Notification, notifyBuffer)}
}

// Notify queues message for display during d.
func (n *Notifier) Notify(message string, d time.Duration) {
	if d <= 0 {
		d = persist.DefaultNotifyDuration
	}
	select {
	case n.ch <- persist.Notification{Message: message, Duration: d}:
	default:
	}
}

// notificationMsg delivers a queued notification to the event loop.
type notificationMsg persist.Notification

// wait blocks off the loop until the next notification arrives.
func (n *Notifier) wait() tea.Cmd {
	if n == nil {
		return nil
	}
	return func() tea.Msg {
		return notificationMsg(<-n.ch)
	}
}
