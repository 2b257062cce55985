package persist

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultNotifyDuration is how long a notification stays visible unless
// the caller asks otherwise.
const DefaultNotifyDuration = 3 * time.Second

// Notifier displays a transient message to the user.
type Notifier interface {
	Notify(message string, d time.Duration)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string, d time.Duration)

func (f NotifierFunc) Notify(message string, d time.Duration) {
	f(message, d)
}

// LogNotifier writes notifications to a zap logger. Used by the CLI and
// HTTP server, where there is no toast surface.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) Notify(message string, d time.Duration) {
	n.Logger.Info(message, zap.Duration("display", d))
}

// Notification is a recorded Notify call.
type Notification struct {
	Message  string
	Duration time.Duration
}

// RecordingNotifier keeps every notification for inspection in tests.
type RecordingNotifier struct {
	mu  sync.Mutex
	all []Notification
}

func (n *RecordingNotifier) Notify(message string, d time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.all = append(n.all, Notification{Message: message, Duration: d})
}

// All returns a copy of the recorded notifications.
func (n *RecordingNotifier) All() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.all...)
}
