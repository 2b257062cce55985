package persist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/careerpath/internal/progress"
)

// AutosaveDelay is the quiet window after the last change before an
// autosave is written.
const AutosaveDelay = 2 * time.Second

// WelcomeDuration is how long the first-run welcome stays visible.
const WelcomeDuration = 2500 * time.Millisecond

// User-facing messages.
const (
	MsgSaved       = "✅ Progreso guardado localmente"
	MsgSaveFailed  = "Error al guardar progreso"
	MsgLoaded      = "Progreso cargado (última actualización: %s)"
	MsgUnknownDate = "desconocida"
	MsgWelcome     = "Bienvenido, comienza tu Plan de Carrera"
	MsgLoadFailed  = "Error cargando progreso local"
)

// Status is the save state of a Gateway.
type Status int

const (
	Idle Status = iota
	Saving
)

func (s Status) String() string {
	if s == Saving {
		return "saving"
	}
	return "idle"
}

// Options configures a Gateway. Zero fields take defaults.
type Options struct {
	Key           string
	Scheduler     Scheduler
	Notifier      Notifier
	Logger        *zap.Logger
	AutosaveDelay time.Duration
	Now           func() time.Time

	// Location is the zone lastUpdate is shown in. Defaults to time.Local.
	Location *time.Location
}

// Gateway is the only component that touches the durable medium. It
// never panics and, apart from Clear, never returns errors: failures are
// logged and turned into notifications.
type Gateway struct {
	medium Medium
	key    string
	sched  Scheduler
	notify Notifier
	logger *zap.Logger
	delay  time.Duration
	now    func() time.Time
	loc    *time.Location

	mu      sync.Mutex
	status  Status
	pending *progress.State
}

// NewGateway returns a Gateway over medium.
func NewGateway(medium Medium, opts Options) *Gateway {
	g := &Gateway{
		medium: medium,
		key:    opts.Key,
		sched:  opts.Scheduler,
		notify: opts.Notifier,
		logger: opts.Logger,
		delay:  opts.AutosaveDelay,
		now:    opts.Now,
		loc:    opts.Location,
	}
	if g.key == "" {
		g.key = Key
	}
	if g.sched == nil {
		g.sched = NewTimerScheduler()
	}
	if g.logger == nil {
		g.logger = zap.NewNop()
	}
	if g.notify == nil {
		g.notify = LogNotifier{Logger: g.logger}
	}
	if g.delay <= 0 {
		g.delay = AutosaveDelay
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.loc == nil {
		g.loc = time.Local
	}
	g.logger = g.logger.With(zap.String("component", "persist"), zap.String("key", g.key))
	return g
}

// Key returns the storage key the gateway writes to.
func (g *Gateway) Key() string {
	return g.key
}

// Status returns the current save state.
func (g *Gateway) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// Saving reports whether a manual save is in flight.
func (g *Gateway) Saving() bool {
	return g.Status() == Saving
}

// Save writes st immediately and notifies the user of the outcome. It
// returns false without writing if another manual save is in flight.
func (g *Gateway) Save(ctx context.Context, st progress.State) bool {
	g.mu.Lock()
	if g.status == Saving {
		g.mu.Unlock()
		g.logger.Debug("save rejected: already saving")
		return false
	}
	g.status = Saving
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		g.status = Idle
		g.mu.Unlock()
	}()

	if err := g.write(ctx, st); err != nil {
		g.logger.Error("save progress", zap.Error(err))
		g.notify.Notify(MsgSaveFailed, DefaultNotifyDuration)
		return true
	}
	g.notify.Notify(MsgSaved, DefaultNotifyDuration)
	return true
}

// Autosave schedules a write of st after the quiet window, replacing any
// write scheduled earlier. The state is cloned at call time. Failures are
// logged only.
func (g *Gateway) Autosave(st progress.State) {
	snap := st.Clone()

	g.mu.Lock()
	g.pending = &snap
	g.mu.Unlock()

	g.sched.CancelPending()
	g.sched.Schedule(g.firePending, g.delay)
}

// Flush writes a pending autosave now. It is a no-op when nothing is
// pending.
func (g *Gateway) Flush(ctx context.Context) {
	g.sched.CancelPending()
	g.writePending(ctx)
}

func (g *Gateway) firePending() {
	g.writePending(context.Background())
}

func (g *Gateway) writePending(ctx context.Context) {
	g.mu.Lock()
	st := g.pending
	g.pending = nil
	g.mu.Unlock()

	if st == nil {
		return
	}
	if err := g.write(ctx, *st); err != nil {
		g.logger.Warn("autosave failed", zap.Error(err))
		return
	}
	g.logger.Debug("autosaved",
		zap.Int("phases", st.CompletedPhases.Len()),
		zap.Int("projects", st.CompletedProjects.Len()))
}

func (g *Gateway) write(ctx context.Context, st progress.State) error {
	data, err := progress.NewSnapshot(st, g.now()).Encode()
	if err != nil {
		return &SerializationError{Err: err}
	}
	if err := g.medium.Set(ctx, g.key, data); err != nil {
		return &MediumError{Op: "set", Key: g.key, Err: err}
	}
	return nil
}

// Load reads the stored snapshot. A missing or blank snapshot yields an
// empty state and a welcome message; unreadable or corrupt data yields an empty
// state and an error message.
func (g *Gateway) Load(ctx context.Context) progress.State {
	raw, err := g.medium.Get(ctx, g.key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		g.logger.Error("load progress", zap.Error(&MediumError{Op: "get", Key: g.key, Err: err}))
		g.notify.Notify(MsgLoadFailed, DefaultNotifyDuration)
		return progress.NewState()
	}
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		g.notify.Notify(MsgWelcome, WelcomeDuration)
		return progress.NewState()
	}

	d, err := progress.DecodeSnapshot(raw)
	if err != nil {
		g.logger.Error("load progress", zap.Error(&SerializationError{Err: err}))
		g.notify.Notify(MsgLoadFailed, DefaultNotifyDuration)
		return progress.NewState()
	}
	if len(d.Coerced) > 0 || d.Dropped > 0 {
		g.logger.Warn("snapshot coerced",
			zap.Strings("fields", d.Coerced),
			zap.Int("dropped_elements", d.Dropped))
	}

	g.notify.Notify(fmt.Sprintf(MsgLoaded, displayTime(d.Snapshot.LastUpdate, g.loc)), DefaultNotifyDuration)
	return d.Snapshot.State()
}

// displayTime shows an RFC 3339 lastUpdate as "2006-01-02 15:04" in loc.
// Other non-empty values are shown as stored.
func displayTime(lastUpdate string, loc *time.Location) string {
	if lastUpdate == "" {
		return MsgUnknownDate
	}
	t, err := time.Parse(time.RFC3339Nano, lastUpdate)
	if err != nil {
		return lastUpdate
	}
	return t.In(loc).Format("2006-01-02 15:04")
}

// Clear cancels any pending autosave and deletes the stored snapshot.
func (g *Gateway) Clear(ctx context.Context) error {
	g.sched.CancelPending()
	g.mu.Lock()
	g.pending = nil
	g.mu.Unlock()

	if err := g.medium.Delete(ctx, g.key); err != nil {
		return &MediumError{Op: "delete", Key: g.key, Err: err}
	}
	return nil
}
