package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/careerpath/internal/catalog"
	"github.com/abhisek/careerpath/internal/chat"
	"github.com/abhisek/careerpath/internal/config"
	"github.com/abhisek/careerpath/internal/llm"
	"github.com/abhisek/careerpath/internal/logging"
	"github.com/abhisek/careerpath/internal/persist"
	"github.com/abhisek/careerpath/internal/plans"
	"github.com/abhisek/careerpath/internal/remote"
	"github.com/abhisek/careerpath/internal/store"
	"github.com/abhisek/careerpath/internal/table"
	"github.com/abhisek/careerpath/internal/tracker"
)

// defaultPlanID identifies the built-in roadmap in plan-keyed storage.
const defaultPlanID = "default"

// env holds what a command needs: config, logger, the local store and
// the table backend plans and chat live on.
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *store.Store
	backend table.Backend
	plans   *plans.Service
	planID  string

	closers []func() error
}

// openEnv loads configuration, builds the logger and opens the store.
// TUI commands log to a file so output never lands on the screen.
func openEnv(cmd *cobra.Command, tui bool) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.Storage.DBPath = db
	}
	planID, _ := cmd.Flags().GetString("plan")
	if planID == "" {
		planID = cfg.Remote.PlanID
	}

	var logger *zap.Logger
	if tui {
		logger, err = logging.ForTUI(cfg.Log)
	} else {
		logger, err = logging.New(cfg.Log)
	}
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	e := &env{cfg: cfg, logger: logger, planID: planID}
	e.closers = append(e.closers, func() error {
		_ = logger.Sync()
		return nil
	})

	dbPath := cfg.Storage.DBPath
	if dbPath == "" {
		if dbPath, err = store.DefaultDBPath(); err != nil {
			e.Close()
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
	} else if err := store.EnsureDir(dbPath); err != nil {
		e.Close()
		return nil, fmt.Errorf("create DB dir: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	e.store = st
	e.closers = append(e.closers, st.Close)

	e.backend = st.Tables()
	if cfg.Storage.Backend == config.BackendRemote {
		client, err := e.remoteClient()
		if err != nil {
			e.Close()
			return nil, err
		}
		e.backend = client
	}
	e.plans = plans.NewService(e.backend, logger)

	logger.Debug("environment ready",
		zap.String("config", cfg.File),
		zap.String("db", dbPath),
		zap.String("backend", cfg.Storage.Backend),
		zap.String("plan", planID))
	return e, nil
}

// Close releases resources in reverse order.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			e.logger.Warn("close", zap.Error(err))
		}
	}
}

func (e *env) userID() string {
	return e.cfg.Remote.UserID
}

func (e *env) remoteClient() (*remote.Client, error) {
	client, err := remote.New(remote.Config{
		URL:     e.cfg.Remote.URL,
		AnonKey: e.cfg.Remote.AnonKey,
		Timeout: e.cfg.Remote.Timeout,
	}, e.logger)
	if err != nil {
		return nil, fmt.Errorf("remote backend: %w", err)
	}
	return client, nil
}

// provider builds the configured LLM provider. It returns nil without an
// error when no provider is configured.
func (e *env) provider(ctx context.Context) (llm.Provider, error) {
	cfg, ok := e.cfg.LLMProviderConfig()
	if !ok {
		e.logger.Info("no LLM provider configured")
		return nil, nil
	}
	p, err := llm.NewProvider(ctx, cfg, e.store.EventRepo(), e.logger)
	if err != nil {
		return nil, err
	}
	e.logger.Info("LLM provider ready",
		zap.String("provider", cfg.Provider),
		zap.String("model", p.ModelID()))
	return p, nil
}

// chatServiceFor returns the mentor chat over p. A nil p answers every
// message with a configuration hint.
func (e *env) chatServiceFor(p llm.Provider) *chat.Service {
	return chat.NewService(p, e.backend, chat.DefaultConfig(), e.logger)
}

// catalog resolves the roadmap to track: an explicit plan, then a
// catalog file, then the user's primary plan, then the built-in roadmap.
// It also settles e.planID.
func (e *env) catalog(ctx context.Context) (*catalog.Catalog, error) {
	if e.planID != "" && e.planID != defaultPlanID {
		p, err := e.plans.GetPlan(ctx, e.planID)
		if err != nil {
			return nil, err
		}
		return p.Catalog()
	}
	if path := e.cfg.Catalog.Path; path != "" {
		return catalog.LoadFile(path)
	}
	primary, err := e.plans.PrimaryPlan(ctx, e.userID())
	if err != nil {
		e.logger.Warn("primary plan lookup failed", zap.Error(err))
	}
	if primary != nil {
		e.planID = primary.ID
		return primary.Catalog()
	}
	e.planID = ""
	return catalog.Default(), nil
}

// medium opens the durable medium selected by storage.backend.
func (e *env) medium(ctx context.Context) (persist.Medium, error) {
	switch e.cfg.Storage.Backend {
	case config.BackendRedis:
		m, err := persist.NewRedisMedium(ctx, e.cfg.Storage.RedisURL, e.cfg.Storage.RedisPrefix)
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, m.Close)
		return m, nil
	case config.BackendRemote:
		planID := e.planID
		if planID == "" {
			planID = defaultPlanID
		}
		return plans.NewProgressMedium(e.plans, e.userID(), planID), nil
	default:
		return e.store.KV(), nil
	}
}

// openTracker resolves the catalog and medium and returns a loaded
// tracker with its gateway.
func (e *env) openTracker(ctx context.Context, notifier persist.Notifier) (*tracker.Tracker, *persist.Gateway, error) {
	cat, err := e.catalog(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load roadmap: %w", err)
	}
	m, err := e.medium(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("open progress storage: %w", err)
	}
	if notifier == nil {
		notifier = persist.LogNotifier{Logger: e.logger}
	}
	g := persist.NewGateway(m, persist.Options{
		Key:           persist.KeyFor(e.planID),
		Notifier:      notifier,
		Logger:        e.logger,
		AutosaveDelay: e.cfg.Autosave.Delay,
	})
	tr := tracker.New(cat, g)
	tr.Load(ctx)
	return tr, g, nil
}

// errNoProvider is returned by commands that cannot run without an LLM.
var errNoProvider = errors.New("no LLM provider configured: set GROQ_API_KEY (or another *_API_KEY) or llm.provider in the config file")
