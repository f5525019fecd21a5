package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/karthikrayaprolu/medimind/internal/api"
	"github.com/karthikrayaprolu/medimind/internal/config"
	"github.com/karthikrayaprolu/medimind/internal/device"
	"github.com/karthikrayaprolu/medimind/internal/domain"
	"github.com/karthikrayaprolu/medimind/internal/export"
	"github.com/karthikrayaprolu/medimind/internal/notify"
	"github.com/karthikrayaprolu/medimind/internal/store"
	"github.com/karthikrayaprolu/medimind/internal/telegram"
)

// registerTimeout bounds agent-token registration and first-run login so a
// stalled backend cannot hang startup.
const registerTimeout = 10 * time.Second

type App struct {
	cfg     config.Config
	log     *zap.Logger
	loc     *time.Location
	httpSrv *http.Server

	repo     store.Repo
	client   *api.Client
	notifier *telegram.Notifier
	device   *device.Local
	rec      *notify.Reconciler
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	notifier, err := telegram.New(cfg.BotToken, cfg.ChatID, log)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{cfg: cfg, log: log, loc: loc, notifier: notifier, httpSrv: srv}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting reminder agent",
		zap.String("api", a.cfg.APIBaseURL),
		zap.String("tz", a.loc.String()),
		zap.Duration("syncInterval", a.cfg.SyncInterval),
	)

	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath)
	if err != nil {
		a.log.Error("open sqlite failed", zap.Error(err))
		return err
	}
	a.repo = repo
	a.log.Info("sqlite ready")

	prefs, err := repo.Preferences(ctx)
	if err != nil {
		return err
	}

	a.client = api.NewClient(a.cfg.APIBaseURL)
	a.client.SetToken(prefs.SessionToken)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if prefs.SessionToken == "" && a.cfg.Email != "" {
		if err := a.login(ctx, &prefs); err != nil {
			a.log.Error("login failed", zap.Error(err))
			return err
		}
	}

	a.device = device.NewLocal(repo, a.log, a.notifier, a.loc)
	a.rec = notify.NewReconciler(a.device, a.log, nil, a.cfg.DebounceDelay)
	defer a.rec.Close()

	notify.EnsureChannel(ctx, a.device, a.log)
	notify.EnsurePermission(ctx, a.device, a.log)
	a.device.OnAction(func(act notify.Action) {
		a.log.Info("reminder acknowledged",
			zap.String("scheduleID", act.ScheduleID),
			zap.String("slot", string(act.Slot)),
		)
	})

	if err := a.device.Start(ctx); err != nil {
		return err
	}
	go a.notifier.Run(ctx)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	a.registerAgent(ctx, &prefs)

	// Reconcile from the cached copy before the first sync so a restart
	// restores reminders without waiting on the network.
	if cached, err := repo.LoadSchedules(ctx); err != nil {
		a.log.Warn("schedule cache unreadable", zap.Error(err))
	} else {
		a.rec.Apply(ctx, cached, prefs.NotificationsEnabled)
	}

	a.sync(ctx)
	ticker := time.NewTicker(a.cfg.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")

			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := a.httpSrv.Shutdown(shCtx)
			cancel()
			if err != nil {
				a.log.Warn("http server shutdown error", zap.Error(err))
			}
			if a.repo != nil {
				_ = a.repo.Close()
			}
			return nil

		case <-ticker.C:
			a.sync(ctx)
		}
	}
}

// sync pulls the schedule list from the backend, refreshes the local cache,
// and hands the new state to the reconciler. Remote failure leaves the last
// reconciled state in place; the next tick retries.
func (a *App) sync(ctx context.Context) {
	prefs, err := a.repo.Preferences(ctx)
	if err != nil {
		a.log.Error("read preferences failed", zap.Error(err))
		return
	}

	schedules, err := a.client.Schedules(ctx, a.cfg.UserID)
	if err != nil {
		a.log.Warn("schedule sync failed", zap.Error(err))
		return
	}
	if err := a.repo.SaveSchedules(ctx, schedules); err != nil {
		a.log.Warn("schedule cache write failed", zap.Error(err))
	}

	a.rec.Apply(ctx, schedules, prefs.NotificationsEnabled)
	a.log.Info("schedules synced",
		zap.Int("count", len(schedules)),
		zap.Bool("notificationsEnabled", prefs.NotificationsEnabled),
	)

	if a.cfg.CalendarExportPath != "" && prefs.NotificationsEnabled {
		plan := domain.Plan(schedules, domain.DefaultSlotTimes())
		if err := export.WriteFile(a.cfg.CalendarExportPath, plan, a.loc); err != nil {
			a.log.Warn("calendar export failed", zap.Error(err))
		}
	}
}

// login performs the first-run credential exchange and persists the session
// token.
func (a *App) login(ctx context.Context, prefs *domain.Preferences) error {
	ctx, cancel := context.WithTimeout(ctx, registerTimeout)
	defer cancel()

	res, err := a.client.Login(ctx, a.cfg.Email, a.cfg.Password)
	if err != nil {
		return err
	}
	prefs.SessionToken = a.client.Token()
	if res.FullName != "" {
		prefs.UserName = res.FullName
	}
	if err := a.repo.SavePreferences(ctx, *prefs); err != nil {
		return err
	}
	a.log.Info("logged in", zap.String("userID", res.UserID))
	return nil
}

// registerAgent mints a persistent agent token on first run and reports it to
// the backend. Failure is logged and non-fatal; reminders work without it.
func (a *App) registerAgent(ctx context.Context, prefs *domain.Preferences) {
	if prefs.AgentToken == "" {
		prefs.AgentToken = uuid.NewString()
		if err := a.repo.SavePreferences(ctx, *prefs); err != nil {
			a.log.Warn("agent token persist failed", zap.Error(err))
			return
		}
	}

	regCtx, cancel := context.WithTimeout(ctx, registerTimeout)
	defer cancel()
	if err := a.client.RegisterAgentToken(regCtx, prefs.AgentToken); err != nil {
		a.log.Warn("agent token registration failed", zap.Error(err))
		return
	}
	a.log.Info("agent token registered")
}
