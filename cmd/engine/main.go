package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"jobdash-engine/internal/config"
	"jobdash-engine/internal/dashboard"
	"jobdash-engine/internal/dom"
	"jobdash-engine/internal/events"
	"jobdash-engine/internal/httpapi"
	"jobdash-engine/internal/inbox"
	"jobdash-engine/internal/logging"
	"jobdash-engine/internal/rank"
	"jobdash-engine/internal/remote"
	"jobdash-engine/internal/secrets"
	"jobdash-engine/internal/store"
	"jobdash-engine/internal/tools"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "engine:", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	dataDir := envOr("JOBDASH_DATA_DIR", ".")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	log, err := logging.New(envOr("JOBDASH_LOG_LEVEL", "info"), envBool("JOBDASH_DEV"))
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	lock, err := config.LockDataDir(dataDir)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	userCfgPath, err := config.EnsureUserConfig(dataDir, config.Defaults)
	if err != nil {
		return fmt.Errorf("config bootstrap: %w", err)
	}
	loadCfg := func() (config.Config, error) { return config.Load(userCfgPath) }
	cfg, err := loadCfg()
	if err != nil {
		return fmt.Errorf("config load (%s): %w", userCfgPath, err)
	}
	_, vr := config.NormalizeAndValidate(cfg)
	if !vr.OK() {
		return fmt.Errorf("config invalid (%s): %w", userCfgPath, vr.Err())
	}
	for _, w := range vr.Warnings {
		log.Warn("config", zap.String("warning", w))
	}
	var cfgVal atomic.Value // stores config.Config
	cfgVal.Store(cfg)
	currentCfg := func() config.Config { return cfgVal.Load().(config.Config) }

	dbPath := filepath.Join(dataDir, "jobdash.db")
	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	hub := events.NewHub()

	page, err := buildPage(context.Background(), db, log)
	if err != nil {
		return err
	}
	page.Observe(func(p dom.Patch) { hub.Emit("", events.TypeDOMPatch, p) })

	ctl := dashboard.New(dashboard.Options{
		Doc:    page,
		Remote: newRemote(cfg, log),
		Mode:   dashboardMode(cfg),
		Log:    log,
	})

	poller := &inbox.Poller{
		Scanner: &inbox.Scanner{
			DB:       db.Pool,
			Config:   currentCfg,
			Password: secrets.GetIMAPPassword,
			Log:      log,
		},
		Interval: cfg.InboxInterval(),
		OnUpdate: func(u inbox.Update) { hub.Emit("", events.TypeApplicationSet, u) },
		OnScan:   func(r inbox.Result) { hub.Emit("", events.TypeInboxScanned, r) },
	}

	router := httpapi.NewRouter(httpapi.Deps{
		DB:          db.Pool,
		Hub:         hub,
		Log:         log,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
		Tools:       tools.New(db.Pool, currentCfg, dataDir, log),
		Inbox:       poller,
		Page:        page,
		Controller:  ctl,
	})

	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.App.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	shutdownToken := os.Getenv("JOBDASH_SHUTDOWN_TOKEN")
	if shutdownToken == "" {
		if shutdownToken, err = randomToken(16); err != nil {
			return err
		}
	}
	router.Post("/shutdown", shutdownHandler(shutdownToken, srv, log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// a /shutdown request ends Serve; take the rest of the group down with it
		defer stop()
		log.Info("engine listening",
			zap.String("addr", "http://"+addr),
			zap.String("db", dbPath),
			zap.Stringer("mode", ctl.Mode()),
		)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		ctl.Initialize(gctx)
		return nil
	})
	g.Go(func() error { return poller.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	err = g.Wait()
	log.Info("engine stopped")
	return err
}

// buildPage renders the dashboard with the current stats and high-priority jobs.
func buildPage(ctx context.Context, db *store.DB, log *zap.Logger) (*dom.Page, error) {
	data := dashboard.DefaultPageData()

	jobs, err := store.ListJobs(ctx, db.Pool, store.ListJobsOpts{Sort: "score", Priority: rank.PriorityHigh, Limit: 10})
	if err != nil {
		log.Warn("load priority jobs", zap.Error(err))
	}
	data.PriorityJobs = jobs

	var buf bytes.Buffer
	if err := dashboard.RenderPage(&buf, data); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return dom.NewPage(buf.String())
}

func newRemote(cfg config.Config, log *zap.Logger) *remote.Client {
	token, err := secrets.ToolToken(cfg)
	if err != nil && !errors.Is(err, secrets.ErrNotFound) {
		log.Warn("tool token unavailable", zap.Error(err))
	}
	return remote.New(remote.Options{
		BaseURL:       cfg.Dashboard.RemoteBaseURL,
		Timeout:       cfg.RemoteTimeout(),
		RatePerSecond: cfg.Dashboard.RatePerSecond,
		Burst:         cfg.Dashboard.RateBurst,
		Token:         token,
	})
}

func dashboardMode(cfg config.Config) dashboard.Mode {
	if cfg.RemoteMode() {
		return dashboard.ModeRemote
	}
	return dashboard.ModeSimulated
}
