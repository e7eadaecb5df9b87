package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dealradar-engine/internal/config"
	"dealradar-engine/internal/events"
	"dealradar-engine/internal/feedback"
	"dealradar-engine/internal/httpapi"
	"dealradar-engine/internal/logging"
	"dealradar-engine/internal/metrics"
	"dealradar-engine/internal/provider"
	"dealradar-engine/internal/rank"
	"dealradar-engine/internal/scan"
	"dealradar-engine/internal/scheduler"
	"dealradar-engine/internal/store"
)

func main() {
	_ = godotenv.Load()

	// Data dir: env wins so a supervisor can pin it; otherwise the config's
	// data_dir decides where state lives.
	envDir := os.Getenv("DEALRADAR_DATA_DIR")
	dataDir := envDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "data dir: %v\n", err)
		os.Exit(1)
	}

	cfgPath, err := config.EnsureUserConfig(dataDir, filepath.Join("config", "config.yml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config bootstrap failed: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed (%s): %v\n", cfgPath, err)
		os.Exit(1)
	}
	if envDir == "" && cfg.App.DataDir != dataDir {
		dataDir = cfg.App.DataDir
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "data dir: %v\n", err)
			os.Exit(1)
		}
	}

	log, err := logging.New(cfg.App.Env, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	// One engine per data dir: two instances rewriting the same JSON files
	// would silently lose each other's writes.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatal("data dir lock failed", zap.Error(err))
	}
	if !locked {
		log.Fatal("another engine instance already owns this data dir", zap.String("dir", dataDir))
	}
	defer func() { _ = lock.Unlock() }()

	corpus := rank.NewCorpusStore(
		filepath.Join(dataDir, "positives.json"),
		filepath.Join(dataDir, "negatives.json"),
		log.Named("corpus"),
	)
	corpus.Load()

	classifier := rank.NewClassifier(corpus, log.Named("classifier"))
	classifier.Reload()

	st := store.New(filepath.Join(dataDir, "ads.json"), cfg.Reference.Lat, cfg.Reference.Lng, log.Named("store"))
	st.Load()

	client := provider.New(provider.Config{
		BaseURL:        cfg.Provider.BaseURL,
		UserAgent:      cfg.Provider.UserAgent,
		Timeout:        cfg.ProviderTimeout(),
		RequestsPerSec: cfg.Provider.RequestsPerSec,
		Burst:          cfg.Provider.Burst,
	})

	hub := events.NewHub()
	metrics.Register()

	orch := scan.New(scan.Config{
		Interval:     cfg.ScanInterval(),
		MinInterval:  cfg.MinScanInterval(),
		Retention:    cfg.Retention(),
		ResultLimit:  cfg.Scan.ResultLimit,
		PriceCeiling: cfg.Scan.PriceCeiling,
		Categories:   cfg.Scan.Categories,
		Strategies:   cfg.Scan.Strategies,
	}, client, st, classifier, hub, log.Named("scan"))

	fb := feedback.New(corpus, classifier, st, hub, log.Named("feedback"))

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.App.Port),
		Handler: httpapi.NewRouter(httpapi.Deps{
			Store:    st,
			Scanner:  orch,
			Feedback: fb,
			Hub:      hub,
			Log:      log.Named("http"),
		}),
		// No write timeout: /events streams indefinitely.
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("engine starting",
		zap.Int("port", cfg.App.Port),
		zap.String("data_dir", dataDir),
		zap.Duration("scan_interval", cfg.ScanInterval()),
		zap.Int("ads_loaded", st.Len()),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		scheduler.Every(gctx, cfg.ScanInterval(), "scan", log.Named("scheduler"), func(tctx context.Context) error {
			orch.TriggerScan(tctx)
			return nil
		})
		return nil
	})
	g.Go(func() error {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("engine stopped", zap.Error(err))
	}
	log.Info("engine stopped")
}
