package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/weatherwise/internal/domain/advisor"
	"github.com/yanqian/weatherwise/internal/domain/report"
	"github.com/yanqian/weatherwise/internal/domain/session"
	"github.com/yanqian/weatherwise/internal/domain/weather"
	"github.com/yanqian/weatherwise/internal/infra/config"
	"github.com/yanqian/weatherwise/internal/infra/reportstorage"
	"github.com/yanqian/weatherwise/internal/infra/sessionstore"
)

func provideJitter(cfg *config.Config) weather.Jitter {
	if !cfg.Synthesis.JitterEnabled {
		return weather.ZeroJitter{}
	}
	seed := cfg.Synthesis.JitterSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return weather.NewRandomJitter(seed)
}

func provideSynthesizer(cfg *config.Config, jitter weather.Jitter) *weather.Synthesizer {
	return weather.NewSynthesizer(cfg.Synthesis.Tuning, jitter)
}

func provideResponder() *advisor.Responder {
	return advisor.NewResponder(nil)
}

func provideClock() clockwork.Clock {
	return clockwork.NewRealClock()
}

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideSessionConfig(cfg *config.Config) session.Config {
	return session.Config{
		LoadDelay:       cfg.Session.LoadDelay,
		SuggestionDelay: cfg.Session.SuggestionDelay,
		TTL:             cfg.Session.TTL,
	}
}

func provideSessionStore(cfg *config.Config, clock clockwork.Clock, logger *slog.Logger) session.Store {
	if !cfg.Session.Valkey.Enabled {
		return sessionstore.NewMemoryStore(clock)
	}
	opt, err := buildValkeyOptions(cfg.Session.Valkey.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
		return sessionstore.NewMemoryStore(clock)
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory store", "error", err)
		return sessionstore.NewMemoryStore(clock)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ping := func() error {
		return client.Do(ctx, client.B().Ping().Build()).Error()
	}
	if err := backoff.Retry(ping, backoff.WithContext(backoff.NewExponentialBackOff(), ctx)); err != nil {
		logger.Error("valkey ping failed, falling back to memory store", "error", err)
		client.Close()
		return sessionstore.NewMemoryStore(clock)
	}
	logger.Info("session valkey store enabled", "addr", cfg.Session.Valkey.Addr)
	return sessionstore.NewValkeyStore(client, cfg.Session.Valkey.Prefix)
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

// provideReportStorage returns nil when sharing is disabled; publishing then reports unavailable.
func provideReportStorage(cfg *config.Config, logger *slog.Logger) report.ObjectStorage {
	sc := cfg.Reports.Storage
	if !sc.Enabled {
		logger.Info("report storage disabled, sharing unavailable")
		return nil
	}
	storage, err := reportstorage.NewS3Storage(sc.Endpoint, sc.AccessKey, sc.SecretKey, sc.Bucket, sc.Region, logger)
	if err != nil {
		logger.Error("failed to init report storage, using memory storage", "error", err)
		return reportstorage.NewMemoryStorage()
	}
	ctx, cancel := context.WithTimeout(context.Background(), sc.BootTimeout)
	defer cancel()
	if err := storage.EnsureBucket(ctx, sc.BootTimeout); err != nil {
		logger.Error("report bucket unavailable, using memory storage", "bucket", sc.Bucket, "error", err)
		return reportstorage.NewMemoryStorage()
	}
	logger.Info("report storage enabled", "endpoint", sc.Endpoint, "bucket", sc.Bucket)
	return storage
}
