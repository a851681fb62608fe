//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yanqian/weatherwise/internal/bootstrap"
	"github.com/yanqian/weatherwise/internal/domain/advisor"
	"github.com/yanqian/weatherwise/internal/domain/analysis"
	"github.com/yanqian/weatherwise/internal/domain/calendar"
	"github.com/yanqian/weatherwise/internal/domain/report"
	"github.com/yanqian/weatherwise/internal/domain/session"
	"github.com/yanqian/weatherwise/internal/domain/weather"
	"github.com/yanqian/weatherwise/internal/infra/config"
	httpiface "github.com/yanqian/weatherwise/internal/interface/http"
	"github.com/yanqian/weatherwise/pkg/logger"
	"github.com/yanqian/weatherwise/pkg/metrics"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideClock,
		provideRegistry,
		provideJitter,
		provideSynthesizer,
		provideResponder,
		provideSessionConfig,
		provideSessionStore,
		provideReportStorage,
		metrics.New,
		analysis.NewService,
		calendar.NewService,
		report.NewService,
		session.NewService,
		wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
		wire.Bind(new(prometheus.Gatherer), new(*prometheus.Registry)),
		wire.Bind(new(analysis.Synthesizer), new(*weather.Synthesizer)),
		wire.Bind(new(session.Synthesizer), new(*weather.Synthesizer)),
		wire.Bind(new(analysis.ChatResponder), new(*advisor.Responder)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
