// Package app wires the pipeline together from configuration. It is the
// single composition root shared by the CLI commands and the API server.
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chipsight/chipsight/internal/config"
	"github.com/chipsight/chipsight/internal/curate"
	"github.com/chipsight/chipsight/internal/intent"
	"github.com/chipsight/chipsight/internal/knowledge"
	"github.com/chipsight/chipsight/internal/llm"
	"github.com/chipsight/chipsight/internal/marketdata"
	"github.com/chipsight/chipsight/internal/monitor"
	"github.com/chipsight/chipsight/internal/news"
	"github.com/chipsight/chipsight/internal/orchestrator"
	"github.com/chipsight/chipsight/internal/prompts"
	"github.com/chipsight/chipsight/internal/report"
	"github.com/chipsight/chipsight/internal/scheduler"
)

// App holds the assembled pipeline components.
type App struct {
	Cfg          *config.Config
	LLM          *llm.Router
	Market       *marketdata.Client
	Orchestrator *orchestrator.Orchestrator
	Monitor      *monitor.Monitor
	Reporter     *report.Generator
	Scheduler    *scheduler.Scheduler
}

// New builds the full pipeline from configuration.
func New(cfg *config.Config) (*App, error) {
	router, err := llm.NewRouterFromConfig(cfg, prompts.System)
	if err != nil {
		return nil, fmt.Errorf("llm setup: %w", err)
	}

	market := marketdata.NewClient()
	facts := knowledge.NewStore()

	newsOpts := []news.AggregatorOption{}
	if cfg.News.NewsAPIKey != "" {
		client := news.NewNewsAPIClient(cfg.News.NewsAPIKey,
			news.WithNewsAPITimeout(time.Duration(cfg.News.TimeoutSec)*time.Second))
		newsOpts = append(newsOpts, news.WithNewsAPI(client))
	}
	if cfg.News.PerQueryLimit > 0 {
		newsOpts = append(newsOpts, news.WithPerQueryLimit(cfg.News.PerQueryLimit))
	}
	if cfg.News.HeadlineLimit > 0 {
		newsOpts = append(newsOpts, news.WithHeadlineLimit(cfg.News.HeadlineLimit))
	}
	aggregator := news.NewAggregator(newsOpts...)

	classifier := intent.NewClassifier(router)
	curator := curate.NewCurator(router)
	if cfg.News.MaxArticles > 0 {
		curator = curate.NewCuratorWithLimit(router, cfg.News.MaxArticles)
	}

	orch := orchestrator.New(classifier, aggregator, curator, market, facts, router,
		orchestrator.WithNarrativeTokens(cfg.LLM.NarrativeTokens))

	mon := monitor.New(market, orch, monitor.Config{
		Companies:  cfg.Monitor.Companies,
		HighPct:    cfg.Monitor.HighPct,
		ExtremePct: cfg.Monitor.ExtremePct,
		WindowMin:  cfg.Monitor.WindowMinutes,
	})
	mon.AddSink(monitor.LogSink{})

	reporter := report.NewGenerator(orch, mon, cfg.Monitor.HighPct, cfg.Monitor.ExtremePct)

	sched := scheduler.New(
		func(ctx context.Context) {
			log.Println(reporter.Generate(ctx))
		},
		func(ctx context.Context) {
			if alerts := mon.Check(ctx); len(alerts) > 0 {
				log.Printf("monitor: %d volatility alerts raised", len(alerts))
			}
		},
		time.Duration(cfg.Scheduler.ReportIntervalMin)*time.Minute,
		time.Duration(cfg.Scheduler.CheckIntervalMin)*time.Minute,
	)

	return &App{
		Cfg:          cfg,
		LLM:          router,
		Market:       market,
		Orchestrator: orch,
		Monitor:      mon,
		Reporter:     reporter,
		Scheduler:    sched,
	}, nil
}
