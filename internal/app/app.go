// Package app wires the pipeline together and runs one pass.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/deusflow/ainews/internal/config"
	"github.com/deusflow/ainews/internal/gemini"
	"github.com/deusflow/ainews/internal/logger"
	"github.com/deusflow/ainews/internal/metrics"
	"github.com/deusflow/ainews/internal/news"
	"github.com/deusflow/ainews/internal/openai"
	"github.com/deusflow/ainews/internal/publish"
	"github.com/deusflow/ainews/internal/ratelimit"
	"github.com/deusflow/ainews/internal/rss"
	"github.com/deusflow/ainews/internal/slack"
	"github.com/deusflow/ainews/internal/summarize"
)

// Run executes one full pipeline pass: collect, summarize, publish.
// Only missing configuration produces an error; everything downstream
// degrades in place and the run finishes.
func Run() error {
	startTime := time.Now()
	defer func() {
		metrics.Global.RecordRunDuration(time.Since(startTime))
		metrics.Global.SetLastRun()
	}()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	feeds, err := rss.LoadFeeds(cfg.FeedsConfigPath)
	if err != nil {
		return fmt.Errorf("feeds config: %w", err)
	}

	ctx := context.Background()

	fetcher := rss.NewFetcher(cfg.RequestTimeout)
	aggregator := news.NewAggregator(fetcher, cfg.NewsWindow, cfg.MaxArticles)

	logger.Info("Collecting news", "feeds", len(feeds), "window", cfg.NewsWindow, "max_articles", cfg.MaxArticles)
	batch := aggregator.Collect(ctx, feeds)

	summarizer, closeProviders := buildSummarizer(ctx, cfg)
	defer closeProviders()
	summaries := summarizer.SummarizeBatch(ctx, batch)

	sink := slack.NewClient(cfg.SlackWebhookURL, cfg.RequestTimeout, cfg.RetryAttempts, cfg.RetryDelay)
	publisher := publish.NewPublisher(sink, cfg.ChunkSize, cfg.PostPace)

	result := publisher.Publish(ctx, batch, summaries)
	logger.Info("Run finished", "articles", len(batch), "sent", result.Sent, "failed", result.Failed)

	if result.Failed > 0 {
		metrics.Global.SetError(fmt.Sprintf("%d webhook posts failed", result.Failed))
	}
	return nil
}

// buildSummarizer assembles the provider chain. A provider that cannot be
// constructed is skipped; with no providers at all every article gets the
// degraded sentinel, which still produces a complete digest. The returned
// func releases provider connections once the run is done.
func buildSummarizer(ctx context.Context, cfg *config.Config) (*summarize.Summarizer, func()) {
	var providers []summarize.Provider
	closeProviders := func() {}

	gem, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Warn("Gemini client unavailable", "error", err)
	} else {
		providers = append(providers, gem)
		closeProviders = gem.Close
	}

	if cfg.OpenAIAPIKey != "" {
		providers = append(providers, openai.NewClient(cfg.OpenAIAPIKey))
	}
	logger.Debug("Summarizer providers assembled", "count", len(providers))

	pacer := ratelimit.NewPacer(cfg.SummaryPace, cfg.SummaryBurst, cfg.SummaryCooldown)
	return summarize.NewSummarizer(providers, pacer, cfg.SummaryInputLimit, cfg.MaxSummaryRequests, cfg.SummaryLanguage), closeProviders
}
