package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"google.golang.org/genai"

	"github.com/snoai/url2mda"
	"github.com/snoai/url2mda/engine"
	"github.com/snoai/url2mda/gemini"
	"github.com/snoai/url2mda/htmltomarkdown"
	url2mdahttp "github.com/snoai/url2mda/http"
	"github.com/snoai/url2mda/readability"
	"github.com/snoai/url2mda/reddit"
	redisc "github.com/snoai/url2mda/redis"
	"github.com/snoai/url2mda/rod"
	"github.com/snoai/url2mda/sqlite"
	"github.com/snoai/url2mda/trafilatura"
	"github.com/snoai/url2mda/twitter"
)

const shutdownTimeout = 10 * time.Second

// Main represents the program.
type Main struct {
	cli    *CLI
	logger *slog.Logger

	db      *sqlite.DB
	redis   *redisc.Cache
	session *rod.Session
	server  *url2mdahttp.Server
}

// NewMain returns a new instance of Main with defaults.
func NewMain(cli *CLI) *Main {
	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	return &Main{cli: cli, logger: logger}
}

// Run wires the service together and serves until ctx is canceled.
func (m *Main) Run(ctx context.Context) error {
	cache, err := m.openCache(ctx)
	if err != nil {
		return err
	}

	m.session = rod.NewSession(m.logger)
	var renderer url2mda.Renderer = m.session
	if m.cli.Verbose {
		renderer = rod.NewLoggingRenderer(renderer, m.logger)
	}

	var cleaner url2mda.Cleaner
	if m.cli.GeminiAPIKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  m.cli.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		cleaner = gemini.NewCleaner(client)
	} else {
		m.logger.Info("GEMINI_API_KEY not set, llmFilter pass disabled")
	}

	if m.cli.RedditClientID == "" || m.cli.RedditSecret == "" {
		m.logger.Info("reddit credentials not set, rate-limit fallback disabled")
	}

	svc := &engine.Engine{
		Renderer:   renderer,
		Cache:      cache,
		Limiter:    engine.NewCallerLimiter(m.cli.RPS, m.cli.Burst),
		Extractors: []url2mda.Extractor{trafilatura.NewExtractor(), readability.NewExtractor()},
		Converter:  htmltomarkdown.NewConverter(),
		Tweets:     twitter.NewClient(),
		Forums:     reddit.NewClient(cache, m.cli.RedditClientID, m.cli.RedditSecret, m.logger),
		Cleaner:    cleaner,
		Logger:     m.logger,
		Secret:     m.cli.Secret,
	}

	m.server = url2mdahttp.NewServer(svc, m.logger)

	errCh := make(chan error, 1)
	go func() {
		m.logger.Info("listening", "addr", m.cli.Addr)
		errCh <- m.server.Start(m.cli.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	m.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return m.server.Shutdown(shutdownCtx)
}

// openCache selects the cache backend: Redis when configured, SQLite
// otherwise.
func (m *Main) openCache(ctx context.Context) (url2mda.Cache, error) {
	if m.cli.RedisAddr != "" {
		cache, err := redisc.Open(ctx, m.cli.RedisAddr, m.cli.RedisPass, m.cli.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis at %q: %w", m.cli.RedisAddr, err)
		}
		m.redis = cache
		m.logger.Info("using redis cache", "addr", m.cli.RedisAddr)
		return cache, nil
	}

	path := m.cli.DB
	if path == "" {
		path = defaultDBPath()
	}
	m.db = sqlite.NewDB(path)
	if err := m.db.Open(); err != nil {
		return nil, fmt.Errorf("failed to open database at %q: %w", path, err)
	}

	cache := sqlite.NewCache(m.db)
	if n, err := cache.PurgeExpired(ctx); err == nil && n > 0 {
		m.logger.Info("purged expired cache entries", "count", n)
	}
	m.logger.Info("using sqlite cache", "path", path)
	return cache, nil
}

// Close gracefully releases everything Run opened.
func (m *Main) Close() error {
	if m.session != nil {
		if err := m.session.Shutdown(); err != nil {
			return err
		}
	}
	if m.redis != nil {
		if err := m.redis.Close(); err != nil {
			return err
		}
	}
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
