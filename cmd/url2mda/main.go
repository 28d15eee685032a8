package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := &CLI{}
	kong.Parse(cli,
		kong.Name("url2mda"),
		kong.Description("Convert any website into LLM-ready markdown."),
	)

	m := NewMain(cli)
	if err := m.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		_ = m.Close()
		os.Exit(1)
	}
	if err := m.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Addr string `default:":8080" env:"URL2MDA_ADDR" help:"HTTP listen address"`

	DB        string `env:"URL2MDA_DB" help:"SQLite cache path (default: ~/.url2mda/cache.db)"`
	RedisAddr string `env:"REDIS_ADDR" help:"Redis address; replaces the SQLite cache when set"`
	RedisPass string `env:"REDIS_PASSWORD" help:"Redis password"`
	RedisDB   int    `env:"REDIS_DB" help:"Redis database number"`

	Secret string `env:"URL2MDA_SECRET" help:"Privileged bearer token that bypasses rate limiting"`

	GeminiAPIKey string `env:"GEMINI_API_KEY" help:"Gemini API key; enables the llmFilter cleanup pass"`

	RedditClientID string `env:"REDDIT_CLIENT_ID" help:"Reddit OAuth client id for the rate-limit fallback"`
	RedditSecret   string `env:"REDDIT_CLIENT_SECRET" help:"Reddit OAuth client secret"`

	RPS   float64 `default:"1" help:"Per-caller requests per second"`
	Burst int     `default:"10" help:"Per-caller burst"`

	Verbose bool `short:"v" help:"Enable debug logging"`
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "url2mda.db"
	}
	dir := filepath.Join(home, ".url2mda")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "cache.db")
}
