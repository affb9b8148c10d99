// Command twitter-agent runs the MCP server on stdio, backed by a direct
// read transport and a stealth browser session for writes.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	twitter "github.com/anatolykoptev/go-twitter-agent"
	"github.com/anatolykoptev/go-twitter-agent/mcp"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	// Stdout carries the protocol; everything else goes to stderr.
	logLevel := slog.LevelInfo
	if os.Getenv("TWITTER_DEBUG") != "" {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	// A .env file is a convenience, not a requirement.
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", slog.Any("error", err))
	}

	authToken := os.Getenv("TWITTER_AUTH_TOKEN")
	ct0 := os.Getenv("TWITTER_CT0")
	if authToken == "" || ct0 == "" {
		return fmt.Errorf("missing required environment variables: TWITTER_AUTH_TOKEN and TWITTER_CT0")
	}

	cfg := twitter.ClientConfig{
		AuthToken: authToken,
		CT0:       ct0,
		Proxy:     os.Getenv("TWITTER_PROXY"),
	}
	if os.Getenv("TWITTER_HEADFUL") != "" {
		headless := false
		cfg.Browser.Headless = &headless
	}

	client, err := twitter.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("build client: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Close(closeCtx); err != nil {
			slog.Warn("close client", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("twitter-agent MCP server running on stdio")
	return mcp.Serve(ctx, mcp.NewServer(client), os.Stdin, os.Stdout)
}
