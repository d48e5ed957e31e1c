package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/tabify/tabify/internal/media"
	"github.com/tabify/tabify/internal/services"
	"github.com/tabify/tabify/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}
	config.ApplyEnv()

	var catalog services.Catalog
	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(map[string]string{
			"client_id":     config.Credentials.Spotify.ClientID,
			"client_secret": config.Credentials.Spotify.ClientSecret,
		}); err == nil {
			catalog = svc
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		Fetcher:    media.NewYTDLPFetcher(config.Media.Dir, logger),
		Recognizer: services.NewRecognitionService(config.Credentials.Recognizer.URL, config.Credentials.Recognizer.APIKey),
		Catalog:    catalog,
		Tabs:       services.NewChromeTabResolver(logger),
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "tabify",
		Usage:    "Identify songs from YouTube videos and find guitar tabs & lessons",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
