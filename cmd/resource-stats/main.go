// Command resource-stats fetches every search result and reports the
// distribution of resource counts per dataset with cumulative percentages.
package main

import (
	"context"
	"os"

	"github.com/envmeta/search-client/pkg/client"
	"github.com/envmeta/search-client/pkg/logging"
	"github.com/envmeta/search-client/pkg/pagination"
	"github.com/envmeta/search-client/pkg/stats"
)

func main() {
	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "warn")),
		Pretty: true,
		Output: os.Stderr,
	})

	cfg := client.DefaultConfig()
	cfg.BaseURL = getEnv("SEARCH_URL", cfg.BaseURL)
	cfg.Query = getEnv("SEARCH_QUERY", cfg.Query)

	searchClient, err := client.New(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create search client")
	}

	fetcher := pagination.New(searchClient)

	resourceStats, err := stats.Resources(fetcher.Fetch(context.Background()))
	if err != nil {
		// A partial histogram is unreliable; report nothing.
		logger.Fatal().Err(err).Msg("Fetch aborted before all pages were read")
	}

	resourceStats.Report(os.Stdout)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
