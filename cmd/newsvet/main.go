// Command newsvet runs the claim fact-checking pipeline, either as a
// one-shot batch run or behind an HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/factchecker/newsvet/internal/api"
	"github.com/factchecker/newsvet/internal/classify"
	"github.com/factchecker/newsvet/internal/config"
	"github.com/factchecker/newsvet/internal/database"
	"github.com/factchecker/newsvet/internal/fetch"
	"github.com/factchecker/newsvet/internal/llm"
	"github.com/factchecker/newsvet/internal/news"
	"github.com/factchecker/newsvet/internal/pipeline"
	"github.com/factchecker/newsvet/internal/verify"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	generateConfig := flag.Bool("generate-config", false, "write a sample configuration file and exit")
	serve := flag.Bool("serve", false, "start the HTTP API instead of a one-shot run")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	if *generateConfig {
		if err := config.GenerateSample(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Sample configuration written to %s\n", *configPath)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg.Logging)

	store, err := database.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer store.Close()

	pipe, err := buildPipeline(cfg, store)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build pipeline")
	}

	if *serve {
		router := api.NewRouter(cfg, pipe, store)
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		log.Info().Str("addr", addr).Msg("Starting HTTP server")
		server := &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 5 * time.Minute,
		}
		if err := server.ListenAndServe(); err != nil {
			log.Fatal().Err(err).Msg("Server stopped")
		}
		return
	}

	summary, err := pipe.Run(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("Run failed")
	}
	log.Info().
		Str("fact_check", summary.FactCheckPath).
		Str("classification", summary.ClassificationPath).
		Msg("Results written")
}

// buildPipeline wires all components from configuration.
func buildPipeline(cfg *config.Config, store database.Store) (*pipeline.Pipeline, error) {
	client := &http.Client{Timeout: cfg.Fetch.Timeout}

	var providers []news.Provider
	if cfg.Providers.GNews.Enabled {
		providers = append(providers, news.NewGNewsProvider(cfg.Providers.GNews.APIKey, cfg.Providers.GNews.BaseURL, client))
	}
	if cfg.Providers.NewsAPI.Enabled {
		providers = append(providers, news.NewNewsAPIProvider(cfg.Providers.NewsAPI.APIKey, cfg.Providers.NewsAPI.BaseURL, client))
	}

	budget := news.NewCallBudget(cfg.Budget.MaxAPICalls)
	pool := news.NewPool(budget, providers...)

	fetcher := fetch.New(fetch.Options{
		Timeout:        cfg.Fetch.Timeout,
		UserAgent:      cfg.Fetch.UserAgent,
		BlockedDomains: cfg.Fetch.BlockedDomains,
		MinSentenceLen: cfg.Fetch.MinSentenceLen,
	})

	verifier := verify.New(pool, fetcher, cfg.Budget.MaxArticles, cfg.Budget.InterClaimWait)

	provider, err := llm.NewProvider(&cfg.LLM)
	if err != nil {
		return nil, err
	}
	classifier := classify.New(provider, cfg.LLM.MaxContextTokens, cfg.LLM.MaxResponseTokens, cfg.LLM.Temperature)

	pipe := pipeline.New(verifier, classifier, pool, store,
		cfg.Paths.ClaimsInput, cfg.Paths.FactCheckOutput, cfg.Paths.ClassificationOutput)
	return pipe, nil
}

func setupLogging(cfg config.LoggingConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
