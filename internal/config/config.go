// Package config handles application configuration from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	LLM       LLMConfig       `yaml:"llm"`
	Providers ProvidersConfig `yaml:"news_providers"`
	Budget    BudgetConfig    `yaml:"budget"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Paths     PathsConfig     `yaml:"paths"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port              int `yaml:"port"`
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type LLMConfig struct {
	Provider          string  `yaml:"provider"` // openai, ollama
	Model             string  `yaml:"model"`
	APIKey            string  `yaml:"api_key"`
	OllamaURL         string  `yaml:"ollama_url"`
	MaxContextTokens  int     `yaml:"max_context_tokens"`
	MaxResponseTokens int     `yaml:"max_response_tokens"`
	Temperature       float64 `yaml:"temperature"`
}

type ProvidersConfig struct {
	GNews   ProviderConfig `yaml:"gnews"`
	NewsAPI ProviderConfig `yaml:"newsapi"`
}

type ProviderConfig struct {
	Enabled bool   `yaml:"enabled"`
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

type BudgetConfig struct {
	MaxAPICalls    int           `yaml:"max_api_calls"`
	MaxArticles    int           `yaml:"max_articles"`
	InterClaimWait time.Duration `yaml:"inter_claim_wait"`
}

type FetchConfig struct {
	Timeout        time.Duration `yaml:"timeout"`
	UserAgent      string        `yaml:"user_agent"`
	BlockedDomains []string      `yaml:"blocked_domains"`
	MinSentenceLen int           `yaml:"min_sentence_len"`
}

type PathsConfig struct {
	ClaimsInput          string `yaml:"claims_input"`
	FactCheckOutput      string `yaml:"fact_check_output"`
	ClassificationOutput string `yaml:"classification_output"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              8080,
			RequestsPerMinute: 60,
		},
		Database: DatabaseConfig{
			Path: "./data/newsvet.db",
		},
		LLM: LLMConfig{
			Provider:          "openai",
			Model:             "gpt-4o-mini",
			MaxContextTokens:  8192,
			MaxResponseTokens: 1000,
			Temperature:       0.1,
		},
		Providers: ProvidersConfig{
			GNews: ProviderConfig{
				Enabled: true,
				BaseURL: "https://gnews.io/api/v4",
			},
			NewsAPI: ProviderConfig{
				Enabled: true,
				BaseURL: "https://newsapi.org/v2",
			},
		},
		Budget: BudgetConfig{
			MaxAPICalls:    5,
			MaxArticles:    10,
			InterClaimWait: time.Second,
		},
		Fetch: FetchConfig{
			Timeout:        10 * time.Second,
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			BlockedDomains: []string{"ndtv.com"},
			MinSentenceLen: 10,
		},
		Paths: PathsConfig{
			ClaimsInput:          "./data/verified_claims.json",
			FactCheckOutput:      "./data/fact_check_results.json",
			ClassificationOutput: "./data/fact_check_classification_results.json",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run with -generate-config to create one)", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Interpolate environment variables
	content := interpolateEnvVars(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// GenerateSample creates a sample configuration file.
func GenerateSample(path string) error {
	sample := `# Newsvet Configuration
# See documentation for all options

server:
  port: 8080
  requests_per_minute: 60

database:
  path: ./data/newsvet.db

llm:
  provider: openai  # openai or ollama
  model: gpt-4o-mini
  api_key: ${OPENAI_API_KEY}
  max_context_tokens: 8192
  max_response_tokens: 1000
  temperature: 0.1

  # For Ollama (local):
  # provider: ollama
  # model: llama3
  # ollama_url: http://localhost:11434

news_providers:
  gnews:
    enabled: true
    api_key: ${GNEWS_API_KEY}
    base_url: https://gnews.io/api/v4
  newsapi:
    enabled: true
    api_key: ${NEWSAPI_KEY}
    base_url: https://newsapi.org/v2

budget:
  max_api_calls: 5
  max_articles: 10
  inter_claim_wait: 1s

fetch:
  timeout: 10s
  blocked_domains:
    - ndtv.com
  min_sentence_len: 10

paths:
  claims_input: ./data/verified_claims.json
  fact_check_output: ./data/fact_check_results.json
  classification_output: ./data/fact_check_classification_results.json

logging:
  level: info  # debug, info, warn, error
  format: json # json or console
`
	return os.WriteFile(path, []byte(sample), 0644)
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.LLM.Provider != "openai" && c.LLM.Provider != "ollama" {
		return fmt.Errorf("unsupported LLM provider: %s", c.LLM.Provider)
	}
	if c.LLM.Provider == "openai" && c.LLM.APIKey == "" {
		return fmt.Errorf("OpenAI API key is required")
	}

	if c.Budget.MaxAPICalls < 0 {
		return fmt.Errorf("max_api_calls must not be negative")
	}
	if c.Budget.MaxArticles < 1 {
		return fmt.Errorf("max_articles must be at least 1")
	}

	if c.LLM.MaxResponseTokens >= c.LLM.MaxContextTokens {
		return fmt.Errorf("max_response_tokens (%d) must be smaller than max_context_tokens (%d)",
			c.LLM.MaxResponseTokens, c.LLM.MaxContextTokens)
	}

	if !c.Providers.GNews.Enabled && !c.Providers.NewsAPI.Enabled {
		return fmt.Errorf("at least one news provider must be enabled")
	}
	if c.Providers.GNews.Enabled && c.Providers.GNews.APIKey == "" {
		return fmt.Errorf("gnews is enabled but has no API key")
	}
	if c.Providers.NewsAPI.Enabled && c.Providers.NewsAPI.APIKey == "" {
		return fmt.Errorf("newsapi is enabled but has no API key")
	}

	return nil
}

// interpolateEnvVars replaces ${VAR_NAME} with environment variable values.
func interpolateEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		varName := strings.TrimPrefix(strings.TrimSuffix(match, "}"), "${")
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match // Keep original if not set
	})
}
