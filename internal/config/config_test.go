package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
llm:
  api_key: sk-test
news_providers:
  gnews:
    api_key: gk-test
  newsapi:
    api_key: nk-test
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want default 8080", cfg.Server.Port)
	}
	if cfg.Budget.MaxAPICalls != 5 {
		t.Errorf("max_api_calls = %d, want default 5", cfg.Budget.MaxAPICalls)
	}
	if cfg.Budget.InterClaimWait != time.Second {
		t.Errorf("inter_claim_wait = %v, want 1s", cfg.Budget.InterClaimWait)
	}
	if len(cfg.Fetch.BlockedDomains) != 1 || cfg.Fetch.BlockedDomains[0] != "ndtv.com" {
		t.Errorf("blocked_domains = %v", cfg.Fetch.BlockedDomains)
	}
}

func TestLoadInterpolatesEnvVars(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "sk-from-env")
	path := writeConfig(t, `
llm:
  api_key: ${TEST_OPENAI_KEY}
news_providers:
  gnews:
    api_key: gk-test
  newsapi:
    api_key: nk-test
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.APIKey != "sk-from-env" {
		t.Errorf("api_key = %q, want interpolated value", cfg.LLM.APIKey)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// validConfig is DefaultConfig with every required credential filled in.
func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.LLM.APIKey = "sk"
	cfg.Providers.GNews.APIKey = "gk"
	cfg.Providers.NewsAPI.APIKey = "nk"
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"fully configured", func(c *Config) {}, false},
		{"openai without key", func(c *Config) { c.LLM.APIKey = "" }, true},
		{"ollama without key", func(c *Config) {
			c.LLM.Provider = "ollama"
			c.LLM.Model = "llama3"
			c.LLM.APIKey = ""
		}, false},
		{"unknown llm provider", func(c *Config) {
			c.LLM.Provider = "bard"
		}, true},
		{"bad port", func(c *Config) {
			c.Server.Port = 0
		}, true},
		{"negative budget", func(c *Config) {
			c.Budget.MaxAPICalls = -1
		}, true},
		{"response exceeds context", func(c *Config) {
			c.LLM.MaxResponseTokens = 9000
		}, true},
		{"no providers enabled", func(c *Config) {
			c.Providers.GNews.Enabled = false
			c.Providers.NewsAPI.Enabled = false
		}, true},
		{"enabled gnews without key", func(c *Config) {
			c.Providers.GNews.APIKey = ""
		}, true},
		{"enabled newsapi without key", func(c *Config) {
			c.Providers.NewsAPI.APIKey = ""
		}, true},
		{"disabled provider needs no key", func(c *Config) {
			c.Providers.GNews.Enabled = false
			c.Providers.GNews.APIKey = ""
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateSampleRoundTrip(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-sample")
	path := filepath.Join(t.TempDir(), "sample.yaml")
	if err := GenerateSample(path); err != nil {
		t.Fatalf("GenerateSample failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("generated sample does not load: %v", err)
	}
	if cfg.Budget.MaxAPICalls != 5 {
		t.Errorf("sample max_api_calls = %d", cfg.Budget.MaxAPICalls)
	}
}
