package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shpitdev/tin-verification-pipeline/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)
		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Endpoint != config.DefaultEndpoint {
			t.Fatalf("unexpected endpoint: %q", cfg.Endpoint)
		}
		if cfg.Timeout != config.DefaultTimeout {
			t.Fatalf("unexpected timeout: %s", cfg.Timeout)
		}
		if cfg.ResultsPath != "tin_verification_results.csv" || cfg.RawLogPath != "raw_api_responses.json" {
			t.Fatalf("unexpected output paths: %#v", cfg)
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("VOUCHED_PRIVATE_API_KEY", " secret ")
		t.Setenv("CALLBACK_URL", "https://callbacks.example/tin")
		t.Setenv("VOUCHED_TIN_ENDPOINT", "https://staging.example/api/tin/verify")
		t.Setenv("REQUEST_TIMEOUT", "5s")
		t.Setenv("RATE_LIMIT_RPS", "2.5")

		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.APIKey != "secret" {
			t.Fatalf("api key not trimmed: %q", cfg.APIKey)
		}
		if cfg.Endpoint != "https://staging.example/api/tin/verify" {
			t.Fatalf("unexpected endpoint: %q", cfg.Endpoint)
		}
		if cfg.Timeout != 5*time.Second || cfg.RateLimitRPS != 2.5 {
			t.Fatalf("unexpected tuning: %#v", cfg)
		}
	})

	t.Run("yaml file overlay with env precedence", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "tinverify.yaml")
		doc := "endpoint: https://file.example/api/tin/verify\ntimeout: 10s\nresults: from-file.csv\n"
		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			t.Fatalf("write config file: %v", err)
		}
		t.Setenv("TINVERIFY_CONFIG", path)
		t.Setenv("VOUCHED_TIN_ENDPOINT", "https://env.example/api/tin/verify")

		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Endpoint != "https://env.example/api/tin/verify" {
			t.Fatalf("env should override file: %q", cfg.Endpoint)
		}
		if cfg.Timeout != 10*time.Second {
			t.Fatalf("file timeout not applied: %s", cfg.Timeout)
		}
		if cfg.ResultsPath != "from-file.csv" {
			t.Fatalf("file results path not applied: %q", cfg.ResultsPath)
		}
	})

	t.Run("invalid duration errors", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("REQUEST_TIMEOUT", "soon")
		if _, err := config.Load(); err == nil || !strings.Contains(err.Error(), "REQUEST_TIMEOUT") {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestValidate(t *testing.T) {
	cfg := config.Config{Endpoint: config.DefaultEndpoint}
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "VOUCHED_PRIVATE_API_KEY") {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.APIKey = "secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"VOUCHED_PRIVATE_API_KEY",
		"CALLBACK_URL",
		"VOUCHED_TIN_ENDPOINT",
		"REQUEST_TIMEOUT",
		"RATE_LIMIT_RPS",
		"TINVERIFY_CONFIG",
	} {
		t.Setenv(name, "")
	}
}
