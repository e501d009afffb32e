package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultEndpoint is the Vouched TIN verification endpoint.
	DefaultEndpoint = "https://verify.vouched.id/api/tin/verify"

	// DefaultTimeout bounds each verification request.
	DefaultTimeout = 30 * time.Second

	DefaultResultsPath = "tin_verification_results.csv"
	DefaultRawLogPath  = "raw_api_responses.json"
)

// Config is the explicit runtime configuration for one pipeline run. It is
// constructed once at startup and threaded through the client and
// orchestrator rather than read from ambient globals.
type Config struct {
	// APIKey authenticates requests to the verification endpoint. Required.
	APIKey string
	// CallbackURL is where the remote API delivers asynchronous verification
	// callbacks. Optional: without it callback delivery is degraded, not blocked.
	CallbackURL string
	Endpoint    string
	// Timeout bounds each individual request, not the whole run.
	Timeout time.Duration
	// RateLimitRPS paces sequential requests. Set to <=0 to disable.
	RateLimitRPS float64

	InputPath   string
	ResultsPath string
	RawLogPath  string
	// XLSXPath enables the spreadsheet export when non-empty.
	XLSXPath string
}

// fileConfig is the optional YAML overlay pointed to by TINVERIFY_CONFIG.
type fileConfig struct {
	Endpoint     string  `yaml:"endpoint"`
	Timeout      string  `yaml:"timeout"`
	RateLimitRPS float64 `yaml:"rateLimitRPS"`
	Results      string  `yaml:"results"`
	RawLog       string  `yaml:"rawLog"`
	XLSX         string  `yaml:"xlsx"`
}

// Load builds a Config from defaults, the optional TINVERIFY_CONFIG YAML file,
// and environment variables, in increasing precedence.
//
// Environment:
//   - VOUCHED_PRIVATE_API_KEY  API key (required; validated by Validate)
//   - CALLBACK_URL             callback target (optional)
//   - VOUCHED_TIN_ENDPOINT     endpoint override
//   - REQUEST_TIMEOUT          per-request timeout (Go duration)
//   - RATE_LIMIT_RPS           request pacing, 0 disables
//   - TINVERIFY_CONFIG         path to a YAML config file
func Load() (Config, error) {
	cfg := Config{
		Endpoint:    DefaultEndpoint,
		Timeout:     DefaultTimeout,
		ResultsPath: DefaultResultsPath,
		RawLogPath:  DefaultRawLogPath,
	}

	if path := strings.TrimSpace(os.Getenv("TINVERIFY_CONFIG")); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	cfg.APIKey = strings.TrimSpace(os.Getenv("VOUCHED_PRIVATE_API_KEY"))
	cfg.CallbackURL = strings.TrimSpace(os.Getenv("CALLBACK_URL"))
	if v := strings.TrimSpace(os.Getenv("VOUCHED_TIN_ENDPOINT")); v != "" {
		cfg.Endpoint = v
	}

	timeout, err := envDuration("REQUEST_TIMEOUT", cfg.Timeout)
	if err != nil {
		return Config{}, err
	}
	cfg.Timeout = timeout

	rps, err := envFloat("RATE_LIMIT_RPS", cfg.RateLimitRPS)
	if err != nil {
		return Config{}, err
	}
	cfg.RateLimitRPS = rps

	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read TINVERIFY_CONFIG file: %w", err)
	}
	var raw fileConfig
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("parse TINVERIFY_CONFIG file %q: %w", path, err)
	}

	if v := strings.TrimSpace(raw.Endpoint); v != "" {
		cfg.Endpoint = v
	}
	if v := strings.TrimSpace(raw.Timeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid timeout %q in %s: %w", v, path, err)
		}
		cfg.Timeout = d
	}
	if raw.RateLimitRPS > 0 {
		cfg.RateLimitRPS = raw.RateLimitRPS
	}
	if v := strings.TrimSpace(raw.Results); v != "" {
		cfg.ResultsPath = v
	}
	if v := strings.TrimSpace(raw.RawLog); v != "" {
		cfg.RawLogPath = v
	}
	if v := strings.TrimSpace(raw.XLSX); v != "" {
		cfg.XLSXPath = v
	}
	return nil
}

// Validate checks the conditions that must halt the pipeline before any
// request is issued. A missing callback URL is deliberately not an error;
// callers should warn instead.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("VOUCHED_PRIVATE_API_KEY is required")
	}
	if strings.TrimSpace(c.Endpoint) == "" {
		return fmt.Errorf("verification endpoint is required")
	}
	return nil
}

func envDuration(varName string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return fallback, nil
	}
	out, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	return out, nil
}

func envFloat(varName string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return fallback, nil
	}
	out, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	return out, nil
}
