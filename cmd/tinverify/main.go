package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/shpitdev/tin-verification-pipeline/internal/config"
	"github.com/shpitdev/tin-verification-pipeline/internal/pipeline"
	"github.com/shpitdev/tin-verification-pipeline/internal/util"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	logger := log.New(os.Stderr, "", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "config error: %s\n", util.RedactSecrets(err.Error()))
		return 2
	}

	fs := flag.NewFlagSet("tinverify", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() { usage(os.Stderr, fs) }

	var (
		inputPath      string
		resultsPath    string
		rawLogPath     string
		xlsxPath       string
		endpoint       string
		requestTimeout time.Duration
		rateLimitRPS   float64
	)
	fs.StringVar(&inputPath, "input", "", "Input CSV path with firstName,lastName,tin,phone columns (prompted when empty)")
	fs.StringVar(&resultsPath, "results", cfg.ResultsPath, "Output CSV path for the merged result table")
	fs.StringVar(&rawLogPath, "raw-log", cfg.RawLogPath, "Output JSON path for the ordered raw API outcome log")
	fs.StringVar(&xlsxPath, "xlsx", cfg.XLSXPath, "Optional XLSX export path (empty disables)")
	fs.StringVar(&endpoint, "endpoint", cfg.Endpoint, "Verification endpoint URL (env: VOUCHED_TIN_ENDPOINT)")
	fs.DurationVar(&requestTimeout, "request-timeout", cfg.Timeout, "Per-record request timeout (env: REQUEST_TIMEOUT)")
	fs.Float64Var(&rateLimitRPS, "rate-limit-rps", cfg.RateLimitRPS, "Request pacing in requests/second, 0 disables (env: RATE_LIMIT_RPS)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if strings.TrimSpace(inputPath) == "" {
		inputPath, err = promptInputPath(os.Stdin, os.Stderr)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "input error: %s\n", err)
			return 2
		}
	}

	cfg.InputPath = strings.TrimSpace(inputPath)
	cfg.ResultsPath = resultsPath
	cfg.RawLogPath = rawLogPath
	cfg.XLSXPath = xlsxPath
	cfg.Endpoint = endpoint
	cfg.Timeout = requestTimeout
	cfg.RateLimitRPS = rateLimitRPS

	summary, err := pipeline.Run(ctx, cfg, logger)
	if err != nil {
		logger.Printf("fatal: %s", util.RedactSecrets(err.Error()))
		return 1
	}

	fmt.Printf("Processed %d record(s): %d succeeded, %d failed\n", summary.Total, summary.Succeeded, summary.Failed)
	fmt.Printf("Results: %s\n", summary.ResultsPath)
	fmt.Printf("Raw API log: %s\n", summary.RawLogPath)
	if summary.XLSXPath != "" {
		fmt.Printf("XLSX export: %s\n", summary.XLSXPath)
	}
	return 0
}

func promptInputPath(in *os.File, out *os.File) (string, error) {
	_, _ = fmt.Fprint(out, "Enter the path to the input file: ")
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("no input path provided")
	}
	path := strings.TrimSpace(scanner.Text())
	if path == "" {
		return "", fmt.Errorf("no input path provided")
	}
	return path, nil
}

func usage(w *os.File, fs *flag.FlagSet) {
	_, _ = fmt.Fprintf(w, `tinverify: batch TIN verification against the Vouched API

Usage:
  tinverify [flags]

Reads a CSV of identity records, submits each row sequentially to the
verification endpoint, and writes a merged result CSV plus an ordered raw
JSON log of every API outcome.

Environment:
  VOUCHED_PRIVATE_API_KEY  API key for the verification endpoint (required)
  CALLBACK_URL             Callback target for asynchronous results (optional)
  VOUCHED_TIN_ENDPOINT     Endpoint override
  REQUEST_TIMEOUT          Per-record request timeout (default 30s)
  RATE_LIMIT_RPS           Request pacing, 0 disables
  TINVERIFY_CONFIG         Optional YAML config file path

A .env file in the working directory is loaded automatically.

Flags:
`)
	fs.PrintDefaults()
}
