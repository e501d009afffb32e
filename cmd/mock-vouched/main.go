package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shpitdev/tin-verification-pipeline/internal/mockvouched"
)

// mock-vouched serves a local stand-in for the TIN verification API so the
// pipeline can be exercised end to end without spending real verifications.
func main() {
	addr := defaultString("MOCK_VOUCHED_ADDR", ":8080")
	apiKey := defaultString("MOCK_VOUCHED_API_KEY", "")
	status := defaultString("MOCK_VOUCHED_STATUS", "approved")

	fs := flag.NewFlagSet("mock-vouched", flag.ExitOnError)
	fs.StringVar(&addr, "addr", addr, "Listen address")
	fs.StringVar(&apiKey, "api-key", apiKey, "Require this X-API-Key value (empty disables enforcement)")
	fs.StringVar(&status, "status", status, "result.status value returned for every request")
	var delay time.Duration
	fs.DurationVar(&delay, "delay", 0, "Artificial response delay for timeout testing")
	_ = fs.Parse(os.Args[1:])

	srv := mockvouched.New()
	srv.SetDefault(mockvouched.Response{
		StatusCode: http.StatusOK,
		Body:       fmt.Sprintf(`{"id":"mock-1","submitted":true,"result":{"status":%q}}`, status),
		Delay:      delay,
	})
	if apiKey != "" {
		srv.RequireAPIKey(apiKey)
	}

	_, _ = fmt.Fprintf(os.Stdout, "mock-vouched listening on %s (POST /api/tin/verify)\n", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func defaultString(envVar string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(envVar))
	if v == "" {
		return fallback
	}
	return v
}
