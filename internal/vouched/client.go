package vouched

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/shpitdev/tin-verification-pipeline/internal/config"
	"github.com/shpitdev/tin-verification-pipeline/internal/input"
	"github.com/shpitdev/tin-verification-pipeline/internal/util"
)

const tinTypeITIN = "ITIN"

// Client submits identity records to the Vouched TIN verification endpoint.
type Client struct {
	endpoint    string
	apiKey      string
	callbackURL string
	timeout     time.Duration
	http        *http.Client
}

// requestPayload is the wire shape of one verification request. The callback
// field is spelled callbackUrl; that spelling is the contract.
type requestPayload struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	TIN         string `json:"tin"`
	Phone       string `json:"phone"`
	TINType     string `json:"tinType"`
	CallbackURL string `json:"callbackUrl"`
}

// NewClient builds a client from the run configuration.
func NewClient(cfg config.Config) *Client {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = config.DefaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	return &Client{
		endpoint:    endpoint,
		apiKey:      strings.TrimSpace(cfg.APIKey),
		callbackURL: strings.TrimSpace(cfg.CallbackURL),
		timeout:     timeout,
		http:        &http.Client{},
	}
}

// Verify submits one record and classifies the outcome. It never returns an
// error: every failure mode is captured into the returned Outcome so one
// failed row cannot block the remaining rows.
func (c *Client) Verify(ctx context.Context, rec input.Record) Outcome {
	out := Outcome{Row: rec.Index}

	body, err := json.Marshal(requestPayload{
		FirstName:   strings.TrimSpace(rec.FirstName),
		LastName:    strings.TrimSpace(rec.LastName),
		TIN:         strings.TrimSpace(rec.TIN),
		Phone:       strings.TrimSpace(rec.Phone),
		TINType:     tinTypeITIN,
		CallbackURL: c.callbackURL,
	})
	if err != nil {
		out.Error = fmt.Sprintf("build request payload: %v", err)
		return out
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		out.Error = util.RedactSecrets(fmt.Sprintf("build request: %v", err))
		return out
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			out.Error = "Request timeout"
			return out
		}
		out.Error = util.RedactSecrets(fmt.Sprintf("request failed: %v", err))
		return out
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	statusCode := resp.StatusCode
	out.StatusCode = &statusCode

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		// The status line arrived, so keep the code; the body did not.
		if isTimeout(err) {
			out.Error = "Request timeout"
			return out
		}
		out.Error = util.RedactSecrets(fmt.Sprintf("read response body (status %d): %v", statusCode, err))
		return out
	}

	payload := bodyPayload(b)
	if statusCode == http.StatusOK {
		out.Success = true
		out.Response = payload
		return out
	}

	out.Response = payload
	if payload == nil {
		out.Error = fmt.Sprintf("HTTP %s", resp.Status)
		return out
	}
	out.Error = payload
	return out
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
