package mockvouched

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Call records one verification request received by the mock API.
type Call struct {
	APIKey  string
	Payload map[string]any
}

// Response scripts the reply for a request. A non-zero Delay holds the
// response to exercise client timeouts.
type Response struct {
	StatusCode int
	Body       string
	Delay      time.Duration
}

// Server implements a minimal Vouched-like TIN verification API surface for
// tests: scripted per-TIN responses, call recording, optional API key
// enforcement.
type Server struct {
	mu              sync.Mutex
	calls           []Call
	responses       map[string]Response
	defaultResponse Response
	expectedAPIKey  string
}

// New constructs a mock server that approves everything by default.
func New() *Server {
	return &Server{
		responses: make(map[string]Response),
		defaultResponse: Response{
			StatusCode: http.StatusOK,
			Body:       `{"id":"mock-1","submitted":true,"result":{"status":"approved"}}`,
		},
	}
}

// Respond scripts the response for requests carrying the given tin.
func (s *Server) Respond(tin string, r Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[strings.TrimSpace(tin)] = r
}

// SetDefault replaces the response used for unscripted tins.
func (s *Server) SetDefault(r Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultResponse = r
}

// RequireAPIKey enforces that requests carry a matching X-API-Key header.
// An empty key disables enforcement.
func (s *Server) RequireAPIKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expectedAPIKey = strings.TrimSpace(key)
}

// Calls returns a copy of the recorded calls in arrival order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// Handler returns an http.Handler that serves the mock API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tin/verify", s.handleVerify)
	return mux
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, `{"message":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, `{"message":"read body"}`, http.StatusBadRequest)
		return
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		http.Error(w, `{"message":"invalid json"}`, http.StatusBadRequest)
		return
	}

	apiKey := strings.TrimSpace(r.Header.Get("X-API-Key"))

	s.mu.Lock()
	s.calls = append(s.calls, Call{APIKey: apiKey, Payload: payload})
	expected := s.expectedAPIKey
	resp := s.defaultResponse
	if tin, ok := payload["tin"].(string); ok {
		if scripted, found := s.responses[strings.TrimSpace(tin)]; found {
			resp = scripted
		}
	}
	s.mu.Unlock()

	if expected != "" && apiKey != expected {
		http.Error(w, `{"message":"invalid api key"}`, http.StatusUnauthorized)
		return
	}

	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write([]byte(resp.Body))
}
