// package testing contains shared testing utilities
package testing

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
)

// SpotifyStub is a fake Spotify accounts + Web API server.
//
// Token requests succeed with AccessToken unless TokenStatus is set. Top item requests return the JSON array stored in
// Items under "<category>:<time_range>", or an empty list. A request whose time_range equals FailRange gets a 502.
type SpotifyStub struct {
	Server *httptest.Server

	AccessToken  string
	DisplayName  string
	TokenStatus  int
	TokenPayload string
	MeStatus     int
	FailRange    string
	Items        map[string]string

	mu            sync.Mutex
	tokenRequests []url.Values
	apiRequests   []*http.Request
}

// NewSpotifyStub starts a stub server that is closed when the test ends.
func NewSpotifyStub(t *testing.T) *SpotifyStub {
	t.Helper()

	s := &SpotifyStub{
		AccessToken: "abc",
		DisplayName: "Alice",
		Items:       map[string]string{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/token", s.token)
	mux.HandleFunc("GET /v1/me", s.me)
	mux.HandleFunc("GET /v1/me/top/{category}", s.top)

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Server.Close)

	return s
}

// AccountsURL is the base URL to configure as the accounts service.
func (s *SpotifyStub) AccountsURL() string { return s.Server.URL }

// APIURL is the base URL to configure as the Web API.
func (s *SpotifyStub) APIURL() string { return s.Server.URL + "/v1" }

// TokenRequests returns the form bodies received by the token endpoint.
func (s *SpotifyStub) TokenRequests() []url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]url.Values(nil), s.tokenRequests...)
}

// APIRequests returns the Web API requests received so far.
func (s *SpotifyStub) APIRequests() []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*http.Request(nil), s.apiRequests...)
}

func (s *SpotifyStub) token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.tokenRequests = append(s.tokenRequests, r.PostForm)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if s.TokenStatus != 0 {
		w.WriteHeader(s.TokenStatus)
		payload := s.TokenPayload
		if payload == "" {
			payload = `{"error":"invalid_grant","error_description":"Invalid authorization code"}`
		}
		io.WriteString(w, payload)
		return
	}

	json.NewEncoder(w).Encode(map[string]any{
		"access_token": s.AccessToken,
		"token_type":   "Bearer",
		"expires_in":   3600,
		"scope":        "user-read-private user-read-email user-top-read",
	})
}

func (s *SpotifyStub) me(w http.ResponseWriter, r *http.Request) {
	s.record(r)

	if !s.authorized(r) {
		http.Error(w, `{"error":{"status":401,"message":"Invalid access token"}}`, http.StatusUnauthorized)
		return
	}
	if s.MeStatus != 0 {
		http.Error(w, `{"error":{"status":500,"message":"boom"}}`, s.MeStatus)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"id": "alice", "display_name": s.DisplayName})
}

func (s *SpotifyStub) top(w http.ResponseWriter, r *http.Request) {
	s.record(r)

	if !s.authorized(r) {
		http.Error(w, `{"error":{"status":401,"message":"Invalid access token"}}`, http.StatusUnauthorized)
		return
	}

	timeRange := r.URL.Query().Get("time_range")
	if s.FailRange != "" && timeRange == s.FailRange {
		http.Error(w, `{"error":{"status":502,"message":"Bad gateway"}}`, http.StatusBadGateway)
		return
	}

	items, ok := s.Items[r.PathValue("category")+":"+timeRange]
	if !ok {
		items = "[]"
	}

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"items":%s,"total":0,"limit":%s}`, items, r.URL.Query().Get("limit"))
}

func (s *SpotifyStub) record(r *http.Request) {
	s.mu.Lock()
	s.apiRequests = append(s.apiRequests, r.Clone(r.Context()))
	s.mu.Unlock()
}

func (s *SpotifyStub) authorized(r *http.Request) bool {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ") == s.AccessToken
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
