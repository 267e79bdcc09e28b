package wger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != defaultBaseURL {
		t.Fatalf("base url = %q, want %q", u.String(), defaultBaseURL)
	}

	u, err = parseBaseURL("https://example.com/api/v2/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "/api/v2" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	u, err = parseBaseURL("example.com")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" {
		t.Fatalf("scheme = %q, want https", u.Scheme)
	}
}

func TestClient_FetchEncodesLanguageAndLimit(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values
	var gotPath, gotUserAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ExerciseList{
			Count: 1,
			Results: []Exercise{
				{ID: 7, Translations: []Translation{{Language: 2, Name: "Squat"}}},
			},
		})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL+"/api/v2", 2)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	exercises, err := c.FetchExercises(ctx)
	if err != nil {
		t.Fatalf("FetchExercises returned error: %v", err)
	}
	if len(exercises) != 1 || exercises[0].ID != 7 {
		t.Fatalf("FetchExercises = %#v, want 1 exercise id=7", exercises)
	}
	if gotPath != "/api/v2/exercise/" {
		t.Fatalf("request path = %q, want /api/v2/exercise/", gotPath)
	}
	if gotQuery.Get("language") != "2" || gotQuery.Get("limit") != "50" {
		t.Fatalf("query = %v, want language=2 limit=50", gotQuery)
	}
	if !strings.HasPrefix(gotUserAgent, "fitterm/") {
		t.Fatalf("User-Agent = %q, want fitterm/*", gotUserAgent)
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	status := http.StatusOK
	body := "{not-json"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			http.Error(w, "nope", status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, 2)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.FetchExercises(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("FetchExercises error = %v, want decode response error", err)
	}

	status = http.StatusInternalServerError
	_, err = c.FetchExercises(context.Background())
	var serr *StatusError
	if !errors.As(err, &serr) || serr.Code != http.StatusInternalServerError {
		t.Fatalf("FetchExercises error = %v, want StatusError 500", err)
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	// Closed server: connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	c, err := NewClient(addr, 2)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.FetchExercises(context.Background())
	if err == nil {
		t.Fatalf("FetchExercises returned nil error against closed server")
	}
	var serr *StatusError
	if errors.As(err, &serr) {
		t.Fatalf("network failure reported as StatusError: %v", err)
	}
}
