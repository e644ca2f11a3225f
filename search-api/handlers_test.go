package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/davideustache-creator/BigBrother/storage"
)

type fakeSearcher struct {
	total     int64
	hits      []storage.SearchHit
	searchErr error
	pingErr   error
	lastQuery string
	lastLimit int
}

func (f *fakeSearcher) Search(ctx context.Context, query string, limit int) (int64, []storage.SearchHit, error) {
	f.lastQuery = query
	f.lastLimit = limit
	return f.total, f.hits, f.searchErr
}

func (f *fakeSearcher) Ping(ctx context.Context) error { return f.pingErr }

func newTestServer(f *fakeSearcher) *echo.Echo {
	e := echo.New()
	register(e, f, 50)
	return e
}

func TestSearchMissingQuery(t *testing.T) {
	e := newTestServer(&fakeSearcher{})
	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSearchReturnsResults(t *testing.T) {
	f := &fakeSearcher{
		total: 123,
		hits: []storage.SearchHit{{
			Title:      "PushEvent by alice on x/y",
			Author:     "alice",
			Source:     "github",
			ContentURL: "https://github.com/x/y",
			EventTime:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}},
	}
	e := newTestServer(f)
	req := httptest.NewRequest(http.MethodGet, "/api/search?q=alice", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if f.lastQuery != "alice" || f.lastLimit != 50 {
		t.Fatalf("unexpected search call: q=%q limit=%d", f.lastQuery, f.lastLimit)
	}
	var resp searchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalResults != 123 {
		t.Fatalf("unexpected total: %d", resp.TotalResults)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
	got := resp.Results[0]
	if got.Title != "PushEvent by alice on x/y" || got.Author != "alice" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if got.EventTime != "2024-01-01T00:00:00Z" {
		t.Fatalf("expected ISO-8601 event_time, got %q", got.EventTime)
	}
}

func TestSearchStoreFailureIsGeneric500(t *testing.T) {
	f := &fakeSearcher{searchErr: errors.New("LOADING Redis is loading the dataset in memory")}
	e := newTestServer(f)
	req := httptest.NewRequest(http.MethodGet, "/api/search?q=alice", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "Redis") {
		t.Fatalf("internal detail leaked to client: %q", rec.Body.String())
	}
}

func TestStatusEndpoint(t *testing.T) {
	e := newTestServer(&fakeSearcher{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Project != "BigBrother" || resp.Status != "online" {
		t.Fatalf("unexpected status payload: %+v", resp)
	}
}

func TestHealthz(t *testing.T) {
	f := &fakeSearcher{}
	e := newTestServer(f)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	f.pingErr = errors.New("down")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
