package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/davideustache-creator/BigBrother/storage"
)

type searcher interface {
	Search(ctx context.Context, query string, limit int) (int64, []storage.SearchHit, error)
	Ping(ctx context.Context) error
}

// register wires up all routes on the provided echo instance.
func register(e *echo.Echo, index searcher, limit int) {
	e.GET("/", getStatus)
	e.GET("/api/search", searchEvents(index, limit))
	e.GET("/healthz", healthz(index))
}

type statusResponse struct {
	Project string `json:"project"`
	Status  string `json:"status"`
}

func getStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, statusResponse{Project: "BigBrother", Status: "online"})
}

type searchResult struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Author     string `json:"author"`
	Source     string `json:"source"`
	ContentURL string `json:"content_url"`
	EventTime  string `json:"event_time"`
}

type searchResponse struct {
	TotalResults int64          `json:"total_results"`
	Results      []searchResult `json:"results"`
}

func searchEvents(index searcher, limit int) echo.HandlerFunc {
	return func(c echo.Context) error {
		q := c.QueryParam("q")
		if q == "" {
			return c.String(http.StatusBadRequest, "missing query parameter 'q'")
		}
		total, hits, err := index.Search(c.Request().Context(), q, limit)
		if err != nil {
			// Internal detail stays in the logs, not the response.
			c.Logger().Error(err)
			return c.String(http.StatusInternalServerError, "search failed")
		}
		results := make([]searchResult, 0, len(hits))
		for _, h := range hits {
			results = append(results, searchResult{
				Title:      h.Title,
				Content:    h.Content,
				Author:     h.Author,
				Source:     h.Source,
				ContentURL: h.ContentURL,
				EventTime:  h.EventTime.UTC().Format(time.RFC3339),
			})
		}
		return c.JSON(http.StatusOK, searchResponse{TotalResults: total, Results: results})
	}
}

func healthz(index searcher) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := index.Ping(c.Request().Context()); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	}
}
