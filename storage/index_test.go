package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/davideustache-creator/BigBrother/domain"
)

func testIndex(t *testing.T) (*Index, *miniredis.Miniredis) {
	t.Helper()
	m, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(m.Close)
	rc := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { rc.Close() })
	return NewIndex(rc), m
}

func testEvent() domain.Event {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return domain.Event{
		Source:     domain.SourceGitHub,
		ID:         "1",
		Type:       "PushEvent",
		Author:     "alice",
		Repo:       "x/y",
		Time:       ts,
		Date:       "2024-01-01",
		Title:      "PushEvent by alice on x/y",
		ContentURL: "https://github.com/x/y",
	}
}

func TestUpsertEventWritesDocument(t *testing.T) {
	ix, m := testIndex(t)
	ev := testEvent()

	if err := ix.UpsertEvent(context.Background(), ev); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if got := m.HGet("event:github:1", "title"); got != "PushEvent by alice on x/y" {
		t.Fatalf("unexpected title: %q", got)
	}
	if got := m.HGet("event:github:1", "author"); got != "alice" {
		t.Fatalf("unexpected author: %q", got)
	}
	if got := m.HGet("event:github:1", "source"); got != "github" {
		t.Fatalf("unexpected source: %q", got)
	}
	if got := m.HGet("event:github:1", "event_time"); got != "1704067200" {
		t.Fatalf("unexpected event_time: %q", got)
	}
}

func TestUpsertEventIsIdempotent(t *testing.T) {
	ix, m := testIndex(t)
	ctx := context.Background()
	ev := testEvent()

	if err := ix.UpsertEvent(ctx, ev); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	ev.Title = "PushEvent by alice on x/z"
	ev.Repo = "x/z"
	if err := ix.UpsertEvent(ctx, ev); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	keys := m.Keys()
	if len(keys) != 1 || keys[0] != "event:github:1" {
		t.Fatalf("expected exactly one document, got %v", keys)
	}
	if got := m.HGet("event:github:1", "title"); got != "PushEvent by alice on x/z" {
		t.Fatalf("expected latest write to win, got title %q", got)
	}
}

func TestIsUnknownIndex(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("Unknown index name"), true},
		{errors.New("no such index"), true},
		{errors.New("Index already exists"), false},
		{errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		if got := isUnknownIndex(tc.err); got != tc.want {
			t.Fatalf("isUnknownIndex(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
