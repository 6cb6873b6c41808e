package service

import (
	"context"
	"testing"

	"gexwatch/internal/apperr"
	"gexwatch/internal/models"
)

func TestNormalizeTicker(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"aapl", "AAPL"},
		{" aapl ", "AAPL"},
		{"b rk.b", "BRK.B"},
		{"\tspy\n", "SPY"},
		{"", ""},
		{"   ", ""},
	}
	for _, c := range cases {
		if got := NormalizeTicker(c.in); got != c.want {
			t.Errorf("NormalizeTicker(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestWatchlistAddNormalizes(t *testing.T) {
	repo := newStubRepo()
	svc := &WatchlistService{Repo: repo}

	entry, err := svc.Add(context.Background(), " aapl ")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if entry.Ticker != "AAPL" {
		t.Fatalf("stored ticker = %q, want AAPL", entry.Ticker)
	}
	if entry.ID == 0 {
		t.Fatal("expected assigned id")
	}
}

func TestWatchlistAddEmptyTicker(t *testing.T) {
	svc := &WatchlistService{Repo: newStubRepo()}

	_, err := svc.Add(context.Background(), "   ")
	if !apperr.Is(err, apperr.KindInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestWatchlistAddDuplicate(t *testing.T) {
	repo := newStubRepo()
	svc := &WatchlistService{Repo: repo}
	ctx := context.Background()

	if _, err := svc.Add(ctx, "SPY"); err != nil {
		t.Fatalf("first add: %v", err)
	}
	_, err := svc.Add(ctx, "spy")
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(repo.entries) != 1 {
		t.Fatalf("watchlist has %d rows, want 1", len(repo.entries))
	}
}

func TestWatchlistRemoveIdempotent(t *testing.T) {
	repo := newStubRepo()
	svc := &WatchlistService{Repo: repo}
	ctx := context.Background()

	if _, err := svc.Add(ctx, "TSLA"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Remove(ctx, "tsla"); err != nil {
		t.Fatalf("remove existing: %v", err)
	}
	if len(repo.entries) != 0 {
		t.Fatalf("watchlist has %d rows after remove, want 0", len(repo.entries))
	}
	if err := svc.Remove(ctx, "tsla"); err != nil {
		t.Fatalf("remove missing should succeed, got %v", err)
	}
}

func TestWatchlistListEmpty(t *testing.T) {
	svc := &WatchlistService{Repo: newStubRepo()}

	items, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if items == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(items) != 0 {
		t.Fatalf("len = %d, want 0", len(items))
	}
}

func TestWatchlistReorder(t *testing.T) {
	repo := newStubRepo()
	svc := &WatchlistService{Repo: repo}
	ctx := context.Background()

	for _, tk := range []string{"AAPL", "SPY", "TSLA"} {
		if _, err := svc.Add(ctx, tk); err != nil {
			t.Fatalf("add %s: %v", tk, err)
		}
	}

	// Move TSLA (id 3, index 2) to the front.
	items, err := svc.Reorder(ctx, 3, 0)
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	got := make([]string, 0, len(items))
	for _, it := range items {
		got = append(got, it.Ticker)
	}
	want := []string{"TSLA", "AAPL", "SPY"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}

	// Storage order must be untouched.
	stored, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if stored[0].Ticker != "AAPL" || stored[2].Ticker != "TSLA" {
		t.Fatalf("stored order changed: %v", stored)
	}
}

func TestWatchlistReorderClampsIndex(t *testing.T) {
	repo := newStubRepo()
	svc := &WatchlistService{Repo: repo}
	ctx := context.Background()

	for _, tk := range []string{"AAPL", "SPY"} {
		if _, err := svc.Add(ctx, tk); err != nil {
			t.Fatalf("add %s: %v", tk, err)
		}
	}

	items, err := svc.Reorder(ctx, 1, 99)
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if items[len(items)-1].Ticker != "AAPL" {
		t.Fatalf("expected AAPL clamped to tail, got %v", items)
	}

	items, err = svc.Reorder(ctx, 2, -5)
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if items[0].Ticker != "SPY" {
		t.Fatalf("expected SPY clamped to head, got %v", items)
	}
}

func TestWatchlistReorderUnknownID(t *testing.T) {
	repo := newStubRepo()
	repo.entries = []models.WatchlistEntry{{ID: 1, Ticker: "AAPL"}}
	svc := &WatchlistService{Repo: repo}

	_, err := svc.Reorder(context.Background(), 42, 0)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
