package service

import (
	"context"
	"testing"
	"time"

	"gexwatch/internal/apperr"
	"gexwatch/internal/fetch"
)

type fakeFetcher struct {
	res        fetch.Result
	err        error
	lastTicker string
}

func (f *fakeFetcher) Run(ctx context.Context, ticker string) (fetch.Result, error) {
	f.lastTicker = ticker
	return f.res, f.err
}

func TestTriggerSuccess(t *testing.T) {
	repo := newStubRepo()
	ff := &fakeFetcher{res: fetch.Result{Stdout: "Data saved for AAPL\n", Duration: 120 * time.Millisecond}}
	svc := &FetchTriggerService{Fetcher: ff, Repo: repo}

	res, err := svc.Trigger(context.Background(), " aapl ")
	if err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if ff.lastTicker != "AAPL" {
		t.Fatalf("fetcher got %q, want AAPL", ff.lastTicker)
	}
	if res.Stdout != "Data saved for AAPL\n" {
		t.Fatalf("stdout = %q", res.Stdout)
	}
	if len(repo.fetchRuns) != 1 {
		t.Fatalf("recorded %d runs, want 1", len(repo.fetchRuns))
	}
	if repo.fetchRuns[0].Status != "ok" {
		t.Fatalf("run status = %q, want ok", repo.fetchRuns[0].Status)
	}
}

func TestTriggerFailureSurfacesStderr(t *testing.T) {
	repo := newStubRepo()
	wantErr := apperr.FetchFailed("fetch process exited with code 1", nil)
	ff := &fakeFetcher{
		res: fetch.Result{Stderr: "ticker XYZ not in watchlist\n", ExitCode: 1},
		err: wantErr,
	}
	svc := &FetchTriggerService{Fetcher: ff, Repo: repo}

	res, err := svc.Trigger(context.Background(), "xyz")
	if !apperr.Is(err, apperr.KindFetchFailed) {
		t.Fatalf("expected fetch failure, got %v", err)
	}
	if res.Stderr == "" {
		t.Fatal("expected captured stderr on failure")
	}
	if len(repo.fetchRuns) != 1 || repo.fetchRuns[0].Status != "failed" {
		t.Fatalf("runs = %+v", repo.fetchRuns)
	}
}

func TestTriggerEmptyTicker(t *testing.T) {
	svc := &FetchTriggerService{Fetcher: &fakeFetcher{}, Repo: newStubRepo()}

	_, err := svc.Trigger(context.Background(), "  ")
	if !apperr.Is(err, apperr.KindInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
