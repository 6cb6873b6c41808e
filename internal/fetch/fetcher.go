// Package fetch invokes the external per-ticker data-fetch process.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"gexwatch/internal/apperr"
)

// Result carries the captured streams of one process run.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Fetcher is the capability interface for triggering a per-ticker fetch,
// so handlers and jobs can be tested without spawning real processes.
type Fetcher interface {
	Run(ctx context.Context, ticker string) (Result, error)
}

// Compile-time interface check.
var _ Fetcher = (*ScriptFetcher)(nil)

// ScriptFetcher runs the configured fetch executable with the ticker as its
// sole argument. The call blocks until the process exits or the timeout
// fires; stdout and stderr are captured separately.
type ScriptFetcher struct {
	ScriptPath string
	Timeout    time.Duration
}

func (f *ScriptFetcher) Run(ctx context.Context, ticker string) (Result, error) {
	if f == nil || f.ScriptPath == "" {
		return Result{}, apperr.New(apperr.KindFetchFailed, "fetch script not configured")
	}

	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.ScriptPath, ticker)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		res.ExitCode = -1
		return res, apperr.Wrap(apperr.KindFetchFailed, "fetch process timed out", err)
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		return res, apperr.Wrap(apperr.KindFetchFailed, "fetch process failed", err)
	default:
		res.ExitCode = -1
		return res, apperr.Wrap(apperr.KindFetchFailed, "fetch process could not start", err)
	}
}
