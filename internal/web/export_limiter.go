package web

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"
)

// errExportBusy is returned when no download slot frees up in time.
var errExportBusy = errors.New("too many concurrent exports")

// exportLimiter bounds concurrent CSV downloads with a semaphore. An export
// renders the whole ranked dataset, so unbounded parallel downloads would
// hold one full copy of the output per client.
type exportLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

func newExportLimiter(maxConcurrent int, maxWait time.Duration) *exportLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &exportLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// acquire waits up to maxWait for a slot. Callers must release on success.
func (l *exportLimiter) acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errExportBusy
	}
}

func (l *exportLimiter) release() {
	l.active.Add(-1)
	<-l.slots
}

// waitForDrain blocks until in-flight exports finish or ctx is done.
func (l *exportLimiter) waitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for l.active.Load() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// middleware answers 503 with Retry-After when every slot stays taken.
func (l *exportLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := l.acquire(r.Context()); err != nil {
			if errors.Is(err, errExportBusy) {
				w.Header().Set("Retry-After", "5")
				writeJSONStatus(w, http.StatusServiceUnavailable, errorBody{Error: "Service Unavailable"})
			}
			return
		}
		defer l.release()
		next.ServeHTTP(w, r)
	})
}
