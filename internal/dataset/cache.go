package dataset

// cache.go keeps one parsed and indexed copy of the dataset in memory.
//
// Lifecycle:
//  1. The first caller triggers a load; concurrent callers join the same
//     in-flight load through a singleflight group.
//  2. A successful load is published as an immutable Snapshot. Readers never
//     see a partially built index.
//  3. Once a snapshot is older than MaxAge, readers keep getting it while a
//     single background refresh replaces it.
//  4. A failed load publishes nothing. With no previous snapshot the error
//     goes back to the caller and the next access retries. With a previous
//     snapshot the old data keeps being served.
//
// Every load gets a generation number. A load whose generation is older than
// the published snapshot, or older than the last Invalidate, is discarded.

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/JonMunkholm/nacebel/internal/nace"
)

const loadKey = "dataset"

// State is the coarse cache status reported by Status.
type State string

const (
	StateEmpty   State = "empty"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// Snapshot is one immutable, fully indexed load of the dataset.
// It is shared between all readers and must not be modified.
type Snapshot struct {
	Records    []nace.Record
	Index      *nace.Index
	Generation uint64
	LoadID     uuid.UUID
	Source     string
	LoadedAt   time.Time
	Rows       int
	Skipped    int
	Bytes      int64
}

// Options tunes a Cache. Zero values get defaults.
type Options struct {
	// MaxAge is how long a snapshot is served before a background refresh (default: 1h)
	MaxAge time.Duration

	// LoadTimeout bounds one fetch and parse (default: 30s)
	LoadTimeout time.Duration

	// MaxBytes caps the document size; 0 means no limit
	MaxBytes int64

	// RetryBackoff is the minimum gap between background refresh attempts
	// after one failed (default: 1m)
	RetryBackoff time.Duration

	Logger *slog.Logger
	Now    func() time.Time
}

func (o Options) withDefaults() Options {
	if o.MaxAge <= 0 {
		o.MaxAge = time.Hour
	}
	if o.LoadTimeout <= 0 {
		o.LoadTimeout = 30 * time.Second
	}
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = time.Minute
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Cache owns the dataset lifecycle for one Source.
type Cache struct {
	source Source
	opts   Options

	group      singleflight.Group
	snapshot   atomic.Pointer[Snapshot]
	generation atomic.Uint64
	minGen     atomic.Uint64 // loads below this generation are discarded
	inflight   atomic.Int32
	refreshing atomic.Bool
	background sync.WaitGroup

	mu        sync.Mutex
	lastErr   error
	lastErrAt time.Time
}

// NewCache creates an empty cache. Nothing is fetched until first use.
func NewCache(src Source, opts Options) *Cache {
	return &Cache{source: src, opts: opts.withDefaults()}
}

// Current returns the published snapshot without loading, or nil.
func (c *Cache) Current() *Snapshot {
	return c.snapshot.Load()
}

// SourceName returns the name of the underlying source.
func (c *Cache) SourceName() string {
	return c.source.Name()
}

// Snapshot returns the current dataset, loading it first if nothing has been
// published yet. A stale snapshot is returned immediately and refreshed in
// the background.
func (c *Cache) Snapshot(ctx context.Context) (*Snapshot, error) {
	if snap := c.snapshot.Load(); snap != nil {
		if c.isStale(snap) {
			c.refreshAsync()
		}
		return snap, nil
	}
	return c.loadShared(ctx)
}

// Refresh loads the dataset now and waits for the result. It joins a load
// that is already running instead of starting a second one.
func (c *Cache) Refresh(ctx context.Context) (*Snapshot, error) {
	return c.loadShared(ctx)
}

// Invalidate drops the published snapshot. Loads already running when
// Invalidate is called are not published; the next access starts a new load.
func (c *Cache) Invalidate() {
	c.minGen.Store(c.generation.Load() + 1)
	c.snapshot.Store(nil)
	c.group.Forget(loadKey)
}

// Wait blocks until background refreshes started so far have finished.
func (c *Cache) Wait() {
	c.background.Wait()
}

func (c *Cache) isStale(snap *Snapshot) bool {
	return c.opts.Now().Sub(snap.LoadedAt) >= c.opts.MaxAge
}

// loadShared runs or joins the single in-flight load. The caller may stop
// waiting when ctx ends; the load itself carries on under its own timeout.
func (c *Cache) loadShared(ctx context.Context) (*Snapshot, error) {
	ch := c.group.DoChan(loadKey, func() (any, error) {
		return c.load()
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) refreshAsync() {
	if c.inBackoff() {
		return
	}
	if !c.refreshing.CompareAndSwap(false, true) {
		return
	}
	c.background.Add(1)
	go func() {
		defer c.background.Done()
		defer c.refreshing.Store(false)

		if _, err := c.loadShared(context.Background()); err != nil {
			c.opts.Logger.Warn("background refresh failed, serving previous dataset",
				"source", c.source.Name(),
				"error", err,
			)
		}
	}()
}

// load fetches, parses and indexes one generation, then publishes it.
func (c *Cache) load() (*Snapshot, error) {
	gen := c.generation.Add(1)
	c.inflight.Add(1)
	defer c.inflight.Add(-1)

	logger := c.opts.Logger.With("source", c.source.Name(), "generation", gen)
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), c.opts.LoadTimeout)
	defer cancel()

	snap, err := c.fetch(ctx, gen, logger)
	if err != nil {
		c.recordFailure(err)
		logger.Error("dataset load failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	published, stored := c.publish(snap)
	if !stored {
		if published != snap {
			logger.Info("dataset load superseded", "published_generation", published.Generation)
		} else {
			logger.Info("dataset load discarded after invalidate")
		}
		return published, nil
	}

	logger.Info("dataset loaded",
		"load_id", snap.LoadID,
		"records", len(snap.Records),
		"skipped", snap.Skipped,
		"bytes", snap.Bytes,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return snap, nil
}

func (c *Cache) fetch(ctx context.Context, gen uint64, logger *slog.Logger) (*Snapshot, error) {
	rc, err := c.source.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	counter := nace.NewCountingReader(rc, c.opts.MaxBytes)
	result, err := nace.Parse(counter)
	if err != nil {
		return nil, fmt.Errorf("parse dataset from %s: %w", c.source.Name(), err)
	}

	for _, re := range result.RowErrors {
		logger.Debug("dataset row rejected", "line", re.Line, "error", re.Err)
	}
	if len(result.Records) == 0 {
		logger.Warn("dataset contains no usable records", "rows", result.Rows)
	}

	records := result.Records
	if records == nil {
		records = []nace.Record{}
	}

	return &Snapshot{
		Records:    records,
		Index:      nace.BuildIndex(records),
		Generation: gen,
		LoadID:     uuid.New(),
		Source:     c.source.Name(),
		LoadedAt:   c.opts.Now(),
		Rows:       result.Rows,
		Skipped:    result.Skipped,
		Bytes:      counter.BytesRead,
	}, nil
}

// publish stores snap unless a newer generation is already published, in
// which case the newer snapshot is returned. A snapshot from before the last
// Invalidate is never stored but is still handed to its own waiters.
func (c *Cache) publish(snap *Snapshot) (*Snapshot, bool) {
	if snap.Generation < c.minGen.Load() {
		return snap, false
	}
	for {
		cur := c.snapshot.Load()
		if cur != nil && cur.Generation > snap.Generation {
			return cur, false
		}
		if c.snapshot.CompareAndSwap(cur, snap) {
			c.mu.Lock()
			c.lastErr = nil
			c.mu.Unlock()
			return snap, true
		}
	}
}

func (c *Cache) inBackoff() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr != nil && c.opts.Now().Sub(c.lastErrAt) < c.opts.RetryBackoff
}

func (c *Cache) recordFailure(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
	c.lastErrAt = c.opts.Now()
}

// Status describes the cache for health checks.
type Status struct {
	State       State      `json:"state"`
	Source      string     `json:"source"`
	Generation  uint64     `json:"generation"`
	LoadID      string     `json:"load_id,omitempty"`
	Records     int        `json:"records"`
	Skipped     int        `json:"skipped"`
	LoadedAt    *time.Time `json:"loaded_at,omitempty"`
	Stale       bool       `json:"stale"`
	LastError   string     `json:"last_error,omitempty"`
	LastErrorAt *time.Time `json:"last_error_at,omitempty"`
}

// Status reports the cache state without triggering a load.
func (c *Cache) Status() Status {
	st := Status{Source: c.source.Name(), State: StateEmpty}

	snap := c.snapshot.Load()
	if snap != nil {
		loadedAt := snap.LoadedAt
		st.State = StateReady
		st.Generation = snap.Generation
		st.LoadID = snap.LoadID.String()
		st.Records = len(snap.Records)
		st.Skipped = snap.Skipped
		st.LoadedAt = &loadedAt
		st.Stale = c.isStale(snap)
	}

	c.mu.Lock()
	if c.lastErr != nil {
		errAt := c.lastErrAt
		st.LastError = c.lastErr.Error()
		st.LastErrorAt = &errAt
		if snap == nil {
			st.State = StateFailed
		}
	}
	c.mu.Unlock()

	if snap == nil && c.inflight.Load() > 0 {
		st.State = StateLoading
	}
	return st
}
