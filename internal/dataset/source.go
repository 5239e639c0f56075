// Package dataset fetches the classification export from a configurable
// source and keeps a parsed, indexed copy in memory.
//
// A Source only knows how to open the raw document. The Cache owns parsing,
// indexing, load coalescing and refresh.
package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/JonMunkholm/nacebel/internal/nace"
)

// Source opens the raw delimited export.
type Source interface {
	// Name identifies the source in logs and health output.
	Name() string

	// Open returns a reader over the whole document. The caller closes it.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Close releases resources held by src, if it holds any.
func Close(src Source) error {
	if c, ok := src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// HTTPSource downloads the export with a GET request.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// NewHTTPSource creates an HTTPSource. A nil client gets a 30s timeout client.
func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPSource{URL: url, Client: client}
}

func (s *HTTPSource) Name() string { return "http" }

func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build dataset request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, &nace.UpstreamFetchError{Source: s.Name(), Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4<<10)
		resp.Body.Close()
		return nil, &nace.UpstreamFetchError{Source: s.Name(), Status: resp.StatusCode}
	}
	return resp.Body, nil
}

// FileSource reads the export from local disk.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, &nace.UpstreamFetchError{Source: s.Name(), Err: err}
	}
	return f, nil
}

// StaticSource serves a document held in memory. Tests use it in place of a
// network fetch, and the CLI uses it for piped input.
type StaticSource struct {
	mu       sync.Mutex
	document []byte
	err      error
	opens    atomic.Int64
}

// NewStaticSource creates a StaticSource over doc.
func NewStaticSource(doc string) *StaticSource {
	return &StaticSource{document: []byte(doc)}
}

// SetDocument replaces the document served by later opens.
func (s *StaticSource) SetDocument(doc string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.document = []byte(doc)
}

// SetErr makes later opens fail with err. A nil err restores the document.
func (s *StaticSource) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) Open(ctx context.Context) (io.ReadCloser, error) {
	s.opens.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return io.NopCloser(bytes.NewReader(s.document)), nil
}

// Opens reports how many times Open was called.
func (s *StaticSource) Opens() int64 { return s.opens.Load() }

// ErrUnknownSource is returned by the factory for an unsupported DATASET_SOURCE.
var ErrUnknownSource = errors.New("unknown dataset source")

// sourceKind normalises a configured source name.
func sourceKind(kind string) string {
	return strings.ToLower(strings.TrimSpace(kind))
}
