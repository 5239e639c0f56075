package dataset

import (
	"context"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/nacebel/internal/nace"
)

// PostgresSource exports a query result with COPY ... TO STDOUT as CSV with a
// header row, so a table mirror of the code list parses like the upstream file.
type PostgresSource struct {
	pool  *pgxpool.Pool
	query string
}

// NewPostgresSource connects a pool to url. The pool is closed by Close.
func NewPostgresSource(ctx context.Context, url, query string) (*PostgresSource, error) {
	poolCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse dataset database url: %w", err)
	}
	poolCfg.MaxConns = 2
	poolCfg.MinConns = 0

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create dataset pool: %w", err)
	}
	return &PostgresSource{pool: pool, query: query}, nil
}

func (s *PostgresSource) Name() string { return "postgres" }

// Open streams the COPY output. The connection stays checked out until the
// copy finishes or the returned reader is closed.
func (s *PostgresSource) Open(ctx context.Context) (io.ReadCloser, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, &nace.UpstreamFetchError{Source: s.Name(), Err: fmt.Errorf("acquire connection: %w", err)}
	}

	stmt := copyStatement(s.query)
	return streamCopy(ctx, s.Name(), func(ctx context.Context, w io.Writer) error {
		_, err := conn.Conn().PgConn().CopyTo(ctx, w, stmt)
		return err
	}, conn.Release), nil
}

// copyReader is the read side of a running copy.
type copyReader struct {
	*io.PipeReader
	cancel context.CancelFunc
	done   <-chan struct{}
}

// Close stops the copy and waits for the connection to be released.
func (r *copyReader) Close() error {
	r.cancel()
	err := r.PipeReader.Close()
	<-r.done
	return err
}

// streamCopy runs the copy in a goroutine writing into a pipe. A copy failure
// surfaces from Read as an UpstreamFetchError. release runs once the copy
// returns.
func streamCopy(ctx context.Context, source string, run func(context.Context, io.Writer) error, release func()) io.ReadCloser {
	ctx, cancel := context.WithCancel(ctx)
	pr, pw := io.Pipe()
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer release()
		if err := run(ctx, pw); err != nil {
			pw.CloseWithError(&nace.UpstreamFetchError{Source: source, Err: fmt.Errorf("copy dataset query: %w", err)})
			return
		}
		pw.Close()
	}()

	return &copyReader{PipeReader: pr, cancel: cancel, done: done}
}

// Close closes the pool.
func (s *PostgresSource) Close() error {
	s.pool.Close()
	return nil
}

func copyStatement(query string) string {
	return "COPY (" + query + ") TO STDOUT WITH (FORMAT csv, HEADER true)"
}
