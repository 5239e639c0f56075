package dataset

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/nacebel/internal/config"
	"github.com/JonMunkholm/nacebel/internal/nace"
)

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/codes.csv":
			w.Header().Set("Content-Type", "text/csv")
			_, _ = io.WriteString(w, smallDoc)
		default:
			http.Error(w, "gone", http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	t.Run("ok", func(t *testing.T) {
		src := NewHTTPSource(srv.URL+"/codes.csv", srv.Client())
		rc, err := src.Open(context.Background())
		require.NoError(t, err)
		assert.Equal(t, smallDoc, readAll(t, rc))
	})

	t.Run("non-2xx status", func(t *testing.T) {
		src := NewHTTPSource(srv.URL+"/missing.csv", srv.Client())
		_, err := src.Open(context.Background())

		var upstream *nace.UpstreamFetchError
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, http.StatusServiceUnavailable, upstream.Status)
		assert.Equal(t, "SRC002", nace.MapError(err).Code)
	})

	t.Run("unreachable", func(t *testing.T) {
		src := NewHTTPSource("http://127.0.0.1:1/codes.csv", nil)
		_, err := src.Open(context.Background())

		var upstream *nace.UpstreamFetchError
		require.True(t, errors.As(err, &upstream))
		assert.Zero(t, upstream.Status)
	})
}

func TestHTTPSource_FeedsCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "\xEF\xBB\xBF"+largerDoc)
	}))
	defer srv.Close()

	cache := NewCache(NewHTTPSource(srv.URL, srv.Client()), Options{})
	snap, err := cache.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"01.111", "01.112"}, snap.Index.Children("01.11"))
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nacebel.csv")
	require.NoError(t, os.WriteFile(path, []byte(smallDoc), 0o644))

	rc, err := NewFileSource(path).Open(context.Background())
	require.NoError(t, err)
	assert.Equal(t, smallDoc, readAll(t, rc))

	_, err = NewFileSource(filepath.Join(dir, "absent.csv")).Open(context.Background())
	var upstream *nace.UpstreamFetchError
	require.True(t, errors.As(err, &upstream))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

type fakeS3 struct {
	body  string
	err   error
	input *s3.GetObjectInput
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestS3Source(t *testing.T) {
	client := &fakeS3{body: smallDoc}
	src := NewS3Source(client, "classifications", "nacebel/2025.csv")

	rc, err := src.Open(context.Background())
	require.NoError(t, err)
	assert.Equal(t, smallDoc, readAll(t, rc))
	assert.Equal(t, "classifications", *client.input.Bucket)
	assert.Equal(t, "nacebel/2025.csv", *client.input.Key)

	client.err = errors.New("NoSuchKey")
	_, err = src.Open(context.Background())
	var upstream *nace.UpstreamFetchError
	require.True(t, errors.As(err, &upstream))
	assert.Contains(t, err.Error(), "s3://classifications/nacebel/2025.csv")
}

func TestCopyStatement(t *testing.T) {
	got := copyStatement("SELECT level, code FROM nacebel_codes")
	assert.Equal(t, "COPY (SELECT level, code FROM nacebel_codes) TO STDOUT WITH (FORMAT csv, HEADER true)", got)
}

func TestStreamCopy_DeliversRowsWhileCopyRuns(t *testing.T) {
	proceed := make(chan struct{})
	var released atomic.Bool
	rc := streamCopy(context.Background(), "postgres", func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "level,code\n"); err != nil {
			return err
		}
		<-proceed
		_, err := io.WriteString(w, "2,01\n")
		return err
	}, func() { released.Store(true) })

	head := make([]byte, len("level,code\n"))
	_, err := io.ReadFull(rc, head)
	require.NoError(t, err)
	assert.Equal(t, "level,code\n", string(head))
	assert.False(t, released.Load(), "connection released before the copy finished")

	close(proceed)
	rest, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "2,01\n", string(rest))
	require.NoError(t, rc.Close())
	assert.True(t, released.Load())
}

func TestStreamCopy_CopyErrorSurfacesOnRead(t *testing.T) {
	rc := streamCopy(context.Background(), "postgres", func(ctx context.Context, w io.Writer) error {
		return errors.New("relation does not exist")
	}, func() {})
	defer rc.Close()

	_, err := io.ReadAll(rc)
	var upstream *nace.UpstreamFetchError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, "postgres", upstream.Source)
	assert.Contains(t, err.Error(), "relation does not exist")
}

func TestStreamCopy_CloseStopsCopy(t *testing.T) {
	var released atomic.Bool
	rc := streamCopy(context.Background(), "postgres", func(ctx context.Context, w io.Writer) error {
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := io.WriteString(w, "2,01\n"); err != nil {
				return err
			}
		}
	}, func() { released.Store(true) })

	buf := make([]byte, 4)
	_, err := io.ReadFull(rc, buf)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.True(t, released.Load())
}

func TestNewSourceFromConfig(t *testing.T) {
	ctx := context.Background()

	src, err := NewSourceFromConfig(ctx, config.DatasetConfig{Source: "HTTP", URL: "https://example.test/codes.csv"})
	require.NoError(t, err)
	assert.IsType(t, &HTTPSource{}, src)

	src, err = NewSourceFromConfig(ctx, config.DatasetConfig{Source: "file", File: "codes.csv"})
	require.NoError(t, err)
	assert.IsType(t, &FileSource{}, src)
	assert.NoError(t, Close(src))

	src, err = NewSourceFromConfig(ctx, config.DatasetConfig{
		Source: "s3", S3Bucket: "b", S3Key: "k", S3Region: "eu-west-1",
		S3AccessKey: "id", S3SecretKey: "secret", S3Endpoint: "http://127.0.0.1:9000",
	})
	require.NoError(t, err)
	assert.IsType(t, &S3Source{}, src)

	_, err = NewSourceFromConfig(ctx, config.DatasetConfig{Source: "ftp"})
	assert.ErrorIs(t, err, ErrUnknownSource)
}
