package exports

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/dropanalyzer/internal/client/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2025, 3, 7, 14, 5, 9, 0, time.UTC) }

func TestExtension(t *testing.T) {
	assert.Equal(t, ".csv", extension("csv"))
	assert.Equal(t, ".json", extension("JSON"))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv", contentType(&client.Blob{ContentType: "text/csv"}))
	assert.True(t, strings.HasPrefix(contentType(&client.Blob{Data: []byte("hello")}), "text/plain"))
}

func TestFileSink_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	s := NewFileSink(dir)
	s.now = fixedNow
	s.newID = func() string { return "1a2b3c4d" }

	loc, err := s.Write(context.Background(), "csv", &client.Blob{ContentType: "text/csv", Data: []byte("id\n1\n")})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "reports-20250307-140509-1a2b3c4d.csv"), loc)

	data, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, "id\n1\n", string(data))
}

func TestFileSink_SameSecondExportsKeepBothFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewFileSink(dir)
	s.now = fixedNow
	ctx := context.Background()

	first, err := s.Write(ctx, "csv", &client.Blob{Data: []byte("first\n")})
	require.NoError(t, err)
	second, err := s.Write(ctx, "csv", &client.Blob{Data: []byte("second\n")})
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(data))
	data, err = os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(data))

	files, err := filepath.Glob(filepath.Join(dir, "reports-20250307-140509-*.csv"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestFileSink_DefaultDir(t *testing.T) {
	assert.Equal(t, DefaultDir, NewFileSink("").Dir)
}

func TestFileSink_DirError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	_, err := NewFileSink(filepath.Join(blocker, "sub")).Write(context.Background(), "json", &client.Blob{Data: []byte("[]")})
	require.Error(t, err)
}

type fakePutter struct {
	mu    sync.Mutex
	in    *s3.PutObjectInput
	body  []byte
	err   error
	calls int
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.in = in
	if in.Body != nil {
		f.body, _ = io.ReadAll(in.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Sink_Write(t *testing.T) {
	fp := &fakePutter{}
	s := newS3Sink(fp, "drops")
	s.now = fixedNow
	s.newID = func() string { return "0000-1111" }

	loc, err := s.Write(context.Background(), "json", &client.Blob{ContentType: "application/json", Data: []byte(`[{"id":1}]`)})
	require.NoError(t, err)
	assert.Equal(t, "s3://drops/exports/2025/03/07/0000-1111.json", loc)

	require.Equal(t, 1, fp.calls)
	assert.Equal(t, "drops", aws.ToString(fp.in.Bucket))
	assert.Equal(t, "exports/2025/03/07/0000-1111.json", aws.ToString(fp.in.Key))
	assert.Equal(t, "application/json", aws.ToString(fp.in.ContentType))
	assert.Equal(t, int64(10), aws.ToInt64(fp.in.ContentLength))
	assert.Equal(t, `[{"id":1}]`, string(fp.body))
}

func TestS3Sink_WriteError(t *testing.T) {
	fp := &fakePutter{err: errors.New("access denied")}
	s := newS3Sink(fp, "drops")

	_, err := s.Write(context.Background(), "csv", &client.Blob{Data: []byte("x")})
	require.ErrorContains(t, err, "access denied")
	require.ErrorContains(t, err, "upload s3://drops/exports/")
}

func TestNewS3Sink_RequiresBucket(t *testing.T) {
	_, err := NewS3Sink(context.Background(), S3Config{})
	require.Error(t, err)
}

func TestNewS3Sink_UploadsToCustomEndpoint(t *testing.T) {
	var (
		mu     sync.Mutex
		method string
		path   string
		body   []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		method = r.Method
		path = r.URL.Path
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s, err := NewS3Sink(context.Background(), S3Config{
		Bucket:    "drops",
		Region:    "us-east-1",
		Endpoint:  srv.URL,
		AccessKey: "minio",
		SecretKey: "minio123",
	})
	require.NoError(t, err)
	s.now = fixedNow
	s.newID = func() string { return "abc" }

	loc, err := s.Write(context.Background(), "csv", &client.Blob{ContentType: "text/csv", Data: []byte("id\n1\n")})
	require.NoError(t, err)
	assert.Equal(t, "s3://drops/exports/2025/03/07/abc.csv", loc)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/drops/exports/2025/03/07/abc.csv", path, "path-style addressing expected")
	assert.Contains(t, string(body), "id\n1\n")
}
