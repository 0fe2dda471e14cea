package archive

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/newthinker/fxscout/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3Storage_ImplementsStorage(t *testing.T) {
	var _ Storage = (*S3Storage)(nil)
}

func TestS3Storage_Key(t *testing.T) {
	tests := []struct {
		prefix string
		key    string
		want   string
	}{
		{"", "file.csv", "file.csv"},
		{"exports", "file.csv", "exports/file.csv"},
		{"exports/", "enriched/2024/01/x.csv", "exports/enriched/2024/01/x.csv"},
		{"/exports/", "/file.csv", "exports/file.csv"},
	}

	for _, tt := range tests {
		s, err := NewS3(S3Config{Bucket: "b", Region: "us-east-1", Prefix: tt.prefix})
		require.NoError(t, err)
		got, err := s.key(tt.key)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "prefix %q key %q", tt.prefix, tt.key)
	}
}

func TestS3Storage_URI(t *testing.T) {
	s, err := NewS3(S3Config{Bucket: "exports", Region: "us-east-1", Prefix: "fx"})
	require.NoError(t, err)
	assert.Equal(t, "s3://exports/fx/a.csv", s.URI("a.csv"))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv", contentType("a/b.csv"))
	assert.Equal(t, "application/json", contentType("a.json"))
	assert.Equal(t, "application/octet-stream", contentType("a.bin"))
}

// fakeS3 is a minimal path-style object server.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = body
		f.types[r.URL.Path] = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	case http.MethodHead:
		if _, ok := f.objects[r.URL.Path]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		body, ok := f.objects[r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
			return
		}
		w.Write(body)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestS3Storage_RoundTrip(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	s, err := NewS3(S3Config{
		Bucket:    "exports",
		Endpoint:  srv.URL,
		Region:    "us-east-1",
		AccessKey: "test",
		SecretKey: "test",
		Prefix:    "fx",
	})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "enriched/a.csv", []byte("ticker\nAAPL\n")))
	assert.Equal(t, "text/csv", fake.types["/exports/fx/enriched/a.csv"])

	ok, err := s.Exists(ctx, "enriched/a.csv")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(ctx, "enriched/b.csv")
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := s.Read(ctx, "enriched/a.csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(got), "ticker"))

	_, err = s.Read(ctx, "enriched/b.csv")
	assert.ErrorIs(t, err, core.ErrNoData)
}
