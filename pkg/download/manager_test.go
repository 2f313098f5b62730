package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packentu/gumarchive/pkg/errors"
	"github.com/packentu/gumarchive/pkg/fetch"
)

// resourceServer serves one remote resource with a controllable HEAD
// content-length and optional truncated GET responses.
type resourceServer struct {
	content           []byte
	contentType       string
	headContentLength string // "" omits the header
	truncateGETs      int    // number of initial GETs to cut off mid-body
	gets              int
	heads             int
}

func (s *resourceServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodHead:
		s.heads++
		if s.contentType != "" {
			w.Header().Set("Content-Type", s.contentType)
		}
		if s.headContentLength != "" {
			w.Header().Set("Content-Length", s.headContentLength)
		}
	case http.MethodGet:
		s.gets++
		if s.contentType != "" {
			w.Header().Set("Content-Type", s.contentType)
		}
		if s.gets <= s.truncateGETs {
			// Declare the full length but send only part of it, so the
			// client sees the body cut off mid-transfer.
			w.Header().Set("Content-Length", strconv.Itoa(len(s.content)))
			_, _ = w.Write(s.content[:len(s.content)/2])
			return
		}
		_, _ = w.Write(s.content)
	}
}

func newEngine(t *testing.T, handler http.Handler) (*ManagerImpl, *fetch.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := fetch.NewClient("session", "guid", "test-agent/1.0", time.Second)
	require.NoError(t, err)

	return NewManager(client), client, server
}

func body(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('a' + i%26)
	}
	return b
}

func writeLocal(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, body(size), 0o644))
	return path
}

func TestEnsureDownloaded_Idempotence(t *testing.T) {
	content := body(200)
	srv := &resourceServer{content: content}
	engine, client, server := newEngine(t, srv)
	dir := t.TempDir()

	res := Resource{URL: server.URL, Dir: dir, Name: "pack", Ext: "zip", Size: 200}

	first, err := engine.EnsureDownloaded(context.Background(), res)
	require.NoError(t, err)
	assert.Equal(t, StatusDownloaded, first.Status)
	assert.Equal(t, int64(200), first.BytesWritten)
	assert.Equal(t, filepath.Join(dir, "pack.zip"), first.Path)

	second, err := engine.EnsureDownloaded(context.Background(), res)
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, second.Status)
	assert.Equal(t, SkipUnchanged, second.Reason)

	counters := client.Counters()
	assert.Equal(t, 1, counters.FilesDownloaded)
	assert.Equal(t, 1, counters.FilesSkipped)
	assert.Equal(t, int64(200), counters.BytesRead)
	assert.Equal(t, int64(200), counters.BytesSkipped)

	// The skip decision never touched the file again.
	assert.Equal(t, 1, srv.gets)
}

func TestEnsureDownloaded_SizeDriftFailFast(t *testing.T) {
	srv := &resourceServer{content: body(200)}
	engine, _, server := newEngine(t, srv)
	dir := t.TempDir()

	localPath := writeLocal(t, dir, "pack.zip", 100)

	_, err := engine.EnsureDownloaded(context.Background(), Resource{
		URL: server.URL, Dir: dir, Name: "pack", Ext: "zip", Size: 200,
	})

	var mismatch *errors.SizeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, int64(100), mismatch.Existing)
	assert.Equal(t, int64(200), mismatch.Remote)
	assert.Equal(t, int64(200), mismatch.Written)

	// Original left untouched, drifted remote preserved alongside.
	original, readErr := os.ReadFile(localPath)
	require.NoError(t, readErr)
	assert.Len(t, original, 100)

	errorFile, readErr := os.ReadFile(filepath.Join(dir, "error-pack.zip"))
	require.NoError(t, readErr)
	assert.Len(t, errorFile, 200)
	assert.Equal(t, filepath.Join(dir, "error-pack.zip"), mismatch.ErrorFile)
}

func TestEnsureDownloaded_CoverSizePolicy(t *testing.T) {
	t.Run("remote not smaller keeps local", func(t *testing.T) {
		srv := &resourceServer{content: body(200)}
		engine, client, server := newEngine(t, srv)
		dir := t.TempDir()
		writeLocal(t, dir, "cov1.png", 150)

		outcome, err := engine.EnsureDownloaded(context.Background(), Resource{
			URL: server.URL, Dir: dir, Name: "cov1", Ext: "png", Size: 200, IsCover: true,
		})
		require.NoError(t, err)
		assert.Equal(t, StatusSkipped, outcome.Status)
		assert.Equal(t, SkipKeepingLarger, outcome.Reason)
		assert.Equal(t, 1, client.Counters().FilesSkipped)

		info, statErr := os.Stat(filepath.Join(dir, "cov1.png"))
		require.NoError(t, statErr)
		assert.Equal(t, int64(150), info.Size())
		assert.Zero(t, srv.gets)
	})

	t.Run("smaller remote overwrites local", func(t *testing.T) {
		srv := &resourceServer{content: body(150)}
		engine, _, server := newEngine(t, srv)
		dir := t.TempDir()
		writeLocal(t, dir, "cov1.png", 200)

		outcome, err := engine.EnsureDownloaded(context.Background(), Resource{
			URL: server.URL, Dir: dir, Name: "cov1", Ext: "png", Size: 150, IsCover: true,
		})
		require.NoError(t, err)
		assert.Equal(t, StatusReplaced, outcome.Status)
		assert.Equal(t, int64(200), outcome.OldSize)
		assert.Equal(t, int64(150), outcome.BytesWritten)

		info, statErr := os.Stat(filepath.Join(dir, "cov1.png"))
		require.NoError(t, statErr)
		assert.Equal(t, int64(150), info.Size())
	})
}

func TestEnsureDownloaded_EmptyFileRecovery(t *testing.T) {
	tests := []struct {
		name    string
		isCover bool
	}{
		{name: "content file"},
		{name: "cover file", isCover: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := &resourceServer{content: body(80)}
			engine, _, server := newEngine(t, srv)
			dir := t.TempDir()
			writeLocal(t, dir, "thing.bin", 0)

			outcome, err := engine.EnsureDownloaded(context.Background(), Resource{
				URL: server.URL, Dir: dir, Name: "thing", Ext: "bin", Size: 80, IsCover: tt.isCover,
			})
			require.NoError(t, err)
			assert.Equal(t, StatusReplaced, outcome.Status)
			assert.Equal(t, int64(80), outcome.BytesWritten)

			info, statErr := os.Stat(filepath.Join(dir, "thing.bin"))
			require.NoError(t, statErr)
			assert.Equal(t, int64(80), info.Size())
		})
	}
}

func TestEnsureDownloaded_UnknownSizeOverwrites(t *testing.T) {
	// No expected size, and the HEAD response carries no usable
	// content-length: no comparison is possible.
	srv := &resourceServer{content: body(90)}
	engine, _, server := newEngine(t, srv)
	dir := t.TempDir()
	writeLocal(t, dir, "mystery.bin", 45)

	outcome, err := engine.EnsureDownloaded(context.Background(), Resource{
		URL: server.URL, Dir: dir, Name: "mystery", Ext: "bin",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusReplaced, outcome.Status)
	assert.Equal(t, int64(45), outcome.OldSize)

	info, statErr := os.Stat(filepath.Join(dir, "mystery.bin"))
	require.NoError(t, statErr)
	assert.Equal(t, int64(90), info.Size())
}

func TestEnsureDownloaded_ExtensionDerivation(t *testing.T) {
	tests := []struct {
		name        string
		ext         string
		contentType string
		headSize    string
		wantFile    string
	}{
		{
			name:        "derived from content type",
			contentType: "image/png",
			wantFile:    "thumbnail.png",
		},
		{
			name:        "explicit extension wins over content type",
			ext:         "dat",
			contentType: "image/png",
			wantFile:    "thumbnail.dat",
		},
		{
			name:        "generic content type yields no extension",
			contentType: "application/octet-stream",
			wantFile:    "thumbnail",
		},
		{
			name:     "no content type yields no extension",
			wantFile: "thumbnail",
		},
		{
			name:        "content type parameters are ignored",
			contentType: "text/html; charset=utf-8",
			wantFile:    "thumbnail.html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := &resourceServer{content: body(64), contentType: tt.contentType}
			engine, _, server := newEngine(t, srv)
			dir := t.TempDir()

			outcome, err := engine.EnsureDownloaded(context.Background(), Resource{
				URL: server.URL, Dir: dir, Name: "thumbnail", Ext: tt.ext, Size: 64,
			})
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, tt.wantFile), outcome.Path)
			assert.FileExists(t, filepath.Join(dir, tt.wantFile))
		})
	}
}

func TestEnsureDownloaded_CoverRetriesTransientOnce(t *testing.T) {
	content := body(120)
	srv := &resourceServer{content: content, truncateGETs: 1}
	engine, _, server := newEngine(t, srv)
	dir := t.TempDir()

	outcome, err := engine.EnsureDownloaded(context.Background(), Resource{
		URL: server.URL, Dir: dir, Name: "cov", Ext: "png", Size: 120, IsCover: true,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusDownloaded, outcome.Status)
	assert.Equal(t, int64(120), outcome.BytesWritten)
	assert.Equal(t, 2, srv.gets)

	onDisk, readErr := os.ReadFile(filepath.Join(dir, "cov.png"))
	require.NoError(t, readErr)
	assert.Equal(t, content, onDisk)
}

func TestEnsureDownloaded_CoverSecondTransientFails(t *testing.T) {
	srv := &resourceServer{content: body(120), truncateGETs: 2}
	engine, _, server := newEngine(t, srv)

	_, err := engine.EnsureDownloaded(context.Background(), Resource{
		URL: server.URL, Dir: t.TempDir(), Name: "cov", Ext: "png", Size: 120, IsCover: true,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrTransient)
	assert.Equal(t, 2, srv.gets)
}

func TestEnsureDownloaded_NonCoverTransientNotRetried(t *testing.T) {
	srv := &resourceServer{content: body(120), truncateGETs: 1}
	engine, _, server := newEngine(t, srv)

	_, err := engine.EnsureDownloaded(context.Background(), Resource{
		URL: server.URL, Dir: t.TempDir(), Name: "pack", Ext: "zip", Size: 120,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrTransient)
	assert.Equal(t, 1, srv.gets)
}

func TestEnsureDownloaded_ShortWriteIsPostHocAnomalyOnly(t *testing.T) {
	// The expected size disagrees with what actually lands on disk. The
	// file is already overwritten, so the call logs but does not fail.
	srv := &resourceServer{content: body(20)}
	engine, _, server := newEngine(t, srv)
	dir := t.TempDir()

	outcome, err := engine.EnsureDownloaded(context.Background(), Resource{
		URL: server.URL, Dir: dir, Name: "pack", Ext: "zip", Size: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusDownloaded, outcome.Status)
	assert.Equal(t, int64(20), outcome.BytesWritten)
}

func TestEnsureDownloaded_HeadFailurePropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	server.Close() // refuse connections

	client, err := fetch.NewClient("session", "guid", "ua", time.Second)
	require.NoError(t, err)
	engine := NewManager(client)

	_, err = engine.EnsureDownloaded(context.Background(), Resource{
		URL: server.URL, Dir: t.TempDir(), Name: "pack", Ext: "zip", Size: 10,
	})
	assert.Error(t, err)
}
