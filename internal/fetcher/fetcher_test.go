package fetcher

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/app-starter/internal/archive"
	"github.com/oshokin/app-starter/internal/archive/archivetest"
)

// progressRecorder collects progress callbacks.
type progressRecorder struct {
	mu     sync.Mutex
	loaded []int64
	totals []int64
}

func (p *progressRecorder) record(loaded, total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.loaded = append(p.loaded, loaded)
	p.totals = append(p.totals, total)
}

func serveArchive(t *testing.T, data []byte, withLength bool) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if withLength {
			w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		}

		// Several writes with flushes produce several chunks on the client side.
		flusher, _ := w.(http.Flusher)
		half := len(data) / 2
		_, _ = w.Write(data[:half])

		if flusher != nil {
			flusher.Flush()
		}

		_, _ = w.Write(data[half:])
	}))
	t.Cleanup(server.Close)

	return server
}

// TestFetchAndExtract downloads an archive and strips its wrapper folder.
func TestFetchAndExtract(t *testing.T) {
	t.Parallel()

	data := archivetest.TarGz(t,
		archivetest.Entry{Name: "foo/"},
		archivetest.Entry{Name: "foo/a.txt", Body: "a"},
		archivetest.Entry{Name: "foo/b/c.txt", Body: "c"},
	)
	server := serveArchive(t, data, true)

	recorder := new(progressRecorder)
	dest := t.TempDir()

	err := New(WithProgress(recorder.record)).FetchAndExtract(context.Background(), server.URL+"/blank.tar.gz", dest)
	require.NoError(t, err)

	contents, err := os.ReadFile(filepath.Join(dest, "b", "c.txt"))
	require.NoError(t, err)
	require.Equal(t, "c", string(contents))

	_, err = os.Stat(filepath.Join(dest, "a.txt"))
	require.NoError(t, err)

	// Progress is monotonic, ends at the full size and carries the declared total.
	require.NotEmpty(t, recorder.loaded)
	require.Equal(t, int64(len(data)), recorder.loaded[len(recorder.loaded)-1])

	for i := range recorder.loaded {
		require.Equal(t, int64(len(data)), recorder.totals[i])

		if i > 0 {
			require.Greater(t, recorder.loaded[i], recorder.loaded[i-1])
		}
	}
}

// TestFetchAndExtract_UnknownLength reports an unknown total without Content-Length.
func TestFetchAndExtract_UnknownLength(t *testing.T) {
	t.Parallel()

	data := archivetest.TarGz(t, archivetest.Entry{Name: "foo/a.txt", Body: "a"})
	server := serveArchive(t, data, false)

	recorder := new(progressRecorder)

	err := New(WithProgress(recorder.record)).FetchAndExtract(context.Background(), server.URL, t.TempDir())
	require.NoError(t, err)

	require.NotEmpty(t, recorder.totals)

	for _, total := range recorder.totals {
		require.Equal(t, UnknownTotal, total)
	}
}

// TestFetchAndExtract_BadStatus includes the code and the URL and extracts nothing.
func TestFetchAndExtract_BadStatus(t *testing.T) {
	t.Parallel()

	data := archivetest.TarGz(t, archivetest.Entry{Name: "foo/a.txt", Body: "a"})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write(data)
	}))
	t.Cleanup(server.Close)

	url := server.URL + "/broken.tar.gz"
	dest := t.TempDir()

	err := New().FetchAndExtract(context.Background(), url, dest)

	var statusErr *HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	require.Contains(t, err.Error(), "500")
	require.Contains(t, err.Error(), url)
	require.Contains(t, err.Error(), "HTTP_PROXY")

	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	require.Empty(t, entries)
}

// TestFetchAndExtract_Timeout fails with the configured timeout when the server stalls.
func TestFetchAndExtract_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	err := New(WithTimeout(50*time.Millisecond)).FetchAndExtract(context.Background(), server.URL, t.TempDir())

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	require.Equal(t, 50*time.Millisecond, timeoutErr.Timeout)
	require.GreaterOrEqual(t, timeoutErr.Elapsed, 50*time.Millisecond)
	require.Contains(t, err.Error(), "50ms")
	require.Contains(t, err.Error(), server.URL)
}

// TestFetchAndExtract_ParentCanceled is not reported as a timeout.
func TestFetchAndExtract_ParentCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New().FetchAndExtract(ctx, "http://127.0.0.1:1/never", t.TempDir())
	require.Error(t, err)

	var timeoutErr *TimeoutError
	require.NotErrorAs(t, err, &timeoutErr)
	require.ErrorIs(t, err, context.Canceled)
}

// TestFetchAndExtract_NetworkError wraps transport failures.
func TestFetchAndExtract_NetworkError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	err := New().FetchAndExtract(context.Background(), url, t.TempDir())

	var networkErr *NetworkError
	require.ErrorAs(t, err, &networkErr)
	require.Equal(t, url, networkErr.URL)
}

// TestFetchAndExtract_TruncatedBody reports a body cut short by the server as a network failure.
func TestFetchAndExtract_TruncatedBody(t *testing.T) {
	t.Parallel()

	data := archivetest.TarGz(t, archivetest.Entry{Name: "foo/a.txt", Body: "a"})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// Promise more than is sent; the client sees an unexpected EOF.
		w.Header().Set("Content-Length", strconv.Itoa(len(data)*2))
		_, _ = w.Write(data[:len(data)/2])
	}))
	t.Cleanup(server.Close)

	err := New().FetchAndExtract(context.Background(), server.URL, t.TempDir())

	var networkErr *NetworkError
	require.ErrorAs(t, err, &networkErr)
}

// TestFetchAndExtract_DecompressionError passes extractor failures through.
func TestFetchAndExtract_DecompressionError(t *testing.T) {
	t.Parallel()

	server := serveArchive(t, []byte("<html>not an archive</html>"), true)

	err := New().FetchAndExtract(context.Background(), server.URL, t.TempDir())

	var decompressionErr *archive.DecompressionError
	require.ErrorAs(t, err, &decompressionErr)
}

// TestFetchAndExtract_UnpackErrorStopsDownload aborts the transfer when extraction fails early.
func TestFetchAndExtract_UnpackErrorStopsDownload(t *testing.T) {
	t.Parallel()

	data := archivetest.TarGz(t, archivetest.Entry{Name: "foo/../../evil.txt", Body: "x"})
	stalled := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(data)
		w.(http.Flusher).Flush()

		// Keep the body open until the client gives up on it.
		<-r.Context().Done()
		close(stalled)
	}))
	t.Cleanup(server.Close)

	err := New().FetchAndExtract(context.Background(), server.URL, t.TempDir())

	var unpackErr *archive.UnpackError
	require.ErrorAs(t, err, &unpackErr)
	require.ErrorIs(t, err, archive.ErrUnsafePath)

	select {
	case <-stalled:
	case <-time.After(5 * time.Second):
		t.Fatal("download was not aborted")
	}
}

// TestExtract uses the stream-only variant.
func TestExtract(t *testing.T) {
	t.Parallel()

	dest := t.TempDir()
	data := archivetest.TarGz(t, archivetest.Entry{Name: "foo/a.txt", Body: "a"})

	require.NoError(t, New().Extract(context.Background(), bytes.NewReader(data), dest))

	_, err := os.Stat(filepath.Join(dest, "a.txt"))
	require.NoError(t, err)
}
