package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"golang.org/x/sync/errgroup"

	"github.com/oshokin/app-starter/internal/archive"
	"github.com/oshokin/app-starter/internal/logger"
	"github.com/oshokin/app-starter/internal/version"
)

// DefaultTimeout is the client-side limit of a whole download (900 000 ms).
const DefaultTimeout = 15 * time.Minute

// Fetcher downloads template archives and extracts them.
type Fetcher struct {
	client   *http.Client
	timeout  time.Duration
	progress ProgressFunc
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		if timeout > 0 {
			f.timeout = timeout
		}
	}
}

// WithHTTPClient replaces the default proxy-aware pooled client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithProgress registers a callback fired for every received chunk.
func WithProgress(progress ProgressFunc) Option {
	return func(f *Fetcher) {
		f.progress = progress
	}
}

// New creates a Fetcher. The default client honors HTTP_PROXY, HTTPS_PROXY and NO_PROXY.
func New(options ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultTimeout,
	}

	for _, option := range options {
		option(f)
	}

	if f.client == nil {
		f.client = cleanhttp.DefaultPooledClient()
	}

	return f
}

// Extract unpacks an already open compressed tar stream into destination.
func (f *Fetcher) Extract(ctx context.Context, r io.Reader, destination string) error {
	return archive.Extract(ctx, r, destination)
}

// FetchAndExtract downloads the archive at url and unpacks it into destination,
// stripping its top-level folder. It returns once every entry is written.
//
// Errors are *TimeoutError, *HTTPStatusError, *NetworkError,
// *archive.DecompressionError or *archive.UnpackError. A bad status aborts
// before anything is extracted. Files written before a failure are kept.
func (f *Fetcher) FetchAndExtract(ctx context.Context, url, destination string) error {
	started := time.Now()

	requestCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	logger.InfoKV(ctx, "Downloading template", "url", url, "destination", destination)

	err := f.fetchAndExtract(requestCtx, url, destination)
	if err == nil {
		logger.DebugKV(ctx, "Template extracted", "url", url, "elapsed", time.Since(started))
		return nil
	}

	// Only our own deadline is a timeout; a canceled parent is passed through.
	if ctx.Err() == nil && errors.Is(requestCtx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{
			URL:     url,
			Timeout: f.timeout,
			Elapsed: time.Since(started),
		}
	}

	return err
}

func (f *Fetcher) fetchAndExtract(ctx context.Context, url, destination string) error {
	// Canceled by the extractor to stop the transfer once extraction failed.
	ctx, abort := context.WithCancel(ctx)
	defer abort()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	request.Header.Set("User-Agent", version.UserAgent())

	response, err := f.client.Do(request)
	if err != nil {
		return &NetworkError{URL: url, Err: err}
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return &HTTPStatusError{
			StatusCode: response.StatusCode,
			URL:        url,
		}
	}

	total := response.ContentLength
	if total < 0 {
		total = UnknownTotal
	}

	body := &bodyReader{
		r:        response.Body,
		total:    total,
		progress: f.progress,
	}

	return pipe(ctx, abort, url, body, destination)
}

// pipe runs the download and the extraction concurrently over an io.Pipe.
func pipe(ctx context.Context, abort context.CancelFunc, url string, body *bodyReader, destination string) error {
	var (
		reader, writer = io.Pipe()
		group, gctx    = errgroup.WithContext(ctx)
		aborted        atomic.Bool
		downloadErr    error
	)

	group.Go(func() error {
		_, err := io.Copy(writer, body)

		// Decided before the pipe is closed, so an extractor failing on
		// this very error cannot mark it as its own abort.
		if body.err != nil && !aborted.Load() {
			downloadErr = &NetworkError{URL: url, Err: body.err}
		}

		_ = writer.CloseWithError(err)

		return downloadErr
	})

	group.Go(func() error {
		err := archive.Extract(gctx, reader, destination)
		if err == nil {
			// Trailing bytes after the archive still belong to the download.
			_, err = io.Copy(io.Discard, reader)
		}

		if err != nil {
			aborted.Store(true)
			abort()
		}

		_ = reader.CloseWithError(err)

		return err
	})

	err := group.Wait()

	// A broken download also breaks the extractor; report the cause.
	if downloadErr != nil {
		return downloadErr
	}

	return err
}
