package fetcher

import (
	"fmt"
	"time"
)

// TimeoutError is returned when the download does not finish within the client timeout.
type TimeoutError struct {
	URL string
	// Timeout is the configured limit.
	Timeout time.Duration
	// Elapsed is how long the operation ran before it was aborted.
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout of %dms reached for %s", e.Timeout.Milliseconds(), e.URL)
}

// HTTPStatusError is returned when the server answers with anything but 200 OK.
type HTTPStatusError struct {
	StatusCode int
	URL        string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("encountered bad status code (%d) for %s: "+
		"the server may be experiencing difficulties right now, please try again later; "+
		"if you are behind a firewall, proxy requests with the HTTP_PROXY or HTTPS_PROXY environment variables",
		e.StatusCode, e.URL)
}

// NetworkError wraps transport failures: DNS, connection resets, broken bodies.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
