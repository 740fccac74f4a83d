package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const userAgent = "Mozilla/5.0 (compatible; LinkbaseBot/1.0; +https://github.com/ziadkadry99/linkbase)"

// fetch retrieves a URL with the given per-call timeout. Non-2xx statuses
// and transport errors both come back as *Error with KindNetworkFailure;
// the extraction as a whole fails either way.
func fetch(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, newError(KindMalformedURL, "invalid URL %q: %v", rawURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, newError(KindNetworkFailure, "fetching %s: %v", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newError(KindNetworkFailure, "fetching %s: status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(KindNetworkFailure, "reading %s: %v", rawURL, err)
	}
	return body, nil
}

// fetchStatus is like fetch but reports the status code instead of treating
// non-2xx as an error; used by the README location probes.
func fetchStatus(ctx context.Context, rawURL string, timeout time.Duration) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading %s: %w", rawURL, err)
	}
	return resp.StatusCode, body, nil
}
