package geosync

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/netfence/geogate/internal/brand"
)

// RangeSet is a freshly downloaded country range list: the raw lines in
// their original order. Trimming, comment skipping, and validation happen
// during the add-step so every skip is accounted for in the run report.
type RangeSet struct {
	Lines []string
}

// ListFetcher downloads a range list. Implemented by Fetcher; tests stub it.
type ListFetcher interface {
	Fetch(ctx context.Context, url string) (*RangeSet, error)
}

// Fetcher downloads range lists over HTTP(S). One attempt per cycle; a
// failed cycle degrades gracefully and the next scheduled run retries.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher with the given per-request timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads the list at url. Transfer errors, non-200 responses, and
// empty bodies all return a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*RangeSet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", brand.UserAgent())

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("http status %d", resp.StatusCode)}
	}

	var lines []string
	var bytes int
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		bytes += len(line)
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	if bytes == 0 {
		return nil, &FetchError{URL: url, Err: ErrEmptyList}
	}

	return &RangeSet{Lines: lines}, nil
}
