package linkdrop

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// ArtifactFetcher supplies the compiled linkdrop contract to deploy. Whether
// the bytes are cached or re-fetched is the fetcher's business.
type ArtifactFetcher interface {
	FetchLinkdropContract(ctx context.Context) ([]byte, error)
}

// HTTPArtifactFetcher downloads the contract once and serves the bytes from
// memory afterwards. A failed download is not cached; the next call retries.
type HTTPArtifactFetcher struct {
	url  string
	http *http.Client

	mu   sync.Mutex
	wasm []byte
}

func NewHTTPArtifactFetcher(url string) *HTTPArtifactFetcher {
	return &HTTPArtifactFetcher{
		url:  url,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

func (f *HTTPArtifactFetcher) FetchLinkdropContract(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.wasm != nil {
		return f.wasm, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch linkdrop contract: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch linkdrop contract: status %d", resp.StatusCode)
	}
	wasm, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch linkdrop contract: %w", err)
	}
	if len(wasm) == 0 {
		return nil, fmt.Errorf("fetch linkdrop contract: empty artifact")
	}
	f.wasm = wasm
	return wasm, nil
}
