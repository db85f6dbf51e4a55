package conda

import (
	"net/http"
	"time"
)

// NewIndexWithClient exposes newIndexWithClient for tests.
func NewIndexWithClient(apiBase, cacheDir string, ttl time.Duration, client *http.Client) (*Index, error) {
	return newIndexWithClient(apiBase, cacheDir, ttl, client)
}

// SetClock replaces the index clock.
func (i *Index) SetClock(now func() time.Time) {
	i.now = now
}
