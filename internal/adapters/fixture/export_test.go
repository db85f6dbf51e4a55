package fixture

import "net/http"

// SetObjectOpener replaces the S3 opener.
func (f *Fetcher) SetObjectOpener(o ObjectOpener) {
	f.s3 = o
	f.s3Once.Do(func() {})
}

// SetHTTPClient replaces the HTTP client.
func (f *Fetcher) SetHTTPClient(c *http.Client) {
	f.httpClient = c
}

// SafeJoin exposes safeJoin for tests.
var SafeJoin = safeJoin
