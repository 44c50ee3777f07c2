package cdnclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTPBackend fetches CDN content over plain HTTP(S), the common-case transport for a Blizzard CDN edge host.
type HTTPBackend struct {
	client *http.Client
}

var _ Backend = (*HTTPBackend)(nil)

// NewHTTPBackend returns a Backend using client (or http.DefaultClient if nil) to issue requests.
func NewHTTPBackend(client *http.Client) *HTTPBackend {
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPBackend{client: client}
}

// Transport implements Backend.
func (b *HTTPBackend) Transport() Transport {
	return TransportHTTP
}

// Fetch implements Backend, issuing "GET <host>/<path>" with an optional Range header. host is used verbatim as the
// URL prefix, so it carries its own scheme (e.g. "http://cdn.example").
func (b *HTTPBackend) Fetch(ctx context.Context, host, path string, br *ByteRange) (io.ReadCloser, error) {
	url := host
	if len(url) > 0 && url[len(url)-1] != '/' && len(path) > 0 && path[0] != '/' {
		url += "/"
	}

	url += path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("cdnclient: build request: %w", err)
	}

	if br != nil {
		if err := br.Valid(false); err != nil {
			return nil, err
		}

		req.Header.Set("Range", "bytes="+br.String())
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cdnclient: http get %s: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		resp.Body.Close()
		return nil, &StatusError{Host: host, Path: path, StatusCode: resp.StatusCode}
	}

	return resp.Body, nil
}
