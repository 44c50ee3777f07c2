package cdnclient

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// GCPBackend fetches CDN content directly from a GCS bucket fronting a CDN mirror.
type GCPBackend struct {
	client *storage.Client
}

var _ Backend = (*GCPBackend)(nil)

// NewGCPBackend returns a GCPBackend using client. "host" in Fetch calls is treated as the bucket name.
func NewGCPBackend(client *storage.Client) *GCPBackend {
	return &GCPBackend{client: client}
}

// Transport implements Backend.
func (b *GCPBackend) Transport() Transport {
	return TransportGCP
}

// Fetch implements Backend.
func (b *GCPBackend) Fetch(ctx context.Context, host, path string, br *ByteRange) (io.ReadCloser, error) {
	if err := br.Valid(false); err != nil {
		return nil, err
	}

	object := b.client.Bucket(host).Object(path)

	offset, length := int64(0), int64(-1)
	if br != nil {
		offset = br.Start
		length = br.End - br.Start + 1
	}

	reader, err := object.NewRangeReader(ctx, offset, length)
	if err != nil {
		return nil, fmt.Errorf("cdnclient: gcs read %s/%s: %w", host, path, err)
	}

	return reader, nil
}
