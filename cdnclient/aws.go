package cdnclient

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// AWSBackend fetches CDN content directly from an S3 bucket fronting a CDN mirror, bypassing the HTTP edge.
type AWSBackend struct {
	client *s3.S3
}

var _ Backend = (*AWSBackend)(nil)

// NewAWSBackend returns an AWSBackend using an S3 client built from sess. "host" in Fetch calls is treated as the
// bucket name, matching objaws.Client's (bucket, key) convention.
func NewAWSBackend(sess *session.Session) *AWSBackend {
	return &AWSBackend{client: s3.New(sess)}
}

// Transport implements Backend.
func (b *AWSBackend) Transport() Transport {
	return TransportAWS
}

// Fetch implements Backend.
func (b *AWSBackend) Fetch(ctx context.Context, host, path string, br *ByteRange) (io.ReadCloser, error) {
	if err := br.Valid(false); err != nil {
		return nil, err
	}

	input := &s3.GetObjectInput{
		Bucket: aws.String(host),
		Key:    aws.String(path),
	}

	if br != nil {
		input.Range = aws.String("bytes=" + br.String())
	}

	resp, err := b.client.GetObjectWithContext(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("cdnclient: s3 get %s/%s: %w", host, path, err)
	}

	return resp.Body, nil
}
