package cdnclient

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
)

// AzureBackend fetches CDN content directly from an Azure Blob container fronting a CDN mirror.
type AzureBackend struct {
	client *azblob.Client
}

var _ Backend = (*AzureBackend)(nil)

// NewAzureBackend returns an AzureBackend using client. "host" in Fetch calls is treated as the container name.
func NewAzureBackend(client *azblob.Client) *AzureBackend {
	return &AzureBackend{client: client}
}

// NewAzureBackendFromCredentials returns an AzureBackend for serviceURL, authenticating via the default Azure
// credential chain (environment, managed identity, CLI).
func NewAzureBackendFromCredentials(serviceURL string) (*AzureBackend, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("cdnclient: azure credentials: %w", err)
	}

	client, err := azblob.NewClient(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("cdnclient: azure client: %w", err)
	}

	return &AzureBackend{client: client}, nil
}

// Transport implements Backend.
func (b *AzureBackend) Transport() Transport {
	return TransportAzure
}

// Fetch implements Backend.
func (b *AzureBackend) Fetch(ctx context.Context, host, path string, br *ByteRange) (io.ReadCloser, error) {
	if err := br.Valid(false); err != nil {
		return nil, err
	}

	opts := &azblob.DownloadStreamOptions{}
	if br != nil {
		opts.Range = blob.HTTPRange{Offset: br.Start, Count: br.End - br.Start + 1}
	}

	resp, err := b.client.DownloadStream(ctx, host, path, opts)
	if err != nil {
		return nil, fmt.Errorf("cdnclient: azure download %s/%s: %w", host, path, err)
	}

	return resp.Body, nil
}
