// Package cdnclient implements the CDN fallback client: given a (host, path, hash)
// triple it returns bytes, with range-request support, exponential backoff, and failover across a host list.
//
// models cloud buckets, and a Backend per transport (plain HTTP, and the three cloud-fronted mirrors) is wired
// the same way objaws/objazure/objgcp implement objcli.Client. Blizzard's CDN hosts are frequently fronted by one
// of these three clouds, and tooling that pre-warms or mirrors them talks to the bucket directly rather than
// through the HTTP edge.
package cdnclient

import (
	"context"
	"fmt"
	"io"

	"github.com/ngdp-go/casc/core/log"
	"github.com/ngdp-go/casc/retry"
	"github.com/ngdp-go/casc/utils/crypto/random"
	"golang.org/x/time/rate"
)

// Transport identifies which concrete transport a Backend speaks. Unlike a cloud-only provider enum, it also
// covers the plain-HTTP edge path, since that is the common case for a Blizzard CDN host.
type Transport int

const (
	// TransportHTTP is a plain HTTP(S) edge host.
	TransportHTTP Transport = iota
	// TransportAWS fetches directly from an S3 bucket fronting a CDN mirror.
	TransportAWS
	// TransportAzure fetches directly from an Azure Blob container fronting a CDN mirror.
	TransportAzure
	// TransportGCP fetches directly from a GCS bucket fronting a CDN mirror.
	TransportGCP
)

// Backend fetches object bytes from a single CDN transport. A bucket/container name is threaded through
// explicitly (rather than baked into the Backend) so one Backend instance can serve multiple CDN "path"
// namespaces, matching objcli.Client's (bucket, key) shape.
type Backend interface {
	// Transport identifies which concrete transport this Backend implements.
	Transport() Transport

	// Fetch retrieves path from host, optionally restricted to a byte range. The caller must Close the returned
	// reader.
	Fetch(ctx context.Context, host, path string, br *ByteRange) (io.ReadCloser, error)
}

// DefaultRequestRetries is the number of host attempts made per Fetch call before giving up.
const DefaultRequestRetries = 3

// ClientOptions configures a Client.
type ClientOptions struct {
	// Backend performs the actual transport-level fetch. Required.
	Backend Backend

	// Hosts is the ordered list of CDN hosts to try, falling over to the next on failure.
	Hosts []string

	// RequestRetries bounds the number of host attempts per Fetch. Defaults to DefaultRequestRetries.
	RequestRetries int

	// Limiter is waited on before every host attempt of every Fetch; the one limiter is shared by all hosts. A nil
	// Limiter disables throttling.
	Limiter *rate.Limiter

	// RandomizeHosts shuffles Hosts once at construction time, spreading load across CDN mirrors instead of always
	// hammering Hosts[0] first.
	RandomizeHosts bool

	// Logger receives client diagnostics.
	Logger log.Logger
}

// Client fetches CDN content bytes, failing over across a host list with exponential backoff.
type Client struct {
	backend Backend
	hosts   []string
	retries int
	limiter *rate.Limiter
	logger  log.WrappedLogger
}

// NewClient returns a Client configured with options.
func NewClient(options ClientOptions) *Client {
	retries := options.RequestRetries
	if retries == 0 {
		retries = DefaultRequestRetries
	}

	hosts := options.Hosts
	if options.RandomizeHosts {
		hosts = shuffleHosts(hosts)
	}

	return &Client{
		backend: options.Backend,
		hosts:   hosts,
		retries: retries,
		limiter: options.Limiter,
		logger:  log.NewWrappedLogger(options.Logger),
	}
}

// shuffleHosts returns a Fisher-Yates shuffled copy of hosts using crypto/rand-backed randomness. A failure reading
// entropy for a given swap leaves the remaining hosts in their current order rather than aborting the client
// construction over a cosmetic load-balancing feature.
func shuffleHosts(hosts []string) []string {
	shuffled := append([]string(nil), hosts...)

	for i := len(shuffled) - 1; i > 0; i-- {
		j, err := random.Integer(0, i)
		if err != nil {
			break
		}

		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled
}

// Fetch retrieves the full content at path (content-addressed by hash; hash is used only for the caller-facing
// error message, not for verification; BLTE's own MD5 chunk checksums are the integrity boundary).
func (c *Client) Fetch(ctx context.Context, path, hash string) ([]byte, error) {
	return c.FetchRange(ctx, path, hash, nil)
}

// FetchRange retrieves path, optionally restricted to br, failing over across the host list.
func (c *Client) FetchRange(ctx context.Context, path, hash string, br *ByteRange) ([]byte, error) {
	if len(c.hosts) == 0 {
		return nil, fmt.Errorf("cdnclient: no hosts configured")
	}

	var lastErr error

	for attempt := 0; attempt < c.retries; attempt++ {
		host := c.hosts[attempt%len(c.hosts)]

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("cdnclient: rate limit wait: %w", err)
			}
		}

		body, err := c.backend.Fetch(ctx, host, path, br)
		if err == nil {
			defer body.Close()

			data, readErr := io.ReadAll(body)
			if readErr == nil {
				return data, nil
			}

			err = readErr
		}

		lastErr = err
		c.logger.Warnf("(cdnclient) fetch %s (hash=%s) from %s failed: %v", path, hash, host, err)

		if ctx.Err() != nil {
			break
		}
	}

	return nil, fmt.Errorf("cdnclient: %s (hash=%s): %w", path, hash, lastErr)
}

// FetchWithBackoff is FetchRange with an explicit exponential backoff between host attempts, for callers that want
// the resolver's ContainerLocked/Timeout-style retry discipline instead of an immediate failover.
func (c *Client) FetchWithBackoff(ctx context.Context, path, hash string, br *ByteRange) ([]byte, error) {
	var data []byte

	err := retry.ExponentialWithContext(ctx, c.retries, backoffBase, func() error {
		var err error
		data, err = c.FetchRange(ctx, path, hash, br)

		return err
	}, nil)
	if err != nil {
		return nil, err
	}

	return data, nil
}
