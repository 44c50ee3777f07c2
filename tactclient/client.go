// Package tactclient implements Blizzard's TACT HTTPS version-server protocol: fetching the versions/cdns/bgdl
// BPSV documents for a product from one of a fixed list of regional hosts, with host-list fallback on failure. It
// reuses httptools.Client/retry.Retryer; TACT has no cluster, just a flat list of equivalent hosts.
package tactclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ngdp-go/casc/aprov"
	"github.com/ngdp-go/casc/bpsv"
	"github.com/ngdp-go/casc/core/log"
	"github.com/ngdp-go/casc/httptools"
	"github.com/ngdp-go/casc/retry"
	"github.com/ngdp-go/casc/envvar"
	"github.com/ngdp-go/casc/netutil"
	"github.com/ngdp-go/casc/tlsutil"
)

// DefaultHosts is the standard set of regional TACT version-server hosts, tried in order.
var DefaultHosts = []string{
	"http://us.patch.battle.net:1119",
	"http://eu.patch.battle.net:1119",
	"http://kr.patch.battle.net:1119",
	"http://cn.patch.battle.net:1119",
	"http://tw.patch.battle.net:1119",
	"http://sg.patch.battle.net:1119",
}

const (
	versionsEndpoint httptools.Endpoint = "/%s/versions"
	cdnsEndpoint     httptools.Endpoint = "/%s/cdns"
	bgdlEndpoint     httptools.Endpoint = "/%s/bgdl"

	// DefaultRequestRetries is the number of hosts/attempts tried for a single TACT request before giving up.
	DefaultRequestRetries = 3

	// TimeoutsEnvVar is the environment variable read for JSON-encoded HTTP timeout overrides applied to the
	// transport built from TLSOptions.
	TimeoutsEnvVar = "NGDP_HTTP_CLIENT_TIMEOUTS"
)

// ClientOptions configures a Client.
type ClientOptions struct {
	// Hosts is the ordered list of TACT version-server hosts to try. Defaults to DefaultHosts.
	Hosts []string

	// Provider supplies credentials/user-agent for outgoing requests; TACT is normally unauthenticated, so a nil
	// Provider (no auth headers beyond User-Agent) is the common case.
	Provider aprov.Provider

	// RequestRetries is the number of host attempts made per request. Defaults to DefaultRequestRetries.
	RequestRetries int

	// TLSOptions configures the transport used for the small number of patch servers that serve TACT documents over
	// HTTPS. A nil TLSOptions uses http.DefaultTransport's TLS defaults.
	TLSOptions *tlsutil.TLSConfigOptions

	// ReqResLogLevel is the level at which request/response details are logged.
	ReqResLogLevel log.Level

	// Logger receives client diagnostics.
	Logger log.Logger
}

// Client fetches version/cdns/bgdl BPSV documents from the TACT version-server host list.
type Client struct {
	requestClient *httptools.Client
	hosts         []string
	logger        log.WrappedLogger
}

// NewClient returns a Client configured with options.
func NewClient(options ClientOptions) (*Client, error) {
	hosts := options.Hosts
	if len(hosts) == 0 {
		hosts = DefaultHosts
	}

	retries := options.RequestRetries
	if retries == 0 {
		retries = DefaultRequestRetries
	}

	timeouts, err := envvar.GetHTTPTimeouts(TimeoutsEnvVar, netutil.HTTPTimeouts{})
	if err != nil {
		return nil, fmt.Errorf("tactclient: %w", err)
	}

	transport, err := tlsTransport(options.TLSOptions, timeouts)
	if err != nil {
		return nil, fmt.Errorf("tactclient: %w", err)
	}

	requestClient := httptools.NewClient(
		httptools.NewHTTPClient(30*time.Second, transport),
		options.Provider,
		options.Logger,
		httptools.ClientOptions{RequestRetries: retries, ReqResLogLevel: options.ReqResLogLevel},
	)

	return &Client{
		requestClient: requestClient,
		hosts:         hosts,
		logger:        log.NewWrappedLogger(options.Logger),
	}, nil
}

// tlsTransport builds an http.Transport carrying the given TLS options and timeouts, or nil (meaning
// httptools.NewHTTPClient falls back to http.DefaultTransport) when options is nil.
func tlsTransport(options *tlsutil.TLSConfigOptions, timeouts netutil.HTTPTimeouts) (http.RoundTripper, error) {
	if options == nil {
		return nil, nil
	}

	if err := options.Validate(); err != nil {
		return nil, fmt.Errorf("invalid TLS options: %w", err)
	}

	tlsConfig, err := tlsutil.NewTLSConfig(*options)
	if err != nil {
		return nil, fmt.Errorf("building TLS config: %w", err)
	}

	return netutil.NewHTTPTransport(tlsConfig, timeouts), nil
}

// Versions fetches the versions document for product.
func (c *Client) Versions(ctx context.Context, product string) (*bpsv.Document, error) {
	return c.fetch(ctx, versionsEndpoint.Format(product))
}

// CDNs fetches the cdns document for product.
func (c *Client) CDNs(ctx context.Context, product string) (*bpsv.Document, error) {
	return c.fetch(ctx, cdnsEndpoint.Format(product))
}

// BGDL fetches the background-download manifest document for product.
func (c *Client) BGDL(ctx context.Context, product string) (*bpsv.Document, error) {
	return c.fetch(ctx, bgdlEndpoint.Format(product))
}

// fetch dispatches endpoint against the host list, rotating to the next host on each retry, and parses the response
// body as a BPSV document.
func (c *Client) fetch(ctx context.Context, endpoint httptools.Endpoint) (*bpsv.Document, error) {
	request := &httptools.Request{
		Host:               c.hosts[0],
		Endpoint:           endpoint,
		Method:             "GET",
		ExpectedStatusCode: http.StatusOK,
		Idempotent:         true,
		Timeout:            -1,
	}

	resp, err := c.requestClient.ExecuteWithRetries(ctx, request, &hostRotatingCustomizer{hosts: c.hosts})
	if err != nil {
		return nil, fmt.Errorf("tactclient: fetch %s: %w", endpoint, err)
	}

	doc, err := bpsv.Parse(string(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("tactclient: parse %s: %w", endpoint, err)
	}

	return doc, nil
}

// hostRotatingCustomizer walks the host list by retry attempt, so repeated failures fall over to the next regional
// host instead of hammering the same one.
type hostRotatingCustomizer struct {
	hosts []string
}

// RetryWithErrorExtension always retries: a transport-level error from one TACT host should fall over to the next
// host in the list rather than give up after a single failure.
func (h *hostRotatingCustomizer) RetryWithErrorExtension(_ *retry.Context, _ bool, _ error) bool {
	return true
}

func (h *hostRotatingCustomizer) RetryWithResponseExtension(_ *retry.Context, shouldRetry bool, _ *http.Response) bool {
	return shouldRetry
}

func (h *hostRotatingCustomizer) GetRequestHost(ctx *retry.Context) (string, error) {
	return h.hosts[(ctx.Attempt()-1)%len(h.hosts)], nil
}
