package ribbit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/ngdp-go/casc/aprov"
	"github.com/ngdp-go/casc/core/log"
	"github.com/ngdp-go/casc/httptools"
)

// DefaultV2Host is the standard Ribbit v2 JSON-over-HTTPS host.
const DefaultV2Host = "https://us.version.battle.net"

// V2ClientOptions configures a V2Client.
type V2ClientOptions struct {
	// Host is the Ribbit v2 host to query. Defaults to DefaultV2Host.
	Host string

	// Provider supplies credentials/user-agent for outgoing requests.
	Provider aprov.Provider

	// Logger receives client diagnostics.
	Logger log.Logger
}

// V2Client speaks Ribbit's v2 protocol: the same product feeds as v1, returned as a JSON envelope over HTTPS rather
// than a MIME-wrapped BPSV document over raw TCP.
type V2Client struct {
	requestClient *httptools.Client
	host          string
}

// NewV2Client returns a V2Client configured with options.
func NewV2Client(options V2ClientOptions) *V2Client {
	host := options.Host
	if host == "" {
		host = DefaultV2Host
	}

	requestClient := httptools.NewClient(
		httptools.NewHTTPClient(30*time.Second, nil),
		options.Provider,
		options.Logger,
		httptools.ClientOptions{RequestRetries: 3},
	)

	return &V2Client{requestClient: requestClient, host: host}
}

// entry mirrors one row of a Ribbit v2 feed payload: {"Region": "us", "BuildId": "12345", ...} flattened to a
// string map, since the column set differs per feed (versions/cdns/bgdl) the same way the BPSV header does for v1.
type entry map[string]string

// payload is the envelope every Ribbit v2 feed response is wrapped in.
type payload struct {
	Result []entry `json:"result"`
}

// Fetch runs cmd against product, returning each result row as a string-keyed map (mirroring bpsv.Row, since the v2
// feed carries the same logical columns as v1's BPSV document, just JSON-encoded).
func (c *V2Client) Fetch(ctx context.Context, product string, cmd Command) ([]map[string]string, error) {
	endpoint := httptools.Endpoint(fmt.Sprintf("/v2/products/%s/%s", product, cmd))

	request := &httptools.Request{
		Host:               c.host,
		Endpoint:           endpoint,
		Method:             "GET",
		ContentType:        httptools.ContentTypeJSON,
		ExpectedStatusCode: http.StatusOK,
		Idempotent:         true,
		Timeout:            -1,
	}

	resp, err := c.requestClient.ExecuteWithRetries(ctx, request, nil)
	if err != nil {
		return nil, fmt.Errorf("ribbit: v2 fetch %s: %w", endpoint, err)
	}

	var body payload

	if err := jsoniter.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("ribbit: v2 decode %s: %w", endpoint, err)
	}

	rows := make([]map[string]string, len(body.Result))
	for i, row := range body.Result {
		rows[i] = row
	}

	return rows, nil
}
