package httptools

import (
	"net/url"
	"time"

	"github.com/ngdp-go/casc/netutil"
)

// Method is the HTTP method used to dispatch a request, it's a defined type (rather than a bare string) so that
// request construction reads as intentional rather than stringly-typed.
type Method string

// ContentType is the value used to populate the 'Content-Type' header of an outgoing request.
type ContentType string

const (
	// ContentTypeJSON indicates that the request body is JSON encoded.
	ContentTypeJSON ContentType = "application/json"

	// ContentTypeURLEncoded indicates that the request body is URL encoded (the standard content type for most
	// management API endpoints which don't expect/return a body).
	ContentTypeURLEncoded ContentType = "application/x-www-form-urlencoded"

	// ContentTypeText indicates that the request body is plain text.
	ContentTypeText ContentType = "text/plain"

	// ContentTypeOctetStream indicates that the request body is an opaque byte stream.
	ContentTypeOctetStream ContentType = "application/octet-stream"
)

// Request encapsulates the parameters/options which are required when sending an HTTP request.
type Request struct {
	// Host is the host to dispatch this request to, if empty the customizer/caller is responsible for resolving one.
	Host string

	// Endpoint is the path (and, via Format, any path parameters) to request.
	Endpoint Endpoint

	// Method is the HTTP method used for this request.
	Method Method

	// ContentType is the value set as the 'Content-Type' header; it is always set explicitly (never defaulted) so
	// that a forgotten value is visible as an empty header rather than a silently wrong guess.
	ContentType ContentType

	// Body is the (already encoded) request body.
	Body []byte

	// Header contains any additional headers to set on the outgoing request. Values set here take priority over
	// transport-level defaults but are overridden by ContentType/auth headers, which are always applied last.
	Header map[string]string

	// QueryParameters are encoded and postfixed onto the request URL.
	QueryParameters url.Values

	// ExpectedStatusCode is the status code which indicates success for this request; any other code is converted
	// into a typed error.
	ExpectedStatusCode int

	// Timeout overrides the client's default timeout for this single request. A value of -1 disables the timeout
	// entirely (used for streaming requests); 0 means "use the client default".
	Timeout time.Duration

	// Idempotent indicates that this request may always be safely retried, regardless of its HTTP method.
	Idempotent bool

	// RetryOnStatusCodes is a list of additional status codes (beyond the usual transient failure codes) that should
	// trigger a retry.
	RetryOnStatusCodes []int

	// NoRetryOnStatusCodes is a list of status codes which should never be retried, even if they would otherwise be
	// considered transient.
	NoRetryOnStatusCodes []int
}

// IsIdempotent returns a boolean indicating whether this request is idempotent and may be retried.
func (r *Request) IsIdempotent() bool {
	return r.Idempotent || netutil.IsMethodIdempotent(string(r.Method))
}

// Response encapsulates the result of a successfully dispatched (and read to completion) HTTP request.
type Response struct {
	// StatusCode is the HTTP status code returned by the remote host.
	StatusCode int

	// Body is the entire (already drained) response body.
	Body []byte
}
