package ribbit

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net"
	"net/textproto"
	"strings"
	"time"

	"github.com/ngdp-go/casc/bpsv"
	"github.com/ngdp-go/casc/core/log"
	"github.com/ngdp-go/casc/strutil"
)

// DefaultV1Hosts is the standard set of regional Ribbit v1 hosts, tried in order.
var DefaultV1Hosts = []string{
	"us.version.battle.net:1119",
	"eu.version.battle.net:1119",
	"kr.version.battle.net:1119",
	"cn.version.battle.net:1119",
	"tw.version.battle.net:1119",
	"sg.version.battle.net:1119",
}

// DefaultDialTimeout bounds how long a single v1 TCP connection attempt may take.
const DefaultDialTimeout = 10 * time.Second

// V1ClientOptions configures a V1Client.
type V1ClientOptions struct {
	// Hosts is the ordered list of "host:port" Ribbit v1 endpoints to try. Defaults to DefaultV1Hosts. Takes
	// priority over Region: if set, no SRV discovery is attempted.
	Hosts []string

	// Region, when Hosts is empty, is used to discover Ribbit v1 endpoints via ResolveHosts before falling back
	// to DefaultV1Hosts. SRV discovery failures (including "no records") are not fatal; they just skip straight
	// to the default host list.
	Region string

	// DialTimeout bounds a single connection attempt. Defaults to DefaultDialTimeout.
	DialTimeout time.Duration

	// Retries is the number of hosts tried before giving up. Defaults to len(Hosts).
	Retries int

	// Logger receives client diagnostics.
	Logger log.Logger
}

// V1Client speaks Ribbit's v1 protocol: one command per TCP connection, response framed as a MIME message.
type V1Client struct {
	hosts       []string
	dialTimeout time.Duration
	retries     int
	logger      log.WrappedLogger
}

// NewV1Client returns a V1Client configured with options.
func NewV1Client(options V1ClientOptions) *V1Client {
	hosts := options.Hosts
	if len(hosts) == 0 && options.Region != "" {
		if discovered, err := ResolveHosts(options.Region); err == nil {
			hosts = discovered
		}
	}

	if len(hosts) == 0 {
		hosts = DefaultV1Hosts
	}

	dialTimeout := options.DialTimeout
	if dialTimeout == 0 {
		dialTimeout = DefaultDialTimeout
	}

	retries := options.Retries
	if retries == 0 {
		retries = len(hosts)
	}

	return &V1Client{
		hosts:       hosts,
		dialTimeout: dialTimeout,
		retries:     retries,
		logger:      log.NewWrappedLogger(options.Logger),
	}
}

// Response is a parsed Ribbit v1 MIME response: the BPSV document carried in its text part, and the raw signature
// bytes from its binary part, if present (consumed by sigverify, never validated here).
type Response struct {
	Document  *bpsv.Document
	Signature []byte
}

// Summary fetches the product summary feed, listing every product Ribbit currently serves.
func (c *V1Client) Summary(ctx context.Context) (*Response, error) {
	return c.dispatch(ctx, summaryLine)
}

// Fetch runs cmd against product.
func (c *V1Client) Fetch(ctx context.Context, product string, cmd Command) (*Response, error) {
	return c.dispatch(ctx, cmd.line(product))
}

// Cert fetches a certificate by its hex-encoded SHA-1 hash.
func (c *V1Client) Cert(ctx context.Context, hash string) (*Response, error) {
	return c.dispatch(ctx, certLine(hash))
}

// OCSP fetches an OCSP response for a certificate by hash.
func (c *V1Client) OCSP(ctx context.Context, hash string) (*Response, error) {
	return c.dispatch(ctx, ocspLine(hash))
}

// dispatch sends line to each host in turn, falling over to the next host in the list on failure, and returns the
// first successful response.
func (c *V1Client) dispatch(ctx context.Context, line string) (*Response, error) {
	var lastErr error

	for attempt := 0; attempt < c.retries; attempt++ {
		host := c.hosts[attempt%len(c.hosts)]

		resp, err := c.dispatchOnce(ctx, host, line)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		c.logger.Warnf("(ribbit) request %q to %s failed: %v", line, host, err)

		if ctx.Err() != nil {
			break
		}
	}

	return nil, fmt.Errorf("ribbit: %s: %w", line, lastErr)
}

// dispatchOnce opens one TCP connection to host, sends line, and parses the MIME response.
func (c *V1Client) dispatchOnce(ctx context.Context, host, line string) (*Response, error) {
	dialer := net.Dialer{Timeout: c.dialTimeout}

	conn, err := dialer.DialContext(ctx, "tcp", host)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", host, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if _, err := io.WriteString(conn, line+"\r\n"); err != nil {
		return nil, fmt.Errorf("write command: %w", err)
	}

	return parseMIMEResponse(conn)
}

// parseMIMEResponse reads a Ribbit v1 response: MIME headers (declaring a multipart boundary), followed by a
// multipart body whose first text part is the BPSV document and whose last binary part (if any) is the PKCS7
// signature.
func parseMIMEResponse(r io.Reader) (*Response, error) {
	tp := textproto.NewReader(bufio.NewReader(r))

	header, err := tp.ReadMIMEHeader()
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read MIME header: %w", err)
	}

	contentType := header.Get("Content-Type")
	if contentType == "" {
		return nil, fmt.Errorf("response missing Content-Type header")
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("parse Content-Type: %w", err)
	}

	if !strings.HasPrefix(mediaType, "multipart/") {
		return nil, fmt.Errorf("unexpected media type %q", mediaType)
	}

	boundary, ok := params["boundary"]
	if !ok {
		return nil, fmt.Errorf("multipart response missing boundary")
	}

	response := &Response{}

	reader := multipart.NewReader(tp.R, boundary)

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read multipart: %w", err)
		}

		body, err := io.ReadAll(part)
		if err != nil {
			return nil, fmt.Errorf("read part body: %w", err)
		}

		if strutil.Contains(part.Header.Get("Content-Type"), "text/plain") && response.Document == nil {
			doc, err := bpsv.Parse(string(body))
			if err != nil {
				return nil, fmt.Errorf("parse part as bpsv: %w", err)
			}

			response.Document = doc

			continue
		}

		response.Signature = body
	}

	if response.Document == nil {
		return nil, fmt.Errorf("response contained no text/plain BPSV part")
	}

	return response, nil
}
