// Package ribbit implements Blizzard's Ribbit version/CDN-config service: a v1 client speaking a MIME-wrapped
// line protocol over a raw TCP connection, and a v2 client speaking JSON over HTTPS. Only the v2 client goes through
// httptools.Client and its retryer; the v1 client has no HTTP request/response to hand to it and instead falls over
// across its own host list.
package ribbit

// Command identifies one of Ribbit's product-scoped data feeds.
type Command string

const (
	// CommandVersions lists the current build version per region for a product.
	CommandVersions Command = "versions"
	// CommandCDNs lists the CDN hosts/paths serving a product's content.
	CommandCDNs Command = "cdns"
	// CommandBGDL lists the background-download manifest for a product.
	CommandBGDL Command = "bgdl"
)

// line returns the v1 command line (without the trailing CRLF) for requesting cmd against product.
func (c Command) line(product string) string {
	return "v1/products/" + product + "/" + string(c)
}

// summaryLine is the v1 command line for the summary feed, which lists every known product.
const summaryLine = "v1/summary"

// certLine returns the v1 command line for fetching a certificate by its hex-encoded SHA-1 hash.
func certLine(hash string) string {
	return "v1/certs/" + hash
}

// ocspLine returns the v1 command line for fetching an OCSP response for a certificate by hash.
func ocspLine(hash string) string {
	return "v1/ocsp/" + hash
}
