// Package sigverify extracts (but does not validate) the PKCS7 signature blob Blizzard's Ribbit/TACT services
// attach alongside a BPSV document. Parsing unmarshals only the outer ContentInfo envelope rather than the whole
// SignedData, since everything past the content-type OID is the caller's (external verifier's) concern.
package sigverify

import (
	"encoding/asn1"
	"fmt"
)

// OIDSignedData is the PKCS7 "signedData" content type Ribbit/TACT signature blobs use.
var OIDSignedData = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 7, 2}

// contentInfo mirrors PKCS7's outer ContentInfo structure: a content-type OID plus an explicitly-tagged,
// content-type-specific payload. We decode only this much; the embedded SignedData's SignerInfos are handed to
// the caller raw, since this package does not validate a certificate chain.
type contentInfo struct {
	ContentType asn1.ObjectIdentifier
	Content     asn1.RawValue `asn1:"explicit,tag:0"`
}

// Signature is an extracted (not validated) PKCS7 signature blob.
type Signature struct {
	// ContentType is the declared PKCS7 content-type OID (expected to be OIDSignedData).
	ContentType asn1.ObjectIdentifier

	// SignedData is the raw DER bytes of the embedded SignedData structure, to be handed to an external verifier.
	SignedData []byte

	// Raw is the original, unmodified signature blob as received.
	Raw []byte
}

// Extract parses the PKCS7 ContentInfo envelope around data and returns the embedded SignedData bytes without
// inspecting certificates or signer infos.
func Extract(data []byte) (*Signature, error) {
	var ci contentInfo

	rest, err := asn1.Unmarshal(data, &ci)
	if err != nil {
		return nil, fmt.Errorf("sigverify: parse ContentInfo: %w", err)
	}

	if len(rest) != 0 {
		return nil, fmt.Errorf("sigverify: %d trailing bytes after ContentInfo", len(rest))
	}

	if !ci.ContentType.Equal(OIDSignedData) {
		return nil, fmt.Errorf("sigverify: unexpected content type %v, want signedData", ci.ContentType)
	}

	return &Signature{
		ContentType: ci.ContentType,
		SignedData:  ci.Content.Bytes,
		Raw:         data,
	}, nil
}

// IsSigned reports whether data looks like a PKCS7 ContentInfo envelope at all, without fully decoding it,
// useful for callers deciding whether a Ribbit/TACT response's trailing binary part is a signature worth handing
// to Extract, versus some other opaque binary payload.
func IsSigned(data []byte) bool {
	var ci contentInfo
	_, err := asn1.Unmarshal(data, &ci)

	return err == nil
}
