package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ngdp-go/casc/blte"
	"github.com/ngdp-go/casc/casc/index"
	"github.com/ngdp-go/casc/casc/install"
	"github.com/ngdp-go/casc/casc/localheader"
	"github.com/ngdp-go/casc/parse"
	"github.com/ngdp-go/casc/ratelimit"
	"github.com/ngdp-go/casc/strings/format"
	"github.com/urfave/cli/v2"
	"golang.org/x/time/rate"
)

func newVerifyCmd() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "Read back every BLTE blob in an installation's archive segments and report decode failures",
		ArgsUsage: "<installation-root>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "rate-limit",
				Usage: "cap the segment scan's read throughput, e.g. '10MiB' or '512KiB' (unset = unlimited)",
			},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("verify: expected exactly one <installation-root> argument")
			}

			inst, err := install.Open(c.Args().First(), index.DefaultFieldWidths)
			if err != nil {
				return fmt.Errorf("verify: open installation: %w", err)
			}
			defer inst.Close() //nolint:errcheck

			limiter, err := rateLimiter(c.String("rate-limit"))
			if err != nil {
				return fmt.Errorf("verify: %w", err)
			}

			start := time.Now()

			failures, err := verifyInstallation(c.Context, inst, limiter)
			if err != nil {
				return fmt.Errorf("verify: %w", err)
			}

			elapsed := format.Duration(time.Since(start))

			if len(failures) == 0 {
				fmt.Printf("verify: all archived blobs decoded successfully (%s)\n", elapsed)
				return nil
			}

			for _, f := range failures {
				fmt.Printf("verify: %s: %v\n", f.EKey, f.Err)
			}

			return fmt.Errorf("verify: %d key(s) failed to decode (%s)", len(failures), elapsed)
		},
	}
}

// verifyFailure records one key that failed to resolve during a verify/repair pass.
type verifyFailure struct {
	EKey string
	Err  error
}

// rateLimiter builds a byte-throughput limiter for the verify scan from a human-readable size string (e.g.
// "10MiB", "512KiB"), or nil if s is empty (unlimited).
func rateLimiter(s string) (*rate.Limiter, error) {
	if s == "" {
		return nil, nil
	}

	bytesPerSec, err := parse.Bytes(s)
	if err != nil {
		return nil, fmt.Errorf("parse rate-limit %q: %w", s, err)
	}

	return rate.NewLimiter(rate.Limit(bytesPerSec), int(bytesPerSec)), nil
}

// verifyInstallation walks every 'data.NNN' segment under inst's archive directory, decoding each local header's
// BLTE stream in turn. It does not consult the '.idx'
// index at all: index entries only carry the 9-byte truncated key, so a segment walk reading each
// local header's full 16-byte key directly is the only way to name a failing key precisely.
func verifyInstallation(ctx context.Context, inst *install.Installation, limiter *rate.Limiter) ([]verifyFailure, error) {
	segments, err := listSegments(filepath.Join(inst.Root, "Data", "data"))
	if err != nil {
		return nil, err
	}

	var failures []verifyFailure

	for _, path := range segments {
		segFailures, err := verifySegment(ctx, path, limiter)
		if err != nil {
			return nil, fmt.Errorf("verify segment %s: %w", filepath.Base(path), err)
		}

		failures = append(failures, segFailures...)
	}

	if len(failures) > 0 {
		inst.MarkNeedsRepair(fmt.Sprintf("%d key(s) failed decode during verify", len(failures)))
	}

	return failures, nil
}

// verifySegment decodes every local-header-prefixed BLTE blob in the segment at path, in file order, and returns
// the keys whose decode failed.
func verifySegment(ctx context.Context, path string, limiter *rate.Limiter) ([]verifyFailure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	var r io.Reader = f
	if limiter != nil {
		r = ratelimit.NewRateLimitedReader(ctx, f, limiter)
	}

	var failures []verifyFailure

	preamble := make([]byte, localheader.Size)

	for {
		if err := ctx.Err(); err != nil {
			return failures, err
		}

		if _, err := io.ReadFull(r, preamble); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}

			return failures, fmt.Errorf("read local header: %w", err)
		}

		hdr, err := localheader.Parse(preamble)
		if err != nil {
			return failures, fmt.Errorf("parse local header: %w", err)
		}

		// A header shorter than itself marks the tail of written content (the rest of the segment, if any, is
		// unwritten capacity past the last record).
		if hdr.Size < localheader.Size {
			break
		}

		body := make([]byte, hdr.BLTESize())

		if _, err := io.ReadFull(r, body); err != nil {
			failures = append(failures, verifyFailure{EKey: hdr.EKey.String(), Err: fmt.Errorf("read BLTE body: %w", err)})
			break
		}

		if _, err := blte.Decompress(body, nil); err != nil {
			failures = append(failures, verifyFailure{EKey: hdr.EKey.String(), Err: err})
		}
	}

	return failures, nil
}
