package main

import (
	"fmt"

	"github.com/ngdp-go/casc/casc/index"
	"github.com/ngdp-go/casc/casc/install"
	"github.com/ngdp-go/casc/key"
	"github.com/urfave/cli/v2"
)

// newRepairCmd runs the same segment-scan as 'verify' and then marks every failing key non-resident, so a later download pass
// knows to re-fetch it instead of trusting the corrupt local copy.
func newRepairCmd() *cli.Command {
	return &cli.Command{
		Name:      "repair",
		Usage:     "Verify an installation and mark every key that failed to decode non-resident",
		ArgsUsage: "<installation-root>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "rate-limit",
				Usage: "cap the segment scan's read throughput, e.g. '10MiB' or '512KiB' (unset = unlimited)",
			},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("repair: expected exactly one <installation-root> argument")
			}

			inst, err := install.Open(c.Args().First(), index.DefaultFieldWidths)
			if err != nil {
				return fmt.Errorf("repair: open installation: %w", err)
			}
			defer inst.Close() //nolint:errcheck

			limiter, err := rateLimiter(c.String("rate-limit"))
			if err != nil {
				return fmt.Errorf("repair: %w", err)
			}

			failures, err := verifyInstallation(c.Context, inst, limiter)
			if err != nil {
				return fmt.Errorf("repair: %w", err)
			}

			marked := 0

			for _, f := range failures {
				ekey, err := key.Parse(f.EKey)
				if err != nil {
					fmt.Printf("repair: %s: could not parse as an EKey, skipping: %v\n", f.EKey, err)
					continue
				}

				if err := inst.Residency.MarkNonResident(c.Context, ekey); err != nil {
					fmt.Printf("repair: %s: mark non-resident: %v\n", f.EKey, err)
					continue
				}

				fmt.Printf("repair: marked %s non-resident (decode error: %v)\n", f.EKey, f.Err)
				marked++
			}

			fmt.Printf("repair: %d key(s) marked non-resident\n", marked)

			return nil
		},
	}
}
