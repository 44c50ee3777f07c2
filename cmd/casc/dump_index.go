package main

import (
	"fmt"

	"github.com/ngdp-go/casc/casc/index"
	"github.com/urfave/cli/v2"
)

func newDumpIndexCmd() *cli.Command {
	return &cli.Command{
		Name:      "dump-index",
		Usage:     "Print every EKey -> archive location entry in an installation's '.idx' buckets",
		ArgsUsage: "<indices-dir>",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("dump-index: expected exactly one <indices-dir> argument")
			}

			mgr, err := index.Open(c.Args().First(), index.DefaultFieldWidths)
			if err != nil {
				return fmt.Errorf("dump-index: open index manager: %w", err)
			}

			for b := uint8(0); b < 16; b++ {
				bucket := mgr.Bucket(b)
				if bucket == nil {
					continue
				}

				for _, e := range bucket.Sorted() {
					fmt.Printf("bucket=%02x key=%s archive=%d offset=%d size=%d\n",
						b, e.Key, e.Location.ArchiveID, e.Location.Offset, e.Location.Size)
				}
			}

			return nil
		},
	}
}
