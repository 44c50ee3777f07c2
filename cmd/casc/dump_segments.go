package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ngdp-go/casc/casc/localheader"
	"github.com/ngdp-go/casc/strings/format"
	"github.com/urfave/cli/v2"
)

func newDumpSegmentsCmd() *cli.Command {
	return &cli.Command{
		Name:      "dump-segments",
		Usage:     "List every 'data.NNN' archive segment in a directory, with its size",
		ArgsUsage: "<data-dir>",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("dump-segments: expected exactly one <data-dir> argument")
			}

			segments, err := listSegments(c.Args().First())
			if err != nil {
				return err
			}

			for _, s := range segments {
				info, err := os.Stat(s)
				if err != nil {
					return fmt.Errorf("dump-segments: stat %s: %w", s, err)
				}

				fmt.Printf("%s\t%d bytes (%s)\n", filepath.Base(s), info.Size(), format.Bytes(uint64(info.Size())))
			}

			return nil
		},
	}
}

func newDumpLocalHeadersCmd() *cli.Command {
	return &cli.Command{
		Name:      "dump-local-headers",
		Usage:     "Walk every local header record in a 'data.NNN' segment",
		ArgsUsage: "<segment-path>",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("dump-local-headers: expected exactly one <segment-path> argument")
			}

			data, err := os.ReadFile(c.Args().First())
			if err != nil {
				return fmt.Errorf("dump-local-headers: %w", err)
			}

			offset := 0

			for offset+localheader.Size <= len(data) {
				h, err := localheader.Parse(data[offset:])
				if err != nil {
					return fmt.Errorf("dump-local-headers: offset %d: %w", offset, err)
				}

				if h.Size < localheader.Size {
					break
				}

				fmt.Printf("offset=%d ekey=%s size=%d blte_size=%d flags=%04x\n",
					offset, h.EKey, h.Size, h.BLTESize(), h.Flags)

				offset += int(h.Size)
			}

			return nil
		},
	}
}

func listSegments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}

	var segments []string

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		name := e.Name()
		if len(name) != len("data.000") || name[:5] != "data." || strings.Trim(name[5:], "0123456789") != "" {
			continue
		}

		segments = append(segments, filepath.Join(dir, name))
	}

	sort.Strings(segments)

	return segments, nil
}
