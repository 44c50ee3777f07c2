package main

import (
	"fmt"
	"os"

	"github.com/ngdp-go/casc/casc/container"
	"github.com/ngdp-go/casc/casc/index"
	"github.com/ngdp-go/casc/casc/loose"
	"github.com/ngdp-go/casc/key"
	"github.com/ngdp-go/casc/resolver"
	"github.com/urfave/cli/v2"
)

func newExtractCmd() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "Decode one encoding key's BLTE stream and write the content to stdout or a file",
		ArgsUsage: "<ekey-hex>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "data-dir", Required: true, Usage: "directory containing 'data.NNN' segments"},
			&cli.StringFlag{Name: "index-dir", Required: true, Usage: "directory containing '.idx' buckets"},
			&cli.StringFlag{Name: "loose-dir", Usage: "optional loose-file directory probed when the archives miss"},
			&cli.StringFlag{Name: "out", Usage: "output file path (default: stdout)"},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("extract: expected exactly one <ekey-hex> argument")
			}

			ekey, err := key.Parse(c.Args().First())
			if err != nil {
				return fmt.Errorf("extract: %w", err)
			}

			dyn, err := container.OpenDynamic(c.String("data-dir"), c.String("index-dir"), 0, index.DefaultFieldWidths, container.ReadOnly)
			if err != nil {
				return fmt.Errorf("extract: open dynamic container: %w", err)
			}
			defer dyn.Close() //nolint:errcheck

			sources := []resolver.Source{dyn}

			if dir := c.String("loose-dir"); dir != "" {
				store, err := loose.Open(dir)
				if err != nil {
					return fmt.Errorf("extract: open loose store: %w", err)
				}

				sources = append(sources, &resolver.LooseSource{Store: store})
			}

			data, err := resolver.New(sources, resolver.Options{}).Read(c.Context, ekey)
			if err != nil {
				return fmt.Errorf("extract: %w", err)
			}

			out := os.Stdout

			if path := c.String("out"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("extract: create %s: %w", path, err)
				}
				defer f.Close() //nolint:errcheck

				out = f
			}

			if _, err := out.Write(data); err != nil {
				return fmt.Errorf("extract: write output: %w", err)
			}

			return nil
		},
	}
}
