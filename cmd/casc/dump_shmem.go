package main

import (
	"fmt"
	"os"

	"github.com/ngdp-go/casc/casc/install"
	"github.com/urfave/cli/v2"
)

func newDumpShmemCmd() *cli.Command {
	return &cli.Command{
		Name:      "dump-shmem",
		Usage:     "Print a '*.shmem' process-coordination control block",
		ArgsUsage: "<shmem-path>",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("dump-shmem: expected exactly one <shmem-path> argument")
			}

			data, err := os.ReadFile(c.Args().First())
			if err != nil {
				return fmt.Errorf("dump-shmem: %w", err)
			}

			block, err := install.DecodeShmem(data)
			if err != nil {
				return fmt.Errorf("dump-shmem: %w", err)
			}

			fmt.Printf("version=%d initialized=%v data_size=%d\n", block.Version, block.Initialized, block.DataSize)

			for _, p := range block.Processes {
				fmt.Printf("  pid=%d mode=%d\n", p.PID, p.Mode)
			}

			return nil
		},
	}
}
