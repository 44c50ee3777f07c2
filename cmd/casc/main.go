// Command casc is a diagnostic and maintenance CLI over a local CASC installation: inspecting '.idx'/'.index'
// files, walking archive segments and local headers, extracting content by encoding key, and running the
// verify/repair passes an installation flagged needs_repair calls for.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, syscall.SIGTERM, syscall.SIGINT)

		select {
		case <-interrupt:
			fmt.Fprintln(os.Stderr, "received interrupt signal")
			cancel()
		case <-ctx.Done():
		}

		signal.Stop(interrupt)
	}()

	app := &cli.App{
		Name:        "casc",
		Description: "Inspect and repair a local CASC installation",
		Commands: []*cli.Command{
			newDumpIndexCmd(),
			newDumpLocalHeadersCmd(),
			newDumpSegmentsCmd(),
			newDumpShmemCmd(),
			newExtractCmd(),
			newVerifyCmd(),
			newRepairCmd(),
		},
	}

	sort.Sort(cli.CommandsByName(app.Commands))

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
