//go:build linux

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/kissctl/internal/kiss"
	"github.com/danmuck/kissctl/internal/logging"
	"github.com/danmuck/kissctl/internal/tools"
)

func main() {
	logging.ConfigureRuntime()
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "kissattach: %v\n", err)
		return 1
	}

	if opts.loadModule {
		if err := kiss.LoadModule(tools.ExecRunner{}, kiss.ModuleMKISS); err != nil {
			logging.Warnf("kissattach module preload failed module=%s err=%v", kiss.ModuleMKISS, err)
		}
	}

	link, err := kiss.Attach(opts.request)
	if err != nil {
		fmt.Fprintf(stderr, "kissattach: %v\n", err)
		return 1
	}
	defer link.Close()

	fmt.Fprintf(stderr, "AX.25 port %s bound to device %s as %s\n", link.Interface, link.Device, link.Address)

	// Closing the tty descriptor takes the interface down, so stay resident.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logging.Infof("kissattach shutdown iface=%s device=%s", link.Interface, link.Device)
	return 0
}
