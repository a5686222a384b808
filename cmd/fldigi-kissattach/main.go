//go:build linux

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danmuck/kissctl/internal/bridge"
	"github.com/danmuck/kissctl/internal/logging"
)

func main() {
	logging.ConfigureRuntime()
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	cfg, err := parseArgs(args, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "fldigi-kissattach: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := bridge.NewService(cfg, bridge.Deps{})
	if err := svc.Run(ctx); err != nil {
		fmt.Fprintf(stderr, "fldigi-kissattach: %v\n", err)
		return 1
	}
	return 0
}

func usage(fs *flag.FlagSet, w io.Writer) func() {
	return func() {
		fmt.Fprintln(w, "usage: fldigi-kissattach [flags] CALLSIGN-SSID FLDIGI_IP:FLDIGI_PORT MTU")
		fmt.Fprintln(w, "example: fldigi-kissattach N0CALL-1 127.0.0.1:7342 120")
		fs.PrintDefaults()
	}
}

func parseArgs(args []string, stderr io.Writer) (bridge.Config, error) {
	fs := flag.NewFlagSet("fldigi-kissattach", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "bridge config file (TOML)")
	speed := fs.Int("s", 0, "pty line speed")
	noBroadcast := fs.Bool("nobroadcast", false, "clear IFF_BROADCAST on the interface")
	timeout := fs.Duration("connect-timeout", 0, "fldigi connect timeout")
	statusAddr := fs.String("status-addr", "", "serve /health, /status and /metrics on this address")
	fs.Usage = usage(fs, stderr)
	if err := fs.Parse(args); err != nil {
		return bridge.Config{}, err
	}

	cfg := bridge.DefaultConfig()
	if *configPath != "" {
		loaded, err := loadBridgeConfig(*configPath, cfg)
		if err != nil {
			return bridge.Config{}, err
		}
		cfg = loaded
	}

	switch {
	case fs.NArg() == 3:
		mtu, err := strconv.Atoi(fs.Arg(2))
		if err != nil {
			fs.Usage()
			return bridge.Config{}, fmt.Errorf("mtu %q: %w", fs.Arg(2), err)
		}
		cfg.Callsign = fs.Arg(0)
		cfg.ModemAddr = fs.Arg(1)
		cfg.MTU = mtu
	case fs.NArg() == 0 && *configPath != "":
	default:
		fs.Usage()
		return bridge.Config{}, errors.New("expected CALLSIGN-SSID FLDIGI_IP:FLDIGI_PORT MTU")
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "s":
			cfg.Speed = *speed
		case "nobroadcast":
			cfg.AllowBroadcast = !*noBroadcast
		case "connect-timeout":
			cfg.ConnectTimeout = *timeout
		case "status-addr":
			cfg.StatusAddr = *statusAddr
		}
	})

	if err := cfg.Validate(); err != nil {
		return bridge.Config{}, err
	}
	if cfg.ConnectTimeout > time.Minute {
		logging.Warnf("fldigi-kissattach connect_timeout=%s is unusually long", cfg.ConnectTimeout)
	}
	return cfg, nil
}
