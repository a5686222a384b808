//go:build linux

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/danmuck/kissctl/internal/config"
	"github.com/danmuck/kissctl/internal/kiss"
	"github.com/danmuck/kissctl/internal/tty"
)

type options struct {
	request    kiss.Request
	loadModule bool
}

func parseOptions(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("kissattach", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "TNC profile file (TOML)")
	profile := fs.String("profile", "", "profile name in -config (default: first)")
	speed := fs.Int("s", 0, fmt.Sprintf("line speed, 0 keeps the current speed (one of %v)", tty.Speeds()))
	mtu := fs.Int("m", config.DefaultMTU, "interface MTU")
	noBroadcast := fs.Bool("nobroadcast", false, "clear IFF_BROADCAST on the interface")
	loadModule := fs.Bool("load-module", false, "run modprobe "+kiss.ModuleMKISS+" before attaching")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: kissattach [flags] DEVICE CALLSIGN\n")
		fmt.Fprintf(stderr, "       kissattach -config FILE [-profile NAME] [flags]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	var req kiss.Request
	switch {
	case *configPath != "":
		if fs.NArg() != 0 {
			fs.Usage()
			return options{}, errors.New("positional arguments are not allowed with -config")
		}
		file, err := config.LoadFile(*configPath)
		if err != nil {
			return options{}, err
		}
		p, err := file.Profile(*profile)
		if err != nil {
			return options{}, err
		}
		req = p.Request()
	case fs.NArg() == 2:
		if set["profile"] {
			return options{}, errors.New("-profile requires -config")
		}
		req = kiss.Request{
			Device:         fs.Arg(0),
			Callsign:       fs.Arg(1),
			MTU:            config.DefaultMTU,
			AllowBroadcast: true,
		}
	default:
		fs.Usage()
		return options{}, fmt.Errorf("expected DEVICE CALLSIGN, got %d arguments", fs.NArg())
	}

	if set["s"] {
		req.Speed = *speed
	}
	if set["m"] {
		req.MTU = *mtu
	}
	if set["nobroadcast"] {
		req.AllowBroadcast = !*noBroadcast
	}
	if err := req.Validate(); err != nil {
		return options{}, err
	}
	return options{request: req, loadModule: *loadModule}, nil
}
