//go:build linux

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/kissctl/internal/config"
	"github.com/danmuck/kissctl/internal/kiss"
	"github.com/danmuck/kissctl/internal/testutil/testlog"
)

func TestParseOptionsPositional(t *testing.T) {
	testlog.Start(t)

	var stderr bytes.Buffer
	opts, err := parseOptions([]string{"-s", "9600", "-m", "128", "-nobroadcast", "/dev/ttyUSB0", "N0CALL-3"}, &stderr)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := kiss.Request{Device: "/dev/ttyUSB0", Callsign: "N0CALL-3", Speed: 9600, MTU: 128}
	if opts.request != want {
		t.Fatalf("unexpected request: %+v", opts.request)
	}
	if opts.loadModule {
		t.Fatalf("module preload should be off by default")
	}
}

func TestParseOptionsDefaults(t *testing.T) {
	opts, err := parseOptions([]string{"-load-module", "/dev/ttyS0", "N0CALL"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if opts.request.MTU != config.DefaultMTU || opts.request.Speed != 0 || !opts.request.AllowBroadcast {
		t.Fatalf("unexpected defaults: %+v", opts.request)
	}
	if !opts.loadModule {
		t.Fatalf("expected module preload")
	}
}

func TestParseOptionsProfileWithOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tnc.toml")
	body := `
[[tnc]]
name = "vhf"
device = "/dev/ttyUSB0"
callsign = "N0CALL-1"
speed = 9600

[[tnc]]
name = "hf"
device = "/dev/ttyS0"
callsign = "N0CALL-2"
speed = 1200
broadcast = false
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	opts, err := parseOptions([]string{"-config", path, "-profile", "hf", "-m", "64"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := kiss.Request{Device: "/dev/ttyS0", Callsign: "N0CALL-2", Speed: 1200, MTU: 64}
	if opts.request != want {
		t.Fatalf("unexpected request: %+v", opts.request)
	}

	opts, err = parseOptions([]string{"-config", path}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parse default profile: %v", err)
	}
	if opts.request.Device != "/dev/ttyUSB0" || !opts.request.AllowBroadcast {
		t.Fatalf("unexpected default profile request: %+v", opts.request)
	}

	if _, err := parseOptions([]string{"-config", path, "-profile", "uhf"}, &bytes.Buffer{}); !errors.Is(err, config.ErrNoProfile) {
		t.Fatalf("expected ErrNoProfile, got %v", err)
	}
}

func TestParseOptionsRejects(t *testing.T) {
	cases := [][]string{
		{},
		{"/dev/ttyS0"},
		{"/dev/ttyS0", "N0CALL", "extra"},
		{"-profile", "hf", "/dev/ttyS0", "N0CALL"},
		{"-m", "0", "/dev/ttyS0", "N0CALL"},
		{"-s", "-1", "/dev/ttyS0", "N0CALL"},
		{"-bogus"},
	}
	for _, args := range cases {
		var stderr bytes.Buffer
		if _, err := parseOptions(args, &stderr); err == nil {
			t.Fatalf("%v: expected error", args)
		}
	}

	var stderr bytes.Buffer
	parseOptions(nil, &stderr)
	if !strings.Contains(stderr.String(), "usage: kissattach") {
		t.Fatalf("usage not printed: %q", stderr.String())
	}
}

func TestRunFailsOnMissingDevice(t *testing.T) {
	var stderr bytes.Buffer
	if code := run([]string{"/dev/kissctl-does-not-exist", "N0CALL"}, &stderr); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "kissattach:") {
		t.Fatalf("failure not reported: %q", stderr.String())
	}
}
