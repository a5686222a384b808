//go:build linux

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/kissctl/internal/bridge"
	"github.com/danmuck/kissctl/internal/config"
)

func loadBridgeConfig(path string, cfg bridge.Config) (bridge.Config, error) {
	var raw config.BridgeFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return bridge.Config{}, fmt.Errorf("load bridge config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return bridge.Config{}, fmt.Errorf("load bridge config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("callsign") {
		cfg.Callsign = strings.TrimSpace(raw.Callsign)
	}

	if meta.IsDefined("fldigi_addr") {
		cfg.ModemAddr = strings.TrimSpace(raw.FldigiAddr)
	}

	if meta.IsDefined("mtu") {
		cfg.MTU = raw.MTU
	}

	if meta.IsDefined("speed") {
		cfg.Speed = raw.Speed
	}

	if meta.IsDefined("broadcast") {
		cfg.AllowBroadcast = raw.Broadcast
	}

	if meta.IsDefined("connect_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ConnectTimeout))
		if err != nil {
			return bridge.Config{}, fmt.Errorf("parse connect_timeout: %w", err)
		}
		cfg.ConnectTimeout = d
	}

	if meta.IsDefined("status_addr") {
		cfg.StatusAddr = strings.TrimSpace(raw.StatusAddr)
	}

	if meta.IsDefined("cors_origins") {
		cfg.CORSOrigins = normalizeOrigins(raw.CORSOrigins)
	}

	return cfg, nil
}

func normalizeOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, origin := range in {
		v := strings.TrimSpace(origin)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
