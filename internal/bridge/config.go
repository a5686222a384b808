package bridge

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

var ErrInvalidConfig = errors.New("bridge: invalid config")

// Config describes one fldigi bridge.
type Config struct {
	Callsign       string
	ModemAddr      string
	MTU            int
	Speed          int
	AllowBroadcast bool
	ConnectTimeout time.Duration
	StatusAddr     string
	CORSOrigins    []string
}

func DefaultConfig() Config {
	return Config{
		ModemAddr:      "127.0.0.1:7342",
		MTU:            120,
		Speed:          9600,
		AllowBroadcast: true,
		ConnectTimeout: 5 * time.Second,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Callsign) == "" {
		return fmt.Errorf("%w: callsign required", ErrInvalidConfig)
	}
	if _, _, err := net.SplitHostPort(c.ModemAddr); err != nil {
		return fmt.Errorf("%w: modem address %q: %w", ErrInvalidConfig, c.ModemAddr, err)
	}
	if c.MTU <= 0 {
		return fmt.Errorf("%w: mtu must be positive, got %d", ErrInvalidConfig, c.MTU)
	}
	if c.Speed < 0 {
		return fmt.Errorf("%w: speed must not be negative, got %d", ErrInvalidConfig, c.Speed)
	}
	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("%w: connect timeout must be positive", ErrInvalidConfig)
	}
	return nil
}
