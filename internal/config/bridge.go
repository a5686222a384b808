package config

import "fmt"

// BridgeFile is the fldigi bridge file. Every key is optional; unset keys keep
// the bridge defaults.
type BridgeFile struct {
	Callsign       string   `toml:"callsign"`
	FldigiAddr     string   `toml:"fldigi_addr"`
	MTU            int      `toml:"mtu"`
	Speed          int      `toml:"speed"`
	Broadcast      bool     `toml:"broadcast"`
	ConnectTimeout string   `toml:"connect_timeout"`
	StatusAddr     string   `toml:"status_addr"`
	CORSOrigins    []string `toml:"cors_origins"`
}

// CheckBridgeFile rejects unknown keys and malformed values without applying
// the file to anything.
func CheckBridgeFile(path string) error {
	var f BridgeFile
	if err := loadToml(path, &f); err != nil {
		return err
	}
	if f.MTU < 0 {
		return fmt.Errorf("%s: mtu must not be negative, got %d", path, f.MTU)
	}
	if f.Speed < 0 {
		return fmt.Errorf("%s: speed must not be negative, got %d", path, f.Speed)
	}
	return nil
}

// ValidateFile checks a file of the given kind.
func ValidateFile(kind, path string) error {
	switch kind {
	case KindKissattach:
		_, err := LoadFile(path)
		return err
	case KindFldigi:
		return CheckBridgeFile(path)
	default:
		return fmt.Errorf("unknown config kind: %s", kind)
	}
}
