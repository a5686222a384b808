package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/danmuck/kissctl/internal/ax25"
	"github.com/danmuck/kissctl/internal/kiss"
	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultMTU = 256

	KindKissattach = "kissattach"
	KindFldigi     = "fldigi"
)

var (
	ErrInvalidProfile = errors.New("config: invalid tnc profile")
	ErrNoProfile      = errors.New("config: profile not found")
)

// File is a set of TNC profiles:
//
//	[[tnc]]
//	name = "vhf"
//	device = "/dev/ttyUSB0"
//	callsign = "N0CALL-1"
type File struct {
	TNC []Profile `toml:"tnc"`
}

// Profile is one attachable TNC. Broadcast is a pointer so an absent key keeps
// the default of true.
type Profile struct {
	Name      string `toml:"name"`
	Device    string `toml:"device"`
	Callsign  string `toml:"callsign"`
	Speed     int    `toml:"speed"`
	MTU       int    `toml:"mtu"`
	Broadcast *bool  `toml:"broadcast"`
}

// AllowBroadcast reports the effective broadcast setting.
func (p Profile) AllowBroadcast() bool {
	return p.Broadcast == nil || *p.Broadcast
}

func (p Profile) Request() kiss.Request {
	return kiss.Request{
		Callsign:       p.Callsign,
		Speed:          p.Speed,
		MTU:            p.MTU,
		Device:         p.Device,
		AllowBroadcast: p.AllowBroadcast(),
	}
}

func LoadFile(path string) (File, error) {
	var f File
	if err := loadToml(path, &f); err != nil {
		return File{}, err
	}
	if len(f.TNC) == 0 {
		return File{}, fmt.Errorf("%w: %s defines no [[tnc]] entries", ErrInvalidProfile, path)
	}
	seen := make(map[string]bool, len(f.TNC))
	for i := range f.TNC {
		applyDefaults(&f.TNC[i])
		if err := ValidateProfile(f.TNC[i]); err != nil {
			return File{}, fmt.Errorf("tnc[%d]: %w", i, err)
		}
		name := f.TNC[i].Name
		if name != "" && seen[name] {
			return File{}, fmt.Errorf("%w: duplicate name %q", ErrInvalidProfile, name)
		}
		seen[name] = true
	}
	return f, nil
}

// Profile returns the named profile. An empty name selects the first one.
func (f File) Profile(name string) (Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		if len(f.TNC) == 0 {
			return Profile{}, ErrNoProfile
		}
		return f.TNC[0], nil
	}
	for _, p := range f.TNC {
		if p.Name == name {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %q", ErrNoProfile, name)
}

func applyDefaults(p *Profile) {
	p.Name = strings.TrimSpace(p.Name)
	p.Device = strings.TrimSpace(p.Device)
	p.Callsign = strings.TrimSpace(p.Callsign)
	if p.MTU == 0 {
		p.MTU = DefaultMTU
	}
}

func ValidateProfile(p Profile) error {
	if p.Device == "" {
		return fmt.Errorf("%w: device is required", ErrInvalidProfile)
	}
	if p.Callsign == "" {
		return fmt.Errorf("%w: callsign is required", ErrInvalidProfile)
	}
	if _, err := ax25.Encode(p.Callsign); err != nil {
		return fmt.Errorf("%w: callsign %q: %w", ErrInvalidProfile, p.Callsign, err)
	}
	if p.MTU <= 0 {
		return fmt.Errorf("%w: mtu must be positive, got %d", ErrInvalidProfile, p.MTU)
	}
	if p.Speed < 0 {
		return fmt.Errorf("%w: speed must not be negative, got %d", ErrInvalidProfile, p.Speed)
	}
	return nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := decodeStrict(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func decodeStrict(data []byte, out any) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}
