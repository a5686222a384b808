package ax25

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// AddrLen is the size of one AX.25 address field.
	AddrLen = 7
	// CallsignLen is the number of callsign octets in an address field.
	CallsignLen = 6
	// MaxSSID is the largest secondary station identifier.
	MaxSSID = 15
)

var (
	ErrInvalidCallsignChar = errors.New("ax25: invalid symbol in callsign")
	ErrInvalidSSID         = errors.New("ax25: SSID must follow '-' and be numeric in the range 0-15")
)

// Address is one encoded AX.25 address field.
type Address [AddrLen]byte

// Encode packs name (CALL or CALL-SSID) into an address field.
// Callsign characters past the sixth are dropped.
func Encode(name string) (Address, error) {
	var addr Address

	call, ssidText, hasSSID := strings.Cut(name, "-")

	ct := 0
	for ; ct < CallsignLen && ct < len(call); ct++ {
		c := upper(call[ct])
		if !isAlnum(c) {
			return Address{}, fmt.Errorf("%w: %q", ErrInvalidCallsignChar, name)
		}
		addr[ct] = c << 1
	}
	for ; ct < CallsignLen; ct++ {
		addr[ct] = ' ' << 1
	}

	ssid := 0
	if hasSSID {
		v, err := strconv.Atoi(ssidText)
		if err != nil || ssidText[0] < '0' || ssidText[0] > '9' || v > MaxSSID {
			return Address{}, fmt.Errorf("%w: %q", ErrInvalidSSID, name)
		}
		ssid = v
	}

	addr[CallsignLen] = byte(((ssid + '0') << 1) & 0x1E)
	return addr, nil
}

// MustEncode is Encode for constant callsigns; it panics on error.
func MustEncode(name string) Address {
	addr, err := Encode(name)
	if err != nil {
		panic(err)
	}
	return addr
}

// Callsign returns the unshifted callsign with padding removed.
func (a Address) Callsign() string {
	var b strings.Builder
	for _, c := range a[:CallsignLen] {
		b.WriteByte(c >> 1)
	}
	return strings.TrimRight(b.String(), " ")
}

// SSID returns the secondary station identifier.
func (a Address) SSID() int {
	return int(a[CallsignLen]>>1) & 0x0F
}

func (a Address) String() string {
	if ssid := a.SSID(); ssid != 0 {
		return a.Callsign() + "-" + strconv.Itoa(ssid)
	}
	return a.Callsign()
}

// Bytes returns a copy of the raw address octets.
func (a Address) Bytes() []byte {
	out := make([]byte, AddrLen)
	copy(out, a[:])
	return out
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

func isAlnum(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
