package ax25

import (
	"errors"
	"strconv"
	"testing"

	"github.com/danmuck/kissctl/internal/logging"
	"github.com/danmuck/kissctl/internal/testutil/testlog"
)

func TestEncodePlainCallsign(t *testing.T) {
	testlog.Start(t)

	addr, err := Encode("N0CALL")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	for i, c := range []byte("N0CALL") {
		if addr[i] != c<<1 {
			t.Fatalf("octet %d: got %#x want %#x", i, addr[i], c<<1)
		}
	}
	if addr[6] != 0x00 {
		t.Fatalf("ssid octet: got %#x want 0x00", addr[6])
	}
	logging.Logf("ax25/encode: N0CALL -> % x", addr[:])
}

func TestEncodeWithSSID(t *testing.T) {
	addr, err := Encode("N0CALL-5")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	plain := MustEncode("N0CALL")
	if string(addr[:CallsignLen]) != string(plain[:CallsignLen]) {
		t.Fatalf("callsign octets differ: % x vs % x", addr[:CallsignLen], plain[:CallsignLen])
	}
	ssid := 5
	want := byte(((ssid + '0') << 1) & 0x1E)
	if addr[6] != want {
		t.Fatalf("ssid octet: got %#x want %#x", addr[6], want)
	}
	if addr[6] != 0x0A {
		t.Fatalf("ssid octet: got %#x want 0x0a", addr[6])
	}
	if addr.SSID() != 5 {
		t.Fatalf("decoded ssid: got %d", addr.SSID())
	}
	if addr.String() != "N0CALL-5" {
		t.Fatalf("string: got %q", addr.String())
	}
}

func TestEncodeSSIDRange(t *testing.T) {
	for ssid := 0; ssid <= MaxSSID; ssid++ {
		addr, err := Encode("AB-" + strconv.Itoa(ssid))
		if err != nil {
			t.Fatalf("ssid %d: %v", ssid, err)
		}
		want := byte(((ssid + '0') << 1) & 0x1E)
		if addr[6] != want {
			t.Fatalf("ssid %d: got %#x want %#x", ssid, addr[6], want)
		}
		if addr.SSID() != ssid {
			t.Fatalf("ssid %d: decoded %d", ssid, addr.SSID())
		}
	}
}

func TestEncodeInvalidSSID(t *testing.T) {
	for _, name := range []string{"AB-16", "AB-abc", "AB-", "AB--1", "AB-5x", "AB-+5"} {
		if _, err := Encode(name); !errors.Is(err, ErrInvalidSSID) {
			t.Fatalf("%q: expected ErrInvalidSSID, got %v", name, err)
		}
	}
}

func TestEncodeInvalidCallsignChar(t *testing.T) {
	for _, name := range []string{"A*-1", "N0 CAL", "ÄB"} {
		if _, err := Encode(name); !errors.Is(err, ErrInvalidCallsignChar) {
			t.Fatalf("%q: expected ErrInvalidCallsignChar, got %v", name, err)
		}
	}
}

func TestEncodeLowercaseIsUppercased(t *testing.T) {
	lower, err := Encode("n0call-3")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if lower != MustEncode("N0CALL-3") {
		t.Fatalf("lowercase mismatch: % x", lower[:])
	}
}

func TestEncodePadsShortCallsign(t *testing.T) {
	addr, err := Encode("AB")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	for i := 2; i < CallsignLen; i++ {
		if addr[i] != ' '<<1 {
			t.Fatalf("octet %d: got %#x want padded space", i, addr[i])
		}
	}
	if addr.Callsign() != "AB" {
		t.Fatalf("callsign: got %q", addr.Callsign())
	}
}

func TestEncodeTruncatesLongCallsign(t *testing.T) {
	long, err := Encode("TOOLONGCALL")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	short, err := Encode("TOOLON")
	if err != nil {
		t.Fatalf("encode truncated form: %v", err)
	}
	if long != short {
		t.Fatalf("truncation mismatch: % x vs % x", long[:], short[:])
	}
	if long[6] != 0 {
		t.Fatalf("expected ssid 0, got %#x", long[6])
	}

	again, err := Encode(long.String())
	if err != nil || again != long {
		t.Fatalf("round trip failed: %v % x", err, again[:])
	}
}

func TestEncodeTruncatedCallsignKeepsSSID(t *testing.T) {
	addr, err := Encode("TOOLONGCALL-7")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if addr.String() != "TOOLON-7" {
		t.Fatalf("string: got %q", addr.String())
	}
}
