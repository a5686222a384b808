//go:build linux

package tty

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

var ErrUnsupportedSpeed = errors.New("tty: unsupported speed")

type speedEntry struct {
	rate  int
	token uint32
}

// One entry per rate; first match wins.
var speedTable = [...]speedEntry{
	{300, unix.B300},
	{600, unix.B600},
	{1200, unix.B1200},
	{2400, unix.B2400},
	{4800, unix.B4800},
	{9600, unix.B9600},
	{19200, unix.B19200},
	{38400, unix.B38400},
	{57600, unix.B57600},
	{115200, unix.B115200},
	{230400, unix.B230400},
	{460800, unix.B460800},
}

// Resolve maps a bit rate to its termios speed token.
// Rate 0 ("leave speed alone") is the caller's concern and is rejected here.
func Resolve(rate int) (uint32, error) {
	for _, s := range speedTable {
		if s.rate == rate {
			return s.token, nil
		}
	}
	return 0, fmt.Errorf("%w: %d", ErrUnsupportedSpeed, rate)
}

// Speeds lists the supported bit rates in table order.
func Speeds() []int {
	out := make([]int, 0, len(speedTable))
	for _, s := range speedTable {
		out = append(out, s.rate)
	}
	return out
}
