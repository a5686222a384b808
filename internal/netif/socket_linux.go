package netif

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// ifreqHwaddr is struct ifreq with ifr_hwaddr in the union.
type ifreqHwaddr struct {
	Name   [unix.IFNAMSIZ]byte
	Family uint16
	Data   [14]byte
	_      [8]byte
}

type controlSocket struct {
	fd int
}

// OpenControlSocket opens the AF_INET datagram socket used for interface ioctls.
func OpenControlSocket() (Socket, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("socket: %w", err)
	}
	return &controlSocket{fd: fd}, nil
}

func (s *controlSocket) SetHardwareAddress(name string, family uint16, addr []byte) error {
	var req ifreqHwaddr
	if len(name) >= len(req.Name) {
		return fmt.Errorf("SIOCSIFHWADDR: %w", unix.EINVAL)
	}
	if len(addr) > len(req.Data) {
		return fmt.Errorf("SIOCSIFHWADDR: address too long: %d", len(addr))
	}
	copy(req.Name[:], name)
	req.Family = family
	copy(req.Data[:], addr)

	_, _, errno := unix.Syscall(
		unix.SYS_IOCTL,
		uintptr(s.fd),
		uintptr(unix.SIOCSIFHWADDR),
		uintptr(unsafe.Pointer(&req)),
	)
	if errno != 0 {
		return fmt.Errorf("SIOCSIFHWADDR: %w", errno)
	}
	return nil
}

func (s *controlSocket) SetMTU(name string, mtu int) error {
	ifr, err := unix.NewIfreq(name)
	if err != nil {
		return fmt.Errorf("SIOCSIFMTU: %w", err)
	}
	ifr.SetUint32(uint32(mtu))
	if err := unix.IoctlIfreq(s.fd, unix.SIOCSIFMTU, ifr); err != nil {
		return fmt.Errorf("SIOCSIFMTU: %w", err)
	}
	return nil
}

func (s *controlSocket) Flags(name string) (uint16, error) {
	ifr, err := unix.NewIfreq(name)
	if err != nil {
		return 0, fmt.Errorf("SIOCGIFFLAGS: %w", err)
	}
	if err := unix.IoctlIfreq(s.fd, unix.SIOCGIFFLAGS, ifr); err != nil {
		return 0, fmt.Errorf("SIOCGIFFLAGS: %w", err)
	}
	return ifr.Uint16(), nil
}

func (s *controlSocket) SetFlags(name string, flags uint16) error {
	ifr, err := unix.NewIfreq(name)
	if err != nil {
		return fmt.Errorf("SIOCSIFFLAGS: %w", err)
	}
	ifr.SetUint16(flags)
	if err := unix.IoctlIfreq(s.fd, unix.SIOCSIFFLAGS, ifr); err != nil {
		return fmt.Errorf("SIOCSIFFLAGS: %w", err)
	}
	return nil
}

func (s *controlSocket) Close() error {
	if s.fd < 0 {
		return nil
	}
	err := unix.Close(s.fd)
	s.fd = -1
	return err
}
