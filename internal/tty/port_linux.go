package tty

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// LineDisciplineAX25 is N_AX25 from <linux/tty.h> (mkiss).
const LineDisciplineAX25 = 5

// device is a Port backed by an open tty descriptor.
type device struct {
	path string
	fd   int
}

func openPort(path string) (Port, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}
	return &device{path: path, fd: fd}, nil
}

func (d *device) Path() string {
	return d.path
}

// SetSpeed applies token to both directions, same as cfsetispeed+cfsetospeed.
func (d *device) SetSpeed(token uint32) error {
	term, err := unix.IoctlGetTermios(d.fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("tcgetattr: %w", err)
	}
	term.Cflag &^= unix.CBAUD | unix.CIBAUD
	term.Cflag |= token
	term.Ispeed = token
	term.Ospeed = token
	if err := unix.IoctlSetTermios(d.fd, unix.TCSETS, term); err != nil {
		return fmt.Errorf("tcsetattr: %w", err)
	}
	return nil
}

func (d *device) SetLineDiscipline(disc int) error {
	if err := unix.IoctlSetPointerInt(d.fd, unix.TIOCSETD, disc); err != nil {
		return fmt.Errorf("TIOCSETD: %w", err)
	}
	return nil
}

func (d *device) InterfaceName() (string, error) {
	var buf [unix.IFNAMSIZ]byte
	_, _, errno := unix.Syscall(
		unix.SYS_IOCTL,
		uintptr(d.fd),
		uintptr(unix.SIOCGIFNAME),
		uintptr(unsafe.Pointer(&buf[0])),
	)
	if errno != 0 {
		return "", fmt.Errorf("SIOCGIFNAME: %w", errno)
	}
	return unix.ByteSliceToString(buf[:]), nil
}

func (d *device) SetEncapsulation(mode int) error {
	if err := unix.IoctlSetPointerInt(d.fd, unix.SIOCSIFENCAP, mode); err != nil {
		return fmt.Errorf("SIOCSIFENCAP: %w", err)
	}
	return nil
}

func (d *device) Close() error {
	if d.fd < 0 {
		return nil
	}
	err := unix.Close(d.fd)
	d.fd = -1
	return err
}
