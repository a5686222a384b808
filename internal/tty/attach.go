//go:build linux

package tty

import (
	"errors"
	"fmt"

	"github.com/danmuck/kissctl/internal/logging"
)

var (
	ErrDeviceOpen      = errors.New("tty: device open failed")
	ErrSpeedApply      = errors.New("tty: speed apply failed")
	ErrLineDiscipline  = errors.New("tty: line discipline rejected")
	ErrInterfaceName   = errors.New("tty: interface name unavailable")
	errNilPortReturned = errors.New("tty: opener returned nil port")
)

// KernelHint is appended to line discipline failures.
const KernelHint = "are you sure you have enabled MKISS support in the kernel, " +
	"or, if you made it a module, that the module is loaded?"

// Port is one open serial device. Implementations are not safe for concurrent use.
type Port interface {
	Path() string
	SetSpeed(token uint32) error
	SetLineDiscipline(disc int) error
	InterfaceName() (string, error)
	SetEncapsulation(mode int) error
	Close() error
}

// Opener opens a device path as a Port.
type Opener func(path string) (Port, error)

// Binding is a tty switched to N_AX25 plus the interface the kernel created for it.
// The Binding owns Port until Close.
type Binding struct {
	Port      Port
	Device    string
	Interface string
}

func (b *Binding) Close() error {
	if b == nil || b.Port == nil {
		return nil
	}
	err := b.Port.Close()
	b.Port = nil
	return err
}

// Attacher runs the serial half of the attach sequence.
type Attacher struct {
	open Opener
}

func NewAttacher() *Attacher {
	return NewAttacherWithOpener(openPort)
}

func NewAttacherWithOpener(open Opener) *Attacher {
	if open == nil {
		open = openPort
	}
	return &Attacher{open: open}
}

// Attach opens path, applies speed (0 keeps the current speed), switches the
// line discipline to N_AX25 and reads back the interface name. The port is
// closed on every failure path.
func (a *Attacher) Attach(path string, speed int) (*Binding, error) {
	port, err := a.open(path)
	if err == nil && port == nil {
		err = errNilPortReturned
	}
	if err != nil {
		logging.Errf("tty.Attacher.Attach step=open device=%q err=%v", path, err)
		return nil, fmt.Errorf("%w: %w", ErrDeviceOpen, err)
	}

	attached := false
	defer func() {
		if !attached {
			if cerr := port.Close(); cerr != nil {
				logging.Warnf("tty.Attacher.Attach release device=%q err=%v", path, cerr)
			}
		}
	}()

	if speed != 0 {
		token, err := Resolve(speed)
		if err != nil {
			logging.Errf("tty.Attacher.Attach step=speed device=%q speed=%d err=%v", path, speed, err)
			return nil, err
		}
		if err := port.SetSpeed(token); err != nil {
			logging.Errf("tty.Attacher.Attach step=speed device=%q speed=%d err=%v", path, speed, err)
			return nil, fmt.Errorf("%w: %d: %w", ErrSpeedApply, speed, err)
		}
		logging.Debugf("tty.Attacher.Attach speed applied device=%q speed=%d", path, speed)
	}

	if err := port.SetLineDiscipline(LineDisciplineAX25); err != nil {
		logging.Errf("tty.Attacher.Attach step=line_discipline device=%q err=%v", path, err)
		logging.Errf("tty.Attacher.Attach hint: %s", KernelHint)
		return nil, fmt.Errorf("%w: %w (%s)", ErrLineDiscipline, err, KernelHint)
	}

	name, err := port.InterfaceName()
	if err == nil && name == "" {
		err = errors.New("empty interface name")
	}
	if err != nil {
		logging.Errf("tty.Attacher.Attach step=interface_name device=%q err=%v", path, err)
		return nil, fmt.Errorf("%w: %w", ErrInterfaceName, err)
	}

	attached = true
	logging.Infof("tty.Attacher.Attach ready device=%q iface=%s", path, name)
	return &Binding{Port: port, Device: path, Interface: name}, nil
}
