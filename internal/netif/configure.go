//go:build linux

package netif

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danmuck/kissctl/internal/ax25"
	"github.com/danmuck/kissctl/internal/logging"
	"golang.org/x/sys/unix"
)

// EncapAX25 is the mkiss encapsulation mode passed with SIOCSIFENCAP.
const EncapAX25 = 4

var (
	ErrControlSocket = errors.New("netif: control socket unavailable")
	ErrHwAddr        = errors.New("netif: set hardware address failed")
	ErrEncapsulation = errors.New("netif: set encapsulation failed")
	ErrMTU           = errors.New("netif: set mtu failed")
	ErrFlagsRead     = errors.New("netif: read flags failed")
	ErrFlagsWrite    = errors.New("netif: write flags failed")
	ErrInvalidConfig = errors.New("netif: invalid settings")
)

// Socket issues interface ioctls. It is owned by one Configure call.
type Socket interface {
	SetHardwareAddress(name string, family uint16, addr []byte) error
	SetMTU(name string, mtu int) error
	Flags(name string) (uint16, error)
	SetFlags(name string, flags uint16) error
	Close() error
}

// Encapsulator is the tty side of the interface; mkiss takes SIOCSIFENCAP on the tty.
type Encapsulator interface {
	SetEncapsulation(mode int) error
}

// Settings is the desired interface state.
type Settings struct {
	Interface      string
	Address        ax25.Address
	MTU            int
	AllowBroadcast bool
}

type Configurator struct {
	open func() (Socket, error)
}

func NewConfigurator() *Configurator {
	return NewConfiguratorWithSocket(OpenControlSocket)
}

func NewConfiguratorWithSocket(open func() (Socket, error)) *Configurator {
	if open == nil {
		open = OpenControlSocket
	}
	return &Configurator{open: open}
}

// NextFlags computes the flags written back to the interface:
// ARP off, UP and RUNNING on, BROADCAST following allowBroadcast.
func NextFlags(cur uint16, allowBroadcast bool) uint16 {
	next := cur | unix.IFF_NOARP | unix.IFF_UP | unix.IFF_RUNNING
	if allowBroadcast {
		next |= unix.IFF_BROADCAST
	} else {
		next &^= unix.IFF_BROADCAST
	}
	return next
}

func validate(s Settings) error {
	name := strings.TrimSpace(s.Interface)
	if name == "" {
		return fmt.Errorf("%w: empty interface name", ErrInvalidConfig)
	}
	if len(name) >= unix.IFNAMSIZ {
		return fmt.Errorf("%w: interface name %q too long", ErrInvalidConfig, name)
	}
	if s.MTU <= 0 {
		return fmt.Errorf("%w: mtu %d", ErrInvalidConfig, s.MTU)
	}
	return nil
}

// Configure applies s in order: hardware address, encapsulation, MTU, flags.
func (c *Configurator) Configure(s Settings, encap Encapsulator) error {
	if err := validate(s); err != nil {
		return err
	}
	if encap == nil {
		return fmt.Errorf("%w: nil encapsulator", ErrInvalidConfig)
	}

	sock, err := c.open()
	if err != nil {
		logging.Errf("netif.Configurator.Configure step=socket iface=%s err=%v", s.Interface, err)
		return fmt.Errorf("%w: %w", ErrControlSocket, err)
	}
	defer func() {
		if cerr := sock.Close(); cerr != nil {
			logging.Warnf("netif.Configurator.Configure socket close iface=%s err=%v", s.Interface, cerr)
		}
	}()

	if err := sock.SetHardwareAddress(s.Interface, unix.ARPHRD_AX25, s.Address[:]); err != nil {
		logging.Errf("netif.Configurator.Configure step=hwaddr iface=%s call=%s err=%v", s.Interface, s.Address, err)
		return fmt.Errorf("%w: %s: %w", ErrHwAddr, s.Interface, err)
	}

	if err := encap.SetEncapsulation(EncapAX25); err != nil {
		logging.Errf("netif.Configurator.Configure step=encapsulation iface=%s err=%v", s.Interface, err)
		return fmt.Errorf("%w: %s: %w", ErrEncapsulation, s.Interface, err)
	}

	if err := sock.SetMTU(s.Interface, s.MTU); err != nil {
		logging.Errf("netif.Configurator.Configure step=mtu iface=%s mtu=%d err=%v", s.Interface, s.MTU, err)
		return fmt.Errorf("%w: %s: %w", ErrMTU, s.Interface, err)
	}

	flags, err := sock.Flags(s.Interface)
	if err != nil {
		logging.Errf("netif.Configurator.Configure step=flags_read iface=%s err=%v", s.Interface, err)
		return fmt.Errorf("%w: %s: %w", ErrFlagsRead, s.Interface, err)
	}

	next := NextFlags(flags, s.AllowBroadcast)
	if err := sock.SetFlags(s.Interface, next); err != nil {
		logging.Errf("netif.Configurator.Configure step=flags_write iface=%s flags=%#x err=%v", s.Interface, next, err)
		return fmt.Errorf("%w: %s: %w", ErrFlagsWrite, s.Interface, err)
	}

	logging.Infof(
		"netif.Configurator.Configure up iface=%s call=%s mtu=%d broadcast=%t flags=%#x",
		s.Interface,
		s.Address,
		s.MTU,
		s.AllowBroadcast,
		next,
	)
	return nil
}
