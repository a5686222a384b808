//go:build linux

package kiss

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danmuck/kissctl/internal/ax25"
	"github.com/danmuck/kissctl/internal/logging"
	"github.com/danmuck/kissctl/internal/netif"
	"github.com/danmuck/kissctl/internal/observability"
	"github.com/danmuck/kissctl/internal/tty"
)

// Request is one attach invocation. Speed 0 leaves the line speed unchanged.
type Request struct {
	Callsign       string
	Speed          int
	MTU            int
	Device         string
	AllowBroadcast bool
}

func (r Request) Validate() error {
	if strings.TrimSpace(r.Device) == "" {
		return fmt.Errorf("%w: device path required", ErrInvalidRequest)
	}
	if r.MTU <= 0 {
		return fmt.Errorf("%w: mtu must be positive, got %d", ErrInvalidRequest, r.MTU)
	}
	if r.Speed < 0 {
		return fmt.Errorf("%w: speed must not be negative, got %d", ErrInvalidRequest, r.Speed)
	}
	return nil
}

// Link is an operational KISS interface and the tty handle keeping it alive.
type Link struct {
	Device         string
	Interface      string
	Address        ax25.Address
	MTU            int
	AllowBroadcast bool
	States         []State

	binding *tty.Binding
}

// Close releases the tty handle. On a real serial device this also takes the
// interface down; on a pty slave the master keeps it.
func (l *Link) Close() error {
	if l == nil || l.binding == nil {
		return nil
	}
	err := l.binding.Close()
	l.binding = nil
	logging.Infof("kiss.Link.Close released device=%q iface=%s", l.Device, l.Interface)
	return err
}

// Orchestrator sequences the tty attacher and the interface configurator.
type Orchestrator struct {
	attacher     *tty.Attacher
	configurator *netif.Configurator
}

func New() *Orchestrator {
	return NewWith(tty.NewAttacher(), netif.NewConfigurator())
}

func NewWith(attacher *tty.Attacher, configurator *netif.Configurator) *Orchestrator {
	if attacher == nil {
		attacher = tty.NewAttacher()
	}
	if configurator == nil {
		configurator = netif.NewConfigurator()
	}
	return &Orchestrator{attacher: attacher, configurator: configurator}
}

// Sentinel -> last state reached when that sentinel is returned.
var configureFailedAfter = []struct {
	err   error
	state State
}{
	{netif.ErrControlSocket, StateInterfaceNamed},
	{netif.ErrHwAddr, StateInterfaceNamed},
	{netif.ErrInvalidConfig, StateInterfaceNamed},
	{netif.ErrEncapsulation, StateHwAddressSet},
	{netif.ErrMTU, StateEncapsulationSet},
	{netif.ErrFlagsRead, StateEncapsulationSet},
	{netif.ErrFlagsWrite, StateEncapsulationSet},
}

// Attach runs the full sequence. On error the tty has already been released.
func (o *Orchestrator) Attach(req Request) (*Link, error) {
	start := time.Now()
	link, err := o.attach(req)
	observability.RecordAttach(err == nil, time.Since(start))
	return link, err
}

func (o *Orchestrator) attach(req Request) (*Link, error) {
	m := newMachine(req.Device)

	if err := req.Validate(); err != nil {
		logging.Errf("kiss.Orchestrator.Attach step=validate device=%q err=%v", req.Device, err)
		return nil, m.fail(err)
	}
	addr, err := ax25.Encode(req.Callsign)
	if err != nil {
		logging.Errf("kiss.Orchestrator.Attach step=encode callsign=%q err=%v", req.Callsign, err)
		return nil, m.fail(err)
	}

	binding, err := o.attacher.Attach(req.Device, req.Speed)
	if err != nil {
		replayAttachFailure(m, req, err)
		return nil, m.fail(err)
	}
	m.advance(StateDeviceOpen)
	if req.Speed != 0 {
		m.advance(StateSpeedApplied)
	}
	m.advance(StateLineDisciplineSet)
	m.advance(StateInterfaceNamed)

	settings := netif.Settings{
		Interface:      binding.Interface,
		Address:        addr,
		MTU:            req.MTU,
		AllowBroadcast: req.AllowBroadcast,
	}
	if err := o.configurator.Configure(settings, binding.Port); err != nil {
		if cerr := binding.Close(); cerr != nil {
			logging.Warnf("kiss.Orchestrator.Attach release device=%q err=%v", req.Device, cerr)
		}
		for _, f := range configureFailedAfter {
			if errors.Is(err, f.err) {
				for _, s := range []State{StateHwAddressSet, StateEncapsulationSet} {
					if s <= f.state {
						m.advance(s)
					}
				}
				break
			}
		}
		return nil, m.fail(err)
	}
	m.advance(StateHwAddressSet)
	m.advance(StateEncapsulationSet)
	m.advance(StateUp)

	logging.Infof(
		"kiss.Orchestrator.Attach up device=%q iface=%s call=%s mtu=%d broadcast=%t",
		req.Device,
		binding.Interface,
		addr,
		req.MTU,
		req.AllowBroadcast,
	)
	return &Link{
		Device:         req.Device,
		Interface:      binding.Interface,
		Address:        addr,
		MTU:            req.MTU,
		AllowBroadcast: req.AllowBroadcast,
		States:         m.trail,
		binding:        binding,
	}, nil
}

// replayAttachFailure advances m to the last state the tty attacher reached.
func replayAttachFailure(m *machine, req Request, err error) {
	switch {
	case errors.Is(err, tty.ErrDeviceOpen):
	case errors.Is(err, tty.ErrUnsupportedSpeed), errors.Is(err, tty.ErrSpeedApply):
		m.advance(StateDeviceOpen)
	case errors.Is(err, tty.ErrLineDiscipline):
		m.advance(StateDeviceOpen)
		if req.Speed != 0 {
			m.advance(StateSpeedApplied)
		}
	case errors.Is(err, tty.ErrInterfaceName):
		m.advance(StateDeviceOpen)
		if req.Speed != 0 {
			m.advance(StateSpeedApplied)
		}
		m.advance(StateLineDisciplineSet)
	}
}

// Attach runs the sequence with the default kernel-backed components.
func Attach(req Request) (*Link, error) {
	return New().Attach(req)
}

// AttachKISS is the boolean entry point: true only when the interface is up.
// The tty handle is released on every path, success included, so it suits a
// pty slave whose master is held by the caller. A real serial device needs
// Attach and a Link held for the life of the interface.
func AttachKISS(callsign string, speed, mtu int, device string, allowBroadcast bool) bool {
	link, err := Attach(Request{
		Callsign:       callsign,
		Speed:          speed,
		MTU:            mtu,
		Device:         device,
		AllowBroadcast: allowBroadcast,
	})
	if err != nil {
		logging.Errf("kiss.AttachKISS device=%q err=%v", device, err)
		return false
	}
	if err := link.Close(); err != nil {
		logging.Warnf("kiss.AttachKISS release device=%q err=%v", device, err)
	}
	return true
}
