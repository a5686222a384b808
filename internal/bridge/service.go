//go:build linux

package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danmuck/kissctl/internal/kiss"
	"github.com/danmuck/kissctl/internal/logging"
	"github.com/danmuck/kissctl/internal/server"
	"github.com/danmuck/kissctl/internal/tty"
)

var (
	ErrPTY    = errors.New("bridge: pty unavailable")
	ErrAttach = errors.New("bridge: attach failed")
	ErrDial   = errors.New("bridge: modem connect failed")
)

// Deps are the kernel and network edges of a Service.
type Deps struct {
	OpenPTY func() (io.ReadWriteCloser, string, error)
	Attach  func(kiss.Request) (*kiss.Link, error)
	Dial    func(ctx context.Context, network, addr string) (net.Conn, error)
	Serve   func(ctx context.Context, addr string, status server.StatusFunc, origins []string) error
}

func DefaultDeps() Deps {
	return Deps{
		OpenPTY: func() (io.ReadWriteCloser, string, error) {
			master, slave, err := tty.OpenPTY()
			if err != nil {
				return nil, "", err
			}
			return master, slave, nil
		},
		Attach: kiss.Attach,
		Serve: func(ctx context.Context, addr string, status server.StatusFunc, origins []string) error {
			return server.New("fldigi-kissattach", origins, status).Run(ctx, addr)
		},
	}
}

type Service struct {
	cfg  Config
	deps Deps

	device    atomic.Value
	iface     atomic.Value
	pump      atomic.Pointer[Pump]
	startedAt time.Time
}

func NewService(cfg Config, deps Deps) *Service {
	def := DefaultDeps()
	if deps.OpenPTY == nil {
		deps.OpenPTY = def.OpenPTY
	}
	if deps.Attach == nil {
		deps.Attach = def.Attach
	}
	if deps.Dial == nil {
		d := &net.Dialer{Timeout: cfg.ConnectTimeout}
		deps.Dial = d.DialContext
	}
	if deps.Serve == nil {
		deps.Serve = def.Serve
	}
	s := &Service{cfg: cfg, deps: deps, startedAt: time.Now()}
	s.device.Store("")
	s.iface.Store("")
	return s
}

// Status snapshots the bridge for the status server.
func (s *Service) Status() server.Status {
	st := server.Status{
		Callsign:  s.cfg.Callsign,
		Device:    s.device.Load().(string),
		Interface: s.iface.Load().(string),
		ModemAddr: s.cfg.ModemAddr,
		MTU:       s.cfg.MTU,
		Broadcast: s.cfg.AllowBroadcast,
		Uptime:    time.Since(s.startedAt),
	}
	if p := s.pump.Load(); p != nil {
		stats := p.Stats()
		st.BytesToModem = stats.BytesToModem
		st.BytesToPTY = stats.BytesToPTY
		st.FramesToModem = stats.FramesToModem
		st.FramesToPTY = stats.FramesToPTY
	}
	return st
}

// Run attaches the pty slave, connects to the modem and pumps until either
// side ends or ctx is done.
func (s *Service) Run(ctx context.Context) error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	master, slave, err := s.deps.OpenPTY()
	if err != nil {
		logging.Errf("bridge.Service.Run step=pty err=%v", err)
		return fmt.Errorf("%w: %w", ErrPTY, err)
	}
	s.device.Store(slave)

	link, err := s.deps.Attach(kiss.Request{
		Callsign:       s.cfg.Callsign,
		Speed:          s.cfg.Speed,
		MTU:            s.cfg.MTU,
		Device:         slave,
		AllowBroadcast: s.cfg.AllowBroadcast,
	})
	if err != nil {
		master.Close()
		logging.Errf("bridge.Service.Run step=attach device=%s err=%v", slave, err)
		return fmt.Errorf("%w: %w", ErrAttach, err)
	}
	s.iface.Store(link.Interface)
	// Holding the slave open keeps master reads from failing with EIO.
	defer func() {
		if err := link.Close(); err != nil {
			logging.Warnf("bridge.Service.Run release device=%s err=%v", slave, err)
		}
	}()

	dialCtx, cancelDial := context.WithTimeout(ctx, s.cfg.ConnectTimeout)
	conn, err := s.deps.Dial(dialCtx, "tcp", s.cfg.ModemAddr)
	cancelDial()
	if err != nil {
		master.Close()
		logging.Errf("bridge.Service.Run step=dial addr=%s err=%v", s.cfg.ModemAddr, err)
		return fmt.Errorf("%w: %s: %w", ErrDial, s.cfg.ModemAddr, err)
	}
	logging.Infof(
		"bridge.Service.Run connected iface=%s device=%s modem=%s",
		link.Interface,
		slave,
		s.cfg.ModemAddr,
	)

	pump := NewPump(master, conn)
	s.pump.Store(pump)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if s.cfg.StatusAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.deps.Serve(runCtx, s.cfg.StatusAddr, s.Status, s.cfg.CORSOrigins); err != nil {
				logging.Warnf("bridge.Service.Run status server addr=%s err=%v", s.cfg.StatusAddr, err)
			}
		}()
	}

	err = pump.Run(runCtx)
	cancel()
	wg.Wait()
	return err
}
