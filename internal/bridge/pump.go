package bridge

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/danmuck/kissctl/internal/logging"
	"github.com/danmuck/kissctl/internal/observability"
)

const (
	readBufferLen = 1024

	DirectionToModem = "to_modem"
	DirectionToPTY   = "to_pty"
)

// Stats is a snapshot of bridge traffic.
type Stats struct {
	Started       time.Time
	BytesToModem  uint64
	BytesToPTY    uint64
	FramesToModem uint64
	FramesToPTY   uint64
}

type direction struct {
	name   string
	bytes  atomic.Uint64
	frames atomic.Uint64
}

// Pump copies bytes both ways between a pty master and a modem connection.
type Pump struct {
	pty   io.ReadWriteCloser
	modem io.ReadWriteCloser

	started time.Time
	toModem direction
	toPTY   direction
}

func NewPump(pty, modem io.ReadWriteCloser) *Pump {
	p := &Pump{pty: pty, modem: modem, started: time.Now()}
	p.toModem.name = DirectionToModem
	p.toPTY.name = DirectionToPTY
	return p
}

func (p *Pump) Stats() Stats {
	return Stats{
		Started:       p.started,
		BytesToModem:  p.toModem.bytes.Load(),
		BytesToPTY:    p.toPTY.bytes.Load(),
		FramesToModem: p.toModem.frames.Load(),
		FramesToPTY:   p.toPTY.frames.Load(),
	}
}

// Run blocks until either side ends or ctx is done. Both ends are closed on return.
// A clean modem disconnect returns nil.
func (p *Pump) Run(ctx context.Context) error {
	errs := make(chan error, 2)
	go func() { errs <- p.copy(p.modem, p.pty, &p.toModem) }()
	go func() { errs <- p.copy(p.pty, p.modem, &p.toPTY) }()

	pending := 2
	var first error
	select {
	case <-ctx.Done():
	case first = <-errs:
		pending--
	}

	// Closing both ends unblocks the remaining reader.
	p.modem.Close()
	p.pty.Close()
	for ; pending > 0; pending-- {
		<-errs
	}

	if isClosedErr(first) {
		first = nil
	}
	stats := p.Stats()
	logging.Infof(
		"bridge.Pump.Run stopped to_modem=%d/%d to_pty=%d/%d err=%v",
		stats.BytesToModem,
		stats.FramesToModem,
		stats.BytesToPTY,
		stats.FramesToPTY,
		first,
	)
	return first
}

func (p *Pump) copy(dst io.Writer, src io.Reader, d *direction) error {
	buf := make([]byte, readBufferLen)
	var frames frameCounter
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return werr
			}
			d.bytes.Add(uint64(n))
			observability.RecordBridgeBytes(d.name, n)
			if f := frames.scan(buf[:n]); f > 0 {
				d.frames.Add(uint64(f))
				observability.RecordBridgeFrames(d.name, f)
			}
		}
		if rerr != nil {
			if rerr == io.EOF {
				logging.Debugf("bridge.Pump.copy direction=%s eof", d.name)
				return nil
			}
			return rerr
		}
	}
}

func isClosedErr(err error) bool {
	return err == nil ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, os.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe)
}
