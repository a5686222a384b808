//go:build linux

package tty

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/danmuck/kissctl/internal/testutil/testlog"
	"golang.org/x/sys/unix"
)

type fakePort struct {
	path       string
	speedErr   error
	discErr    error
	nameErr    error
	name       string
	speed      uint32
	disc       int
	calls      []string
	closeCount int
}

func (p *fakePort) Path() string { return p.path }

func (p *fakePort) SetSpeed(token uint32) error {
	p.calls = append(p.calls, "speed")
	p.speed = token
	return p.speedErr
}

func (p *fakePort) SetLineDiscipline(disc int) error {
	p.calls = append(p.calls, "ldisc")
	p.disc = disc
	return p.discErr
}

func (p *fakePort) InterfaceName() (string, error) {
	p.calls = append(p.calls, "name")
	return p.name, p.nameErr
}

func (p *fakePort) SetEncapsulation(int) error {
	p.calls = append(p.calls, "encap")
	return nil
}

func (p *fakePort) Close() error {
	p.closeCount++
	return nil
}

func attacherFor(p *fakePort) *Attacher {
	return NewAttacherWithOpener(func(path string) (Port, error) {
		p.path = path
		return p, nil
	})
}

func TestAttachHappyPath(t *testing.T) {
	testlog.Start(t)

	p := &fakePort{name: "ax0"}
	b, err := attacherFor(p).Attach("/dev/ttyUSB0", 9600)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if b.Interface != "ax0" || b.Device != "/dev/ttyUSB0" {
		t.Fatalf("unexpected binding: %+v", b)
	}
	if p.speed != unix.B9600 {
		t.Fatalf("unexpected speed token: %#x", p.speed)
	}
	if p.disc != LineDisciplineAX25 {
		t.Fatalf("unexpected line discipline: %d", p.disc)
	}
	if strings.Join(p.calls, ",") != "speed,ldisc,name" {
		t.Fatalf("unexpected call order: %v", p.calls)
	}
	if p.closeCount != 0 {
		t.Fatalf("port closed on success path")
	}
	if err := b.Close(); err != nil || p.closeCount != 1 {
		t.Fatalf("binding close: err=%v count=%d", err, p.closeCount)
	}
	if err := b.Close(); err != nil || p.closeCount != 1 {
		t.Fatalf("second close must be a no-op: err=%v count=%d", err, p.closeCount)
	}
}

func TestAttachZeroSpeedLeavesSpeedAlone(t *testing.T) {
	p := &fakePort{name: "ax1"}
	if _, err := attacherFor(p).Attach("/dev/pts/3", 0); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if strings.Join(p.calls, ",") != "ldisc,name" {
		t.Fatalf("unexpected call order: %v", p.calls)
	}
}

func TestAttachOpenFailure(t *testing.T) {
	a := NewAttacherWithOpener(func(path string) (Port, error) {
		return nil, &os.PathError{Op: "open", Path: path, Err: unix.ENOENT}
	})
	_, err := a.Attach("/dev/nope", 9600)
	if !errors.Is(err, ErrDeviceOpen) {
		t.Fatalf("expected ErrDeviceOpen, got %v", err)
	}
	if !errors.Is(err, unix.ENOENT) {
		t.Fatalf("expected underlying ENOENT, got %v", err)
	}
}

func TestAttachRealOpenMissingDevice(t *testing.T) {
	_, err := NewAttacher().Attach("/dev/kissctl-does-not-exist", 0)
	if !errors.Is(err, ErrDeviceOpen) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrDeviceOpen wrapping not-exist, got %v", err)
	}
}

func TestAttachUnsupportedSpeedReleasesPort(t *testing.T) {
	p := &fakePort{name: "ax0"}
	_, err := attacherFor(p).Attach("/dev/ttyS0", 12345)
	if !errors.Is(err, ErrUnsupportedSpeed) {
		t.Fatalf("expected ErrUnsupportedSpeed, got %v", err)
	}
	if len(p.calls) != 0 {
		t.Fatalf("no ioctl expected after bad speed: %v", p.calls)
	}
	if p.closeCount != 1 {
		t.Fatalf("port not released: %d", p.closeCount)
	}
}

func TestAttachStepFailuresReleasePort(t *testing.T) {
	cases := []struct {
		name string
		port *fakePort
		want error
	}{
		{"speed", &fakePort{name: "ax0", speedErr: unix.EIO}, ErrSpeedApply},
		{"ldisc", &fakePort{name: "ax0", discErr: unix.EINVAL}, ErrLineDiscipline},
		{"name", &fakePort{nameErr: unix.ENOTTY}, ErrInterfaceName},
		{"empty-name", &fakePort{}, ErrInterfaceName},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := attacherFor(tc.port).Attach("/dev/ttyS0", 1200)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if tc.port.closeCount != 1 {
				t.Fatalf("port not released exactly once: %d", tc.port.closeCount)
			}
		})
	}
}

func TestAttachLineDisciplineHint(t *testing.T) {
	p := &fakePort{discErr: unix.EINVAL}
	_, err := attacherFor(p).Attach("/dev/ttyS0", 0)
	if err == nil || !strings.Contains(err.Error(), "MKISS") {
		t.Fatalf("expected kernel hint in error, got %v", err)
	}
}

func TestAttachNilPortIsOpenFailure(t *testing.T) {
	a := NewAttacherWithOpener(func(string) (Port, error) { return nil, nil })
	if _, err := a.Attach("/dev/ttyS0", 0); !errors.Is(err, ErrDeviceOpen) {
		t.Fatalf("expected ErrDeviceOpen, got %v", err)
	}
}
