package tty

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

const ptmxPath = "/dev/ptmx"

// OpenPTY opens a pseudo-terminal master and returns it with the slave path.
// The slave's line discipline survives closing slave descriptors for as long
// as the master stays open.
func OpenPTY() (*os.File, string, error) {
	master, err := os.OpenFile(ptmxPath, os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", ptmxPath, err)
	}

	conn, err := master.SyscallConn()
	if err != nil {
		master.Close()
		return nil, "", err
	}

	var n uint32
	var ioctlErr error
	err = conn.Control(func(fd uintptr) {
		// grantpt is a no-op on devpts; unlockpt is TIOCSPTLCK(0).
		if ioctlErr = unix.IoctlSetPointerInt(int(fd), unix.TIOCSPTLCK, 0); ioctlErr != nil {
			ioctlErr = fmt.Errorf("unlockpt: %w", ioctlErr)
			return
		}
		if n, ioctlErr = unix.IoctlGetUint32(int(fd), unix.TIOCGPTN); ioctlErr != nil {
			ioctlErr = fmt.Errorf("ptsname: %w", ioctlErr)
		}
	})
	if err == nil {
		err = ioctlErr
	}
	if err != nil {
		master.Close()
		return nil, "", err
	}

	return master, "/dev/pts/" + strconv.FormatUint(uint64(n), 10), nil
}
