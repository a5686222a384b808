package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindKissattach:
		return kissattachTemplate, nil
	case KindFldigi:
		return fldigiTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const kissattachTemplate = `# One [[tnc]] per attachable TNC. kissattach -profile NAME picks one.
[[tnc]]
name = "vhf"
device = "/dev/ttyUSB0"
callsign = "N0CALL-1"
speed = 9600
mtu = 256
broadcast = true

[[tnc]]
name = "hf"
device = "/dev/ttyS0"
callsign = "N0CALL-2"
speed = 1200
mtu = 128
broadcast = false
`

const fldigiTemplate = `callsign = "N0CALL-5"
fldigi_addr = "127.0.0.1:7342"
mtu = 120
speed = 9600
broadcast = true
connect_timeout = "5s"
# status_addr = "127.0.0.1:7350"
cors_origins = ["http://localhost:3000"]
`
