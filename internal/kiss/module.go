package kiss

import (
	"fmt"
	"strings"

	"github.com/danmuck/kissctl/internal/logging"
	"github.com/danmuck/kissctl/internal/tools"
)

// ModuleMKISS provides the N_AX25 line discipline.
const ModuleMKISS = "mkiss"

// LoadModule asks modprobe for name. The attach sequence reports the real
// failure if the module is still missing afterwards.
func LoadModule(runner tools.CommandRunner, name string) error {
	if runner == nil {
		runner = tools.ExecRunner{}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = ModuleMKISS
	}
	_, stderr, code, err := runner.Run("modprobe", name)
	if err != nil {
		detail := strings.TrimSpace(string(stderr))
		logging.Warnf("kiss.LoadModule module=%s exit=%d err=%v stderr=%q", name, code, err, detail)
		return fmt.Errorf("kiss: modprobe %s (exit %d): %w", name, code, err)
	}
	logging.Debugf("kiss.LoadModule module=%s loaded", name)
	return nil
}
