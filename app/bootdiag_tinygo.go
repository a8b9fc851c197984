//go:build tinygo && bootdebug

package app

import (
	"machine"
	"sync"
	"time"

	"sparkclock/hal"
	"sparkclock/internal/buildinfo"
)

// bootDiagPeriod is how often the current boot step is repeated.
const bootDiagPeriod = 250 * time.Millisecond

var (
	bootDiagMu   sync.Mutex
	bootDiagStep string
)

func bootDiagSetStep(msg string) {
	bootDiagMu.Lock()
	defer bootDiagMu.Unlock()
	bootDiagStep = msg
}

func currentBootStep() string {
	bootDiagMu.Lock()
	defer bootDiagMu.Unlock()
	if bootDiagStep == "" {
		return "<empty>"
	}
	return bootDiagStep
}

// bootDiagStart repeats the current boot step on the HAL logger and USB CDC
// so a late-attached console still sees where boot stalled.
func bootDiagStart(h hal.HAL) {
	if h == nil {
		return
	}
	l := h.Logger()
	prefix := "bootdiag " + buildinfo.Short() + ": "

	go func() {
		for {
			line := prefix + currentBootStep()
			if l != nil {
				l.WriteLineString(line)
			}
			if usb := machine.USBCDC; usb != nil {
				_, _ = usb.Write([]byte(line + "\r\n"))
			}
			time.Sleep(bootDiagPeriod)
		}
	}()
}
