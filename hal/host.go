//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// HostConfig describes the simulated device on the host.
type HostConfig struct {
	Width  int
	Height int
	// Scale is the window magnification; headless mode ignores it.
	Scale int
	Clock HostClockConfig
	// Log receives log lines; nil means stdout.
	Log io.Writer
}

const (
	defaultWidth  = 320
	defaultHeight = 320
)

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	t      *hostTime
	clock  *hostClock
}

// New returns a host HAL implementation with a 320x320 display and the real clock.
func New() HAL {
	return newHostHAL(HostConfig{})
}

// NewWithConfig returns a host HAL implementation for cfg.
func NewWithConfig(cfg HostConfig) HAL {
	return newHostHAL(cfg)
}

func newHostHAL(cfg HostConfig) *hostHAL {
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultHeight
	}
	var w io.Writer = os.Stdout
	if cfg.Log != nil {
		w = cfg.Log
	}
	return &hostHAL{
		logger: &hostLogger{w: w},
		fb:     newHostFramebuffer(cfg.Width, cfg.Height),
		t:      newHostTime(),
		clock:  newHostClock(cfg.Clock, nil),
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Time() Time       { return h.t }
func (h *hostHAL) Clock() Clock     { return h.clock }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
