package hal

import (
	"errors"
	"time"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// RegionPresenter is implemented by framebuffers that can push a sub-rectangle
// to the panel without transferring the whole buffer.
type RegionPresenter interface {
	PresentRegion(x, y, w, h int) error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Time provides a base tick stream.
//
// The tick duration is platform-defined; higher-level timers live in userland.
type Time interface {
	Ticks() <-chan uint64
}

// Clock provides wall-clock time and the user's clock style.
//
// Now returns local time. A device without a set RTC reports an instant near
// the Unix epoch. Use24Hour may change at runtime.
type Clock interface {
	Now() time.Time
	Use24Hour() bool
}

// HAL provides the only contact point between the OS and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Time() Time
	Clock() Clock
}

// App is an OS instance driven by a host runner.
//
// Step is called once per host frame; Close stops the OS and waits for it.
type App interface {
	Step() error
	Close() error
}
