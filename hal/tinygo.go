//go:build tinygo && baremetal && !picocalc

package hal

type tinyGoHAL struct {
	logger *uartLogger
	fb     Framebuffer
	t      *tinyGoTime
	clock  tinyGoClock
}

// New returns a Pico 2 (RP2350) HAL implementation without a panel.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
func New() HAL {
	return &tinyGoHAL{
		logger: newUARTLogger(),
		fb:     &stubFramebuffer{w: 320, h: 320, format: PixelFormatRGB565},
		t:      newTinyGoTime(),
		clock:  tinyGoClock{use24: true},
	}
}

func (h *tinyGoHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHAL) Display() Display { return tinyGoDisplay{fb: h.fb} }
func (h *tinyGoHAL) Time() Time       { return h.t }
func (h *tinyGoHAL) Clock() Clock     { return h.clock }
