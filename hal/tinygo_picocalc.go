//go:build tinygo && baremetal && picocalc

package hal

type picoCalcHAL struct {
	logger *uartLogger
	fb     Framebuffer
	t      *tinyGoTime
	clock  tinyGoClock
}

// New returns a PicoCalc HAL implementation (Pico/Pico2 on the PicoCalc carrier).
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
func New() HAL {
	logger := newUARTLogger()

	var fb Framebuffer
	if disp, err := newPicoCalcDisplay(); err == nil {
		fb = disp
	} else {
		logger.WriteLineString("hal: lcd init failed: " + err.Error())
		fb = newPicoCalcDisplayStub()
	}

	return &picoCalcHAL{
		logger: logger,
		fb:     fb,
		t:      newTinyGoTime(),
		clock:  tinyGoClock{use24: true},
	}
}

func (h *picoCalcHAL) Logger() Logger   { return h.logger }
func (h *picoCalcHAL) Display() Display { return tinyGoDisplay{fb: h.fb} }
func (h *picoCalcHAL) Time() Time       { return h.t }
func (h *picoCalcHAL) Clock() Clock     { return h.clock }

type picoCalcFramebuffer struct {
	w      int
	h      int
	stride int
	buf    []byte

	lcd *ili9488
}

const (
	picoCalcWidth  = 320
	picoCalcHeight = 320
)

func (f *picoCalcFramebuffer) Width() int          { return f.w }
func (f *picoCalcFramebuffer) Height() int         { return f.h }
func (f *picoCalcFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *picoCalcFramebuffer) StrideBytes() int    { return f.stride }
func (f *picoCalcFramebuffer) Buffer() []byte      { return f.buf }

func (f *picoCalcFramebuffer) ClearRGB(r, g, b uint8) {
	fillRGB565(f.buf, RGB565(r, g, b))
}

func (f *picoCalcFramebuffer) Present() error {
	return f.PresentRegion(0, 0, f.w, f.h)
}

// PresentRegion sends only the rows and columns inside the rectangle over SPI.
func (f *picoCalcFramebuffer) PresentRegion(x, y, w, h int) error {
	if f.lcd == nil {
		return ErrNotImplemented
	}
	x0, y0, x1, y1, ok := clipRect(x, y, w, h, f.w, f.h)
	if !ok {
		return nil
	}
	return f.lcd.blitRect(f.buf, f.stride, x0, y0, x1, y1)
}

func newPicoCalcDisplay() (*picoCalcFramebuffer, error) {
	lcd, err := initILI9488()
	if err != nil {
		return nil, err
	}
	fb := newPicoCalcDisplayStub()
	fb.lcd = lcd
	return fb, nil
}

func newPicoCalcDisplayStub() *picoCalcFramebuffer {
	return &picoCalcFramebuffer{
		w:      picoCalcWidth,
		h:      picoCalcHeight,
		stride: picoCalcWidth * 2,
		buf:    make([]byte, picoCalcWidth*picoCalcHeight*2),
	}
}
