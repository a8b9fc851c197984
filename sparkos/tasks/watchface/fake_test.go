package watchface

import (
	"sync"

	"sparkclock/hal"
)

type fakeFB struct {
	w, h int
	buf  []byte

	mu       sync.Mutex
	presents []rect
	snap     []byte
}

func newFakeFB(w, h int) *fakeFB {
	return &fakeFB{w: w, h: h, buf: make([]byte, w*h*2)}
}

func (f *fakeFB) Width() int              { return f.w }
func (f *fakeFB) Height() int             { return f.h }
func (f *fakeFB) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *fakeFB) StrideBytes() int        { return f.w * 2 }
func (f *fakeFB) Buffer() []byte          { return f.buf }

func (f *fakeFB) ClearRGB(r, g, b uint8) {
	fillRectRGB565(f.buf, f.StrideBytes(), rect{w: f.w, h: f.h}, hal.RGB565(r, g, b))
}

func (f *fakeFB) Present() error {
	return f.PresentRegion(0, 0, f.w, f.h)
}

func (f *fakeFB) PresentRegion(x, y, w, h int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.presents = append(f.presents, rect{x: x, y: y, w: w, h: h})
	f.snap = append(f.snap[:0], f.buf...)
	return nil
}

func (f *fakeFB) presented() ([]rect, []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]rect(nil), f.presents...), append([]byte(nil), f.snap...)
}

type fakeDisplay struct{ fb hal.Framebuffer }

func (d fakeDisplay) Framebuffer() hal.Framebuffer { return d.fb }

// litColumns returns the first and last column with a non-black pixel in r.
func litColumns(buf []byte, stride int, r rect) (first, last int, ok bool) {
	first, last = -1, -1
	for y := r.y; y < r.y+r.h; y++ {
		for x := r.x; x < r.x+r.w; x++ {
			off := y*stride + x*2
			if buf[off] == 0 && buf[off+1] == 0 {
				continue
			}
			if first < 0 || x < first {
				first = x
			}
			if x > last {
				last = x
			}
		}
	}
	return first, last, first >= 0
}
