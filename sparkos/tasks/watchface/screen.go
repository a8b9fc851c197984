package watchface

import (
	"errors"
	"fmt"
	"image/color"

	"sparkclock/hal"
	"sparkclock/sparkos/clockface"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freesans"
)

// The face was designed for a 144x168 screen; layer rects scale from it.
const (
	refWidth  = 144
	refHeight = 168

	regionCount = 4

	// Below this height the smaller font pair is used.
	largeFontMinHeight = 240
)

var (
	errNoFramebuffer = errors.New("no framebuffer")
	errPixelFormat   = errors.New("unsupported pixel format")
)

var refLayout = [regionCount]struct {
	y, h  int
	large bool
}{
	clockface.RegionDate:    {y: 29, h: 26},
	clockface.RegionWeekday: {y: 5, h: 26},
	clockface.RegionTime:    {y: 44, h: 64, large: true},
	clockface.RegionUTC:     {y: 143, h: 26},
}

type fontPair struct {
	small tinyfont.Fonter
	large tinyfont.Fonter
}

func fontsFor(height int) fontPair {
	if height < largeFontMinHeight {
		return fontPair{small: &freesans.Bold9pt7b, large: &freesans.Bold18pt7b}
	}
	return fontPair{small: &freesans.Bold12pt7b, large: &freesans.Bold24pt7b}
}

// layer is one text region: a rect, a font, and the text last set.
type layer struct {
	bounds rect
	font   tinyfont.Fonter
	ascent int
	text   string
}

// layout scales the reference rects to a w x h screen.
func layout(w, h int) [regionCount]rect {
	var out [regionCount]rect
	for i, ref := range refLayout {
		y := ref.y * h / refHeight
		lh := ref.h * h / refHeight
		if y+lh > h {
			lh = h - y
		}
		out[i] = rect{x: 0, y: y, w: w, h: lh}
	}
	return out
}

// screen composites the text layers into the framebuffer.
type screen struct {
	fb     hal.Framebuffer
	layers [regionCount]layer
	dirty  rect

	fg color.RGBA
	bg uint16
}

var _ clockface.Presenter = (*screen)(nil)

func newScreen(fb hal.Framebuffer) (*screen, error) {
	if fb == nil {
		return nil, errNoFramebuffer
	}
	if fb.Format() != hal.PixelFormatRGB565 {
		return nil, fmt.Errorf("%w: %d", errPixelFormat, fb.Format())
	}
	w, h := fb.Width(), fb.Height()
	if w <= 0 || h <= 0 || fb.Buffer() == nil {
		return nil, fmt.Errorf("framebuffer %dx%d has no pixels", w, h)
	}

	s := &screen{
		fb: fb,
		fg: color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
		bg: hal.RGB565(0, 0, 0),
	}
	fonts := fontsFor(h)
	rects := layout(w, h)
	for i := range s.layers {
		font := fonts.small
		if refLayout[i].large {
			font = fonts.large
		}
		ascent := -int(font.GetGlyph('0').Info().YOffset)
		if ascent <= 0 {
			return nil, fmt.Errorf("font for %s has no digit glyph", clockface.Region(i))
		}
		s.layers[i] = layer{bounds: rects[i], font: font, ascent: ascent}
	}
	return s, nil
}

// SetText replaces a layer's text and marks it for redraw if it changed.
func (s *screen) SetText(region clockface.Region, text string) {
	if int(region) >= regionCount {
		return
	}
	l := &s.layers[region]
	if l.text == text {
		return
	}
	l.text = text
	s.dirty = s.dirty.union(l.bounds)
}

// clear paints the whole screen with the background and presents it.
func (s *screen) clear() error {
	fillRectRGB565(s.fb.Buffer(), s.fb.StrideBytes(), rect{w: s.fb.Width(), h: s.fb.Height()}, s.bg)
	s.dirty = rect{}
	return s.fb.Present()
}

// flush redraws every layer touching the dirty area and presents that area.
func (s *screen) flush() error {
	area := s.dirty
	s.dirty = rect{}
	if area.empty() {
		return nil
	}

	fillRectRGB565(s.fb.Buffer(), s.fb.StrideBytes(), area, s.bg)
	for i := range s.layers {
		l := &s.layers[i]
		clip := area.intersect(l.bounds)
		if clip.empty() || l.text == "" {
			continue
		}
		_, width := tinyfont.LineWidth(l.font, l.text)
		x := l.bounds.x + (l.bounds.w-int(width))/2
		y := l.bounds.y + (l.bounds.h+l.ascent)/2
		tinyfont.WriteLine(&fbDisplay{fb: s.fb, clip: clip}, l.font, int16(x), int16(y), l.text, s.fg)
	}

	if rp, ok := s.fb.(hal.RegionPresenter); ok {
		return rp.PresentRegion(area.x, area.y, area.w, area.h)
	}
	return s.fb.Present()
}

// release drops the layers and fonts.
func (s *screen) release() {
	for i := range s.layers {
		s.layers[i] = layer{}
	}
	s.dirty = rect{}
}
