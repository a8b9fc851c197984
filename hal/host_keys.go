//go:build !tinygo && cgo

package hal

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// pollSettingsKeys maps window keys onto device settings:
//
//	F2          toggle 12/24-hour clock
//	Right/Left  move the clock one hour forward/back
//	Up/Down     move the clock one day forward/back
//	Home        undo all clock adjustments
func pollSettingsKeys(h *hostHAL) {
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		if h.clock.toggle24Hour() {
			h.logger.WriteLineString("settings: clock style 24h")
		} else {
			h.logger.WriteLineString("settings: clock style 12h")
		}
	}

	shifts := []struct {
		key ebiten.Key
		d   time.Duration
	}{
		{ebiten.KeyArrowRight, time.Hour},
		{ebiten.KeyArrowLeft, -time.Hour},
		{ebiten.KeyArrowUp, 24 * time.Hour},
		{ebiten.KeyArrowDown, -24 * time.Hour},
	}
	for _, s := range shifts {
		if inpututil.IsKeyJustPressed(s.key) {
			h.clock.adjust(s.d)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		h.clock.resetSkew()
	}
}
