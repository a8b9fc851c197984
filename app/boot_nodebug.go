//go:build !(tinygo && bootdebug)

package app

import "sparkclock/hal"

func bootDiagStart(hal.HAL) {}

func bootScreen(hal.HAL, string) {}
