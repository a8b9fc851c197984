//go:build tinygo

package main

import (
	"sparkclock/app"
	"sparkclock/hal"
)

func main() {
	app.Run(hal.New())
}
