//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"sparkclock/app"
	"sparkclock/hal"
	"sparkclock/internal/config"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	host := hal.HostConfig{
		Width:  cfg.Width,
		Height: cfg.Height,
		Scale:  cfg.Scale,
		Clock: hal.HostClockConfig{
			Location:  cfg.Location,
			Start:     cfg.StartTime,
			Rate:      cfg.Rate,
			Use24Hour: cfg.Clock24h,
		},
	}
	newApp := func(h hal.HAL) hal.App {
		return app.New(h, app.Config{PollTicks: cfg.PollTicks})
	}

	if cfg.Headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err := hal.RunHeadless(ctx, host, hal.HeadlessConfig{Hz: cfg.Hz, Ticks: cfg.Ticks}, newApp)
		if err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(host, newApp); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
