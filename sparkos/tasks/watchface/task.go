// Package watchface runs the clock face as a SparkOS task: it subscribes to
// minute ticks and draws the date, weekday, local time and UTC stamp.
package watchface

import (
	"sync/atomic"

	"sparkclock/hal"
	logclient "sparkclock/sparkos/client/logger"
	timeclient "sparkclock/sparkos/client/time"
	"sparkclock/sparkos/clockface"
	"sparkclock/sparkos/kernel"
	"sparkclock/sparkos/proto"
)

type State uint32

const (
	StateUninitialized State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Task owns the face, its screen and its tick subscription.
//
// ep must carry both rights: the receive side drains ticks and shutdown
// requests, the send side is handed to the time service as the reply address.
type Task struct {
	disp    hal.Display
	ep      kernel.Capability
	timeCap kernel.Capability
	logCap  kernel.Capability

	state atomic.Uint32

	face   clockface.Face
	screen *screen
}

func New(disp hal.Display, ep, timeCap, logCap kernel.Capability) *Task {
	return &Task{disp: disp, ep: ep, timeCap: timeCap, logCap: logCap}
}

// State reports where the task is in its lifecycle.
func (t *Task) State() State { return State(t.state.Load()) }

func (t *Task) Run(ctx *kernel.Context) {
	defer t.state.Store(uint32(StateStopped))

	ch, ok := ctx.RecvChan(t.ep.Restrict(kernel.RightRecv))
	if !ok {
		logclient.Log(ctx, t.logCap, "watchface: invalid endpoint")
		return
	}
	if err := t.load(); err != nil {
		logclient.Logf(ctx, t.logCap, "watchface: init: %v", err)
		return
	}
	defer t.unload()

	self := t.ep.Restrict(kernel.RightSend)
	if err := timeclient.Subscribe(ctx, t.timeCap, self, proto.UnitMinute); err != nil {
		logclient.Logf(ctx, t.logCap, "watchface: %v", err)
		return
	}
	t.state.Store(uint32(StateRunning))
	_ = logclient.LogRetry(ctx, t.logCap, "watchface: running")

	for {
		select {
		case <-ctx.Done():
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}
			switch proto.Kind(msg.Kind) {
			case proto.MsgTimeTick:
				tick, ok := proto.DecodeTickPayload(msg.Payload())
				if !ok {
					continue
				}
				if err := t.handleTick(tick); err != nil {
					logclient.Logf(ctx, t.logCap, "watchface: present: %v", err)
				}

			case proto.MsgError:
				perr, ok := proto.DecodeError(msg.Payload())
				if !ok {
					continue
				}
				logclient.Logf(ctx, t.logCap, "watchface: time service: %v", perr)
				if perr.Ref == proto.MsgTickSubscribe {
					return
				}

			case proto.MsgAppShutdown:
				if err := timeclient.Unsubscribe(ctx, t.timeCap, self); err != nil {
					logclient.Logf(ctx, t.logCap, "watchface: %v", err)
				}
				logclient.Log(ctx, t.logCap, "watchface: stopped")
				return
			}
		}
	}
}

func (t *Task) load() error {
	if t.disp == nil {
		return errNoFramebuffer
	}
	s, err := newScreen(t.disp.Framebuffer())
	if err != nil {
		return err
	}
	if err := s.clear(); err != nil {
		return err
	}
	t.screen = s
	t.face = clockface.Face{}
	return nil
}

func (t *Task) unload() {
	if t.screen == nil {
		return
	}
	_ = t.screen.clear()
	t.screen.release()
	t.screen = nil
}

func (t *Task) handleTick(tick proto.Tick) error {
	dayChanged := tick.Units&proto.UnitDay != 0
	t.face.Update(clockface.ReadingAt(tick.Time()), dayChanged, tick.Use24Hour(), t.screen)
	return t.screen.flush()
}
