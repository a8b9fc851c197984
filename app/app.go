package app

import (
	"errors"
	"sync"
	"time"

	"sparkclock/hal"
	"sparkclock/internal/buildinfo"
	"sparkclock/sparkos/kernel"
	"sparkclock/sparkos/proto"
	"sparkclock/sparkos/services/logger"
	timesvc "sparkclock/sparkos/services/time"
	"sparkclock/sparkos/tasks/watchface"
)

// shutdownTimeout bounds how long Close waits for the face to unsubscribe.
const shutdownTimeout = time.Second

var ErrPanic = errors.New("task panic")

type Config struct {
	// PollTicks is how many HAL ticks pass between wall-clock reads.
	// Zero picks the time service default.
	PollTicks uint64
}

// System is a running OS instance with the clock face as its only app.
type System struct {
	k     *kernel.Kernel
	ticks <-chan uint64
	face  *watchface.Task

	shutdown chan struct{}
	faceDone chan struct{}

	closeOnce sync.Once
	closeErr  error
}

var _ hal.App = (*System)(nil)

// New starts the kernel, its services and the watchface on h.
func New(h hal.HAL, cfg Config) *System {
	installPanicHandler(h)
	if l := h.Logger(); l != nil {
		l.WriteLineString("sparkclock " + buildinfo.String())
	}

	k := kernel.New()

	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	timeEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	faceEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	k.AddTask(logger.New(h.Logger(), logEP.Restrict(kernel.RightRecv)))

	ts := timesvc.New(h.Clock(), timeEP.Restrict(kernel.RightRecv))
	if cfg.PollTicks > 0 {
		ts.SetPollTicks(cfg.PollTicks)
	}
	k.AddTask(ts)

	s := &System{
		k:        k,
		face:     watchface.New(h.Display(), faceEP, timeEP.Restrict(kernel.RightSend), logEP.Restrict(kernel.RightSend)),
		shutdown: make(chan struct{}),
		faceDone: make(chan struct{}),
	}
	k.AddTask(kernel.TaskFunc(func(ctx *kernel.Context) {
		defer close(s.faceDone)
		s.face.Run(ctx)
	}))
	k.AddTask(kernel.TaskFunc(func(ctx *kernel.Context) {
		select {
		case <-ctx.Done():
			return
		case <-s.shutdown:
		}
		_ = ctx.SendToCapRetry(faceEP.Restrict(kernel.RightSend), uint16(proto.MsgAppShutdown), nil, kernel.Capability{}, 8)
	}))

	if ht := h.Time(); ht != nil {
		s.ticks = ht.Ticks()
	}
	return s
}

// Run starts the OS and forwards HAL ticks forever (TinyGo entrypoint).
func Run(h hal.HAL) {
	bootDiagStart(h)
	bootScreen(h, "starting kernel")
	s := New(h, Config{})
	if s.ticks == nil {
		select {}
	}
	for seq := range s.ticks {
		if kernel.InPanicMode() {
			select {}
		}
		s.k.TickTo(seq)
	}
}

// Step forwards the HAL ticks published since the last call.
func (s *System) Step() error {
	if kernel.InPanicMode() {
		return ErrPanic
	}
	for {
		select {
		case seq := <-s.ticks:
			s.k.TickTo(seq)
		default:
			return nil
		}
	}
}

// FaceState reports the watchface lifecycle state.
func (s *System) FaceState() watchface.State { return s.face.State() }

// Close asks the face to stop, then stops the kernel and waits for every task.
func (s *System) Close() error {
	s.closeOnce.Do(func() {
		close(s.shutdown)
		select {
		case <-s.faceDone:
		case <-time.After(shutdownTimeout):
		}
		s.k.Stop()
		s.closeErr = s.k.Wait()
	})
	return s.closeErr
}
