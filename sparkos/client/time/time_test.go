package time_test

import (
	"testing"
	"time"

	timeclient "sparkclock/sparkos/client/time"
	"sparkclock/sparkos/kernel"
	"sparkclock/sparkos/proto"
	timesvc "sparkclock/sparkos/services/time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time  { return c.t }
func (c fixedClock) Use24Hour() bool { return true }

func TestSleepReturnsAfterWake(t *testing.T) {
	k := kernel.New()
	svcEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	k.AddTask(timesvc.New(fixedClock{}, svcEP.Restrict(kernel.RightRecv)))

	result := make(chan error, 1)
	k.AddTask(kernel.TaskFunc(func(ctx *kernel.Context) {
		s, err := timeclient.NewSleeper(ctx, svcEP.Restrict(kernel.RightSend))
		if err != nil {
			result <- err
			return
		}
		defer s.Close()
		done, err := s.Sleep(0)
		if err == nil && !done {
			err = assert.AnError
		}
		result <- err
	}))

	select {
	case err := <-result:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sleep never returned")
	}

	k.Stop()
	require.NoError(t, k.Wait())
}

func TestSubscribeDeliversCurrentTime(t *testing.T) {
	now := time.Date(2024, time.March, 5, 9, 7, 0, 0, time.UTC)
	k := kernel.New()
	svcEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	k.AddTask(timesvc.New(fixedClock{t: now}, svcEP.Restrict(kernel.RightRecv)))

	ticks := make(chan proto.Tick, 1)
	k.AddTask(kernel.TaskFunc(func(ctx *kernel.Context) {
		ep := ctx.NewEndpoint(kernel.RightSend | kernel.RightRecv)
		if err := timeclient.Subscribe(ctx, svcEP.Restrict(kernel.RightSend), ep.Restrict(kernel.RightSend), proto.UnitMinute); err != nil {
			return
		}
		msg, ok := ctx.Recv(ep.Restrict(kernel.RightRecv))
		if !ok {
			return
		}
		if tick, ok := proto.DecodeTickPayload(msg.Payload()); ok {
			ticks <- tick
		}
		_ = timeclient.Unsubscribe(ctx, svcEP.Restrict(kernel.RightSend), ep.Restrict(kernel.RightSend))
	}))

	select {
	case tick := <-ticks:
		assert.Equal(t, proto.UnitAll, tick.Units)
		assert.True(t, tick.Time().Equal(now))
	case <-time.After(time.Second):
		t.Fatal("no tick delivered")
	}

	k.Stop()
	require.NoError(t, k.Wait())
}

func TestSubscribeRejectsEmptyUnits(t *testing.T) {
	k := kernel.New()
	errs := make(chan error, 1)
	k.AddTask(kernel.TaskFunc(func(ctx *kernel.Context) {
		ep := ctx.NewEndpoint(kernel.RightSend | kernel.RightRecv)
		errs <- timeclient.Subscribe(ctx, ep, ep, 0)
	}))
	require.Error(t, <-errs)
	k.Stop()
	require.NoError(t, k.Wait())
}
