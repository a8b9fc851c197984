package time

import (
	"fmt"

	"sparkclock/sparkos/kernel"
	"sparkclock/sparkos/proto"
)

// sendRetries bounds how many ticks a request waits for room in the service queue.
const sendRetries = 16

// Sleeper issues sleep requests to the time service from one task.
//
// It owns a private reply endpoint so wakes never interleave with the
// task's other traffic.
type Sleeper struct {
	ctx     *kernel.Context
	timeCap kernel.Capability
	reply   kernel.Capability
	nextID  uint32
}

// NewSleeper allocates the reply endpoint used by Sleep.
func NewSleeper(ctx *kernel.Context, timeCap kernel.Capability) (*Sleeper, error) {
	if ctx == nil {
		return nil, fmt.Errorf("time sleep: nil context")
	}
	reply := ctx.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	if !reply.Valid() {
		return nil, fmt.Errorf("time sleep: allocate reply endpoint")
	}
	return &Sleeper{ctx: ctx, timeCap: timeCap, reply: reply}, nil
}

// Sleep blocks until the time service wakes the caller after dt ticks.
//
// It returns false with a nil error when the kernel stops first.
func (s *Sleeper) Sleep(dt uint32) (done bool, err error) {
	s.nextID++
	if s.nextID == 0 {
		s.nextID++
	}
	id := s.nextID

	res := s.ctx.SendToCapRetry(s.timeCap, uint16(proto.MsgSleep), proto.SleepPayload(id, dt), s.reply.Restrict(kernel.RightSend), sendRetries)
	if res != kernel.SendOK {
		return false, fmt.Errorf("time sleep send: %s", res)
	}

	recv := s.reply.Restrict(kernel.RightRecv)
	for {
		msg, ok := s.ctx.Recv(recv)
		if !ok {
			return false, nil
		}
		switch proto.Kind(msg.Kind) {
		case proto.MsgWake:
			reqID, ok := proto.DecodeWakePayload(msg.Payload())
			if !ok {
				return false, fmt.Errorf("time wake: bad payload")
			}
			if reqID != id {
				continue
			}
			return true, nil

		case proto.MsgError:
			perr, ok := proto.DecodeError(msg.Payload())
			if !ok {
				return false, fmt.Errorf("time error: bad payload")
			}
			if perr.RequestID != id {
				continue
			}
			return false, fmt.Errorf("time sleep: %w", perr)
		}
	}
}

// Close releases the reply endpoint.
func (s *Sleeper) Close() {
	s.ctx.CloseEndpoint(s.reply.Restrict(kernel.RightRecv))
}

// Subscribe asks the time service to send MsgTimeTick to replySend whenever
// one of units changes. The service answers with an immediate full tick.
func Subscribe(ctx *kernel.Context, timeCap, replySend kernel.Capability, units proto.TimeUnits) error {
	if ctx == nil {
		return fmt.Errorf("time subscribe: nil context")
	}
	if units == 0 {
		return fmt.Errorf("time subscribe: no units")
	}
	if !replySend.Valid() {
		return fmt.Errorf("time subscribe: invalid reply capability")
	}
	res := ctx.SendToCapRetry(timeCap, uint16(proto.MsgTickSubscribe), proto.TickSubscribePayload(units), replySend, sendRetries)
	if res != kernel.SendOK {
		return fmt.Errorf("time subscribe send: %s", res)
	}
	return nil
}

// Unsubscribe cancels the subscription registered for replySend.
func Unsubscribe(ctx *kernel.Context, timeCap, replySend kernel.Capability) error {
	if ctx == nil {
		return fmt.Errorf("time unsubscribe: nil context")
	}
	res := ctx.SendToCapRetry(timeCap, uint16(proto.MsgTickUnsubscribe), nil, replySend, sendRetries)
	if res != kernel.SendOK {
		return fmt.Errorf("time unsubscribe send: %s", res)
	}
	return nil
}
