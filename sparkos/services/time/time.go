package timesvc

import (
	"time"

	"sparkclock/hal"
	"sparkclock/sparkos/kernel"
	"sparkclock/sparkos/proto"
)

const (
	maxSleepers    = 32
	maxSubscribers = 8

	// defaultPollTicks is how often (in kernel ticks) the wall clock is read.
	defaultPollTicks = 100
)

type sleeper struct {
	inUse bool
	due   uint64
	id    uint32
	reply kernel.Capability
}

type subscriber struct {
	inUse   bool
	reply   kernel.Capability
	units   proto.TimeUnits
	pending proto.TimeUnits

	// restyle is set when a 12/24-hour change could not be delivered.
	restyle bool
}

// Service provides tick-based sleeps and wall-clock tick subscriptions.
type Service struct {
	clock hal.Clock
	ep    kernel.Capability

	pollEvery uint64

	now      uint64
	lastPoll uint64
	polled   bool

	last   time.Time
	last24 bool

	sleepers [maxSleepers]sleeper
	subs     [maxSubscribers]subscriber
}

func New(clock hal.Clock, ep kernel.Capability) *Service {
	return &Service{clock: clock, ep: ep, pollEvery: defaultPollTicks}
}

// SetPollTicks sets how many kernel ticks pass between wall-clock reads.
func (s *Service) SetPollTicks(n uint64) *Service {
	if n == 0 {
		n = 1
	}
	s.pollEvery = n
	return s
}

func (s *Service) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(s.ep)
	if !ok {
		return
	}

	done := make(chan struct{})
	defer close(done)

	s.now = ctx.NowTick()
	tickCh := make(chan uint64, 8)
	go func(last uint64) {
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			default:
			}
			last = ctx.WaitTick(last)
			select {
			case tickCh <- last:
			default:
			}
		}
	}(s.now)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			s.handle(ctx, msg)
		case now := <-tickCh:
			s.now = now
			s.wakeReady(ctx)
			s.poll(ctx)
		}
	}
}

func (s *Service) handle(ctx *kernel.Context, msg kernel.Message) {
	if !msg.Cap.Valid() {
		return
	}
	switch proto.Kind(msg.Kind) {
	case proto.MsgSleep:
		s.handleSleep(ctx, msg)
	case proto.MsgTickSubscribe:
		s.handleSubscribe(ctx, msg)
	case proto.MsgTickUnsubscribe:
		s.unsubscribe(msg.Cap)
	}
}

func (s *Service) handleSleep(ctx *kernel.Context, msg kernel.Message) {
	requestID, dt, ok := proto.DecodeSleepPayload(msg.Payload())
	if !ok {
		s.replyError(ctx, msg.Cap, proto.ErrBadMessage, proto.MsgSleep, 0)
		return
	}
	if dt == 0 {
		_ = ctx.SendToCapResult(msg.Cap, uint16(proto.MsgWake), proto.WakePayload(requestID), kernel.Capability{})
		return
	}
	if ok := s.schedule(s.now+uint64(dt), requestID, msg.Cap); !ok {
		s.replyError(ctx, msg.Cap, proto.ErrOverflow, proto.MsgSleep, requestID)
	}
}

func (s *Service) handleSubscribe(ctx *kernel.Context, msg kernel.Message) {
	units, ok := proto.DecodeTickSubscribePayload(msg.Payload())
	if !ok {
		s.replyError(ctx, msg.Cap, proto.ErrBadMessage, proto.MsgTickSubscribe, 0)
		return
	}

	sub := s.findSubscriber(msg.Cap)
	if sub == nil {
		sub = s.findSubscriber(kernel.Capability{})
	}
	if sub == nil {
		s.replyError(ctx, msg.Cap, proto.ErrOverflow, proto.MsgTickSubscribe, 0)
		return
	}
	*sub = subscriber{inUse: true, reply: msg.Cap, units: units}

	// New subscribers get the full current time right away.
	now := s.readClock()
	if s.last.IsZero() {
		s.last = now
		s.last24 = s.use24Hour()
	}
	s.deliver(ctx, sub, now, proto.UnitAll, s.use24Hour())
}

func (s *Service) findSubscriber(reply kernel.Capability) *subscriber {
	for i := range s.subs {
		sub := &s.subs[i]
		if !reply.Valid() {
			if !sub.inUse {
				return sub
			}
			continue
		}
		if sub.inUse && sub.reply == reply {
			return sub
		}
	}
	return nil
}

func (s *Service) unsubscribe(reply kernel.Capability) {
	if sub := s.findSubscriber(reply); sub != nil {
		*sub = subscriber{}
	}
}

func (s *Service) readClock() time.Time {
	if s.clock == nil {
		return time.Unix(0, 0).UTC()
	}
	return s.clock.Now()
}

func (s *Service) use24Hour() bool {
	return s.clock != nil && s.clock.Use24Hour()
}

// poll reads the wall clock and notifies subscribers whose units changed.
// A change of the 12/24-hour preference is delivered to everyone with no units set.
func (s *Service) poll(ctx *kernel.Context) {
	if s.clock == nil {
		return
	}
	if s.polled && s.now-s.lastPoll < s.pollEvery {
		return
	}
	s.polled = true
	s.lastPoll = s.now

	now := s.clock.Now()
	use24 := s.clock.Use24Hour()
	if s.last.IsZero() {
		s.last = now
		s.last24 = use24
		return
	}

	changed := proto.ChangedUnits(s.last, now)
	styleChanged := use24 != s.last24
	s.last = now
	s.last24 = use24

	for i := range s.subs {
		sub := &s.subs[i]
		if !sub.inUse {
			continue
		}
		units := changed | sub.pending
		if units&sub.units == 0 && !styleChanged && !sub.restyle {
			continue
		}
		s.deliver(ctx, sub, now, units, use24)
	}
}

func (s *Service) deliver(ctx *kernel.Context, sub *subscriber, now time.Time, units proto.TimeUnits, use24 bool) {
	payload := proto.TickPayload(proto.NewTick(now, units, use24))
	switch ctx.SendToCapResult(sub.reply, uint16(proto.MsgTimeTick), payload, kernel.Capability{}) {
	case kernel.SendOK:
		sub.pending = 0
		sub.restyle = false
	case kernel.SendErrQueueFull:
		sub.pending = units
		sub.restyle = true
	default:
		*sub = subscriber{}
	}
}

func (s *Service) replyError(ctx *kernel.Context, to kernel.Capability, code proto.ErrCode, ref proto.Kind, requestID uint32) {
	payload := proto.ErrorPayload(code, ref, requestID, nil)
	_ = ctx.SendToCapResult(to, uint16(proto.MsgError), payload, kernel.Capability{})
}

func (s *Service) schedule(due uint64, requestID uint32, reply kernel.Capability) bool {
	for i := range s.sleepers {
		if s.sleepers[i].inUse {
			continue
		}
		s.sleepers[i] = sleeper{inUse: true, due: due, id: requestID, reply: reply}
		return true
	}
	return false
}

func (s *Service) wakeReady(ctx *kernel.Context) {
	for i := range s.sleepers {
		sl := &s.sleepers[i]
		if !sl.inUse || sl.due > s.now {
			continue
		}
		_ = ctx.SendToCapResult(sl.reply, uint16(proto.MsgWake), proto.WakePayload(sl.id), kernel.Capability{})
		*sl = sleeper{}
	}
}
