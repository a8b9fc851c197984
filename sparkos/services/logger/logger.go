package logger

import (
	"sparkclock/hal"
	"sparkclock/sparkos/kernel"
	"sparkclock/sparkos/proto"
)

// Service writes MsgLogLine payloads to the HAL logger, one line per message.
type Service struct {
	log hal.Logger
	ep  kernel.Capability
}

func New(log hal.Logger, ep kernel.Capability) *Service {
	return &Service{log: log, ep: ep}
}

func (s *Service) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(s.ep)
	if !ok {
		return
	}
	for {
		select {
		case <-ctx.Done():
			s.drain(ch)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			s.write(msg)
		}
	}
}

// drain flushes lines queued before shutdown so the last words of other tasks
// are not lost.
func (s *Service) drain(ch <-chan kernel.Message) {
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			s.write(msg)
		default:
			return
		}
	}
}

func (s *Service) write(msg kernel.Message) {
	if s.log == nil || proto.Kind(msg.Kind) != proto.MsgLogLine {
		return
	}
	s.log.WriteLineBytes(msg.Payload())
}
