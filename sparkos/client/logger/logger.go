package logger

import (
	"fmt"

	"sparkclock/sparkos/kernel"
	"sparkclock/sparkos/proto"
)

// retryTicks bounds how long LogRetry waits for room in the logger queue.
const retryTicks = 8

// Log sends a log line to the logger service.
//
// The call is best-effort: it may drop on queue full.
func Log(ctx *kernel.Context, logCap kernel.Capability, line string) kernel.SendResult {
	if ctx == nil {
		return kernel.SendErrInvalidFromCap
	}
	return ctx.SendToCapResult(logCap, uint16(proto.MsgLogLine), payload(line), kernel.Capability{})
}

// Logf formats and sends a log line. See Log.
func Logf(ctx *kernel.Context, logCap kernel.Capability, format string, args ...any) kernel.SendResult {
	return Log(ctx, logCap, fmt.Sprintf(format, args...))
}

// LogRetry sends a log line, waiting a tick and retrying while the logger
// queue is full.
func LogRetry(ctx *kernel.Context, logCap kernel.Capability, line string) error {
	if ctx == nil {
		return fmt.Errorf("logger retry: nil context")
	}
	res := ctx.SendToCapRetry(logCap, uint16(proto.MsgLogLine), payload(line), kernel.Capability{}, retryTicks)
	if res != kernel.SendOK {
		return fmt.Errorf("logger send: %s", res)
	}
	return nil
}

func payload(line string) []byte {
	b := []byte(line)
	if len(b) > kernel.MaxMessageBytes {
		b = b[:kernel.MaxMessageBytes]
	}
	return proto.LogLinePayload(b)
}
