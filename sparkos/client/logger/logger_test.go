package logger

import (
	"strings"
	"testing"

	"sparkclock/sparkos/kernel"
	"sparkclock/sparkos/proto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withContext(t *testing.T, fn func(ctx *kernel.Context, k *kernel.Kernel)) {
	t.Helper()
	k := kernel.New()
	done := make(chan struct{})
	k.AddTask(kernel.TaskFunc(func(ctx *kernel.Context) {
		defer close(done)
		fn(ctx, k)
	}))
	<-done
	k.Stop()
	require.NoError(t, k.Wait())
}

func TestLogTruncatesLongLines(t *testing.T) {
	withContext(t, func(ctx *kernel.Context, k *kernel.Kernel) {
		ep := ctx.NewEndpoint(kernel.RightSend | kernel.RightRecv)
		res := Logf(ctx, ep.Restrict(kernel.RightSend), "%s", strings.Repeat("x", 300))
		assert.Equal(t, kernel.SendOK, res)

		msg, ok := ctx.TryRecv(ep.Restrict(kernel.RightRecv))
		require.True(t, ok)
		assert.Equal(t, proto.MsgLogLine, proto.Kind(msg.Kind))
		assert.Len(t, msg.Payload(), kernel.MaxMessageBytes)
	})
}

func TestLogNilContext(t *testing.T) {
	assert.Equal(t, kernel.SendErrInvalidFromCap, Log(nil, kernel.Capability{}, "x"))
	assert.Error(t, LogRetry(nil, kernel.Capability{}, "x"))
}

func TestLogRetryReportsInvalidCapability(t *testing.T) {
	withContext(t, func(ctx *kernel.Context, k *kernel.Kernel) {
		err := LogRetry(ctx, kernel.Capability{}, "dropped")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "logger send")
	})
}
