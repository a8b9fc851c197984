package logger

import (
	"sync"
	"testing"
	"time"

	"sparkclock/sparkos/kernel"
	"sparkclock/sparkos/proto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type memLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *memLogger) WriteLineString(s string) { l.WriteLineBytes([]byte(s)) }

func (l *memLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, string(b))
}

func (l *memLogger) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

func TestServiceWritesLogLines(t *testing.T) {
	k := kernel.New()
	ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	log := &memLogger{}
	k.AddTask(New(log, ep.Restrict(kernel.RightRecv)))

	k.AddTask(kernel.TaskFunc(func(ctx *kernel.Context) {
		to := ep.Restrict(kernel.RightSend)
		ctx.SendTo(to, uint16(proto.MsgLogLine), proto.LogLinePayload([]byte("first\n")))
		ctx.SendTo(to, uint16(proto.MsgSleep), []byte("ignored"))
		ctx.SendTo(to, uint16(proto.MsgLogLine), proto.LogLinePayload([]byte("second")))
	}))

	require.Eventually(t, func() bool { return len(log.snapshot()) == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"first", "second"}, log.snapshot())

	k.Stop()
	require.NoError(t, k.Wait())
}
