package app

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"sparkclock/hal"
	"sparkclock/sparkos/kernel"
	"sparkclock/sparkos/tasks/watchface"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testFB struct {
	w, h int
	buf  []byte

	mu       sync.Mutex
	presents int
}

func newTestFB(w, h int) *testFB { return &testFB{w: w, h: h, buf: make([]byte, w*h*2)} }

func (f *testFB) Width() int              { return f.w }
func (f *testFB) Height() int             { return f.h }
func (f *testFB) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *testFB) StrideBytes() int        { return f.w * 2 }
func (f *testFB) Buffer() []byte          { return f.buf }

func (f *testFB) ClearRGB(r, g, b uint8) {
	p := hal.RGB565(r, g, b)
	for i := 0; i+1 < len(f.buf); i += 2 {
		f.buf[i] = byte(p)
		f.buf[i+1] = byte(p >> 8)
	}
}

func (f *testFB) Present() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.presents++
	return nil
}

func (f *testFB) presentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.presents
}

type testLogger struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (l *testLogger) WriteLineString(s string) { l.WriteLineBytes([]byte(s)) }

func (l *testLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.Write(b)
	l.buf.WriteByte('\n')
}

func (l *testLogger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.String()
}

type testTime struct{ ch chan uint64 }

func (t testTime) Ticks() <-chan uint64 { return t.ch }

type testClock struct{}

func (testClock) Now() time.Time  { return time.Date(2024, time.March, 5, 9, 7, 0, 0, time.UTC) }
func (testClock) Use24Hour() bool { return false }

type testDisplay struct{ fb hal.Framebuffer }

func (d testDisplay) Framebuffer() hal.Framebuffer { return d.fb }

type testHAL struct {
	log *testLogger
	fb  *testFB
	t   testTime
}

func (h *testHAL) Logger() hal.Logger   { return h.log }
func (h *testHAL) Display() hal.Display { return testDisplay{fb: h.fb} }
func (h *testHAL) Time() hal.Time       { return h.t }
func (h *testHAL) Clock() hal.Clock     { return testClock{} }

func newTestHAL() *testHAL {
	return &testHAL{log: &testLogger{}, fb: newTestFB(320, 320), t: testTime{ch: make(chan uint64, 16)}}
}

func TestSystemRunsFaceAndCloses(t *testing.T) {
	h := newTestHAL()
	s := New(h, Config{PollTicks: 1})

	require.Eventually(t, func() bool { return s.FaceState() == watchface.StateRunning }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return h.fb.presentCount() >= 2 }, time.Second, time.Millisecond)

	for i := uint64(1); i <= 4; i++ {
		h.t.ch <- i
	}
	require.NoError(t, s.Step())
	assert.Empty(t, h.t.ch)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, watchface.StateStopped, s.FaceState())

	out := h.log.String()
	assert.Contains(t, out, "sparkclock ")
	assert.Contains(t, out, "watchface: running")
	assert.Contains(t, out, "watchface: stopped")
}

func TestPanicScreen(t *testing.T) {
	fb := newTestFB(320, 80)
	drawPanic(fb, panicLines(kernel.PanicInfo{
		TaskID: 3,
		Value:  "boom",
		Stack:  []byte("goroutine 1 [running]:\n\nmain.main()\n" + string(bytes.Repeat([]byte("x"), 200))),
	}))
	assert.Equal(t, 1, fb.presentCount())

	var dark int
	for i := 0; i+1 < len(fb.buf); i += 2 {
		if fb.buf[i] == 0 && fb.buf[i+1] == 0 {
			dark++
		}
	}
	assert.Positive(t, dark, "no text drawn")
	assert.Less(t, dark, len(fb.buf)/2, "background not cleared to white")
}

func TestPanicLines(t *testing.T) {
	lines := panicLines(kernel.PanicInfo{TaskID: 1, Value: "x"})
	assert.Equal(t, []string{"Spark Panic:", "task: 1", "panic: x", "stack: unavailable"}, lines)

	lines = panicLines(kernel.PanicInfo{TaskID: 1, Value: "x", Stack: []byte("a\n\nb\n")})
	assert.Equal(t, []string{"Spark Panic:", "task: 1", "panic: x", "stack:", "a", "b"}, lines)
}

func TestTakeRunes(t *testing.T) {
	p, r := takeRunes("héllo", 2)
	assert.Equal(t, "hé", p)
	assert.Equal(t, "llo", r)

	p, r = takeRunes("ab", 5)
	assert.Equal(t, "ab", p)
	assert.Empty(t, r)
}
