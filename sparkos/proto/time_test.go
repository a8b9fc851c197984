package proto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickPayload(t *testing.T) {
	zone := time.FixedZone("", -5*3600)
	now := time.Date(2024, time.March, 5, 9, 7, 0, 0, zone)

	tick := NewTick(now, UnitMinute|UnitDay, true)
	got, ok := DecodeTickPayload(TickPayload(tick))
	require.True(t, ok)
	assert.Equal(t, tick, got)
	assert.True(t, got.Use24Hour())
	assert.True(t, got.Time().Equal(now))

	_, off := got.Time().Zone()
	assert.Equal(t, -5*3600, off)

	_, ok = DecodeTickPayload(TickPayload(tick)[:13])
	assert.False(t, ok)
}

func TestTickSubscribePayload(t *testing.T) {
	u, ok := DecodeTickSubscribePayload(TickSubscribePayload(UnitMinute))
	require.True(t, ok)
	assert.Equal(t, UnitMinute, u)

	_, ok = DecodeTickSubscribePayload([]byte{0})
	assert.False(t, ok)
	_, ok = DecodeTickSubscribePayload(nil)
	assert.False(t, ok)
}

func TestChangedUnits(t *testing.T) {
	base := time.Date(2024, time.March, 5, 23, 59, 30, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want TimeUnits
	}{
		{"same instant", base, 0},
		{"second", base.Add(10 * time.Second), UnitSecond},
		{"minute", base.Add(-40 * time.Second), UnitMinute | UnitSecond},
		{"midnight", base.Add(30 * time.Second), UnitDay | UnitHour | UnitMinute | UnitSecond},
		{"month end", time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), UnitMonth | UnitDay | UnitHour | UnitMinute | UnitSecond},
		{"new year", time.Date(2025, time.March, 5, 23, 59, 30, 0, time.UTC), UnitAll},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChangedUnits(base, tt.now))
		})
	}
}

func TestErrorPayload(t *testing.T) {
	payload := ErrorPayload(ErrOverflow, MsgTickSubscribe, 7, []byte("full"))

	perr, ok := DecodeError(payload)
	require.True(t, ok)
	assert.Equal(t, ErrOverflow, perr.Code)
	assert.Equal(t, MsgTickSubscribe, perr.Ref)
	assert.Equal(t, uint32(7), perr.RequestID)
	assert.Equal(t, "full", string(perr.Detail))
	assert.Contains(t, perr.Error(), "full")

	_, ok = DecodeError(payload[:7])
	assert.False(t, ok)

	long := ErrorPayload(ErrInternal, MsgSleep, 0, make([]byte, 300))
	assert.Len(t, long, maxPayload)
}
