package proto

import (
	"encoding/binary"
	"time"
)

// SleepPayload encodes a MsgSleep request payload.
//
// Layout (little-endian):
//   - u32: requestID
//   - u32: dt ticks
func SleepPayload(requestID uint32, dt uint32) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:4], requestID)
	binary.LittleEndian.PutUint32(buf[4:8], dt)
	return buf
}

// DecodeSleepPayload decodes a SleepPayload.
func DecodeSleepPayload(payload []byte) (requestID uint32, dt uint32, ok bool) {
	if len(payload) < 8 {
		return 0, 0, false
	}
	requestID = binary.LittleEndian.Uint32(payload[0:4])
	dt = binary.LittleEndian.Uint32(payload[4:8])
	return requestID, dt, true
}

// WakePayload encodes a MsgWake response payload.
//
// Layout (little-endian):
//   - u32: requestID
func WakePayload(requestID uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf[0:4], requestID)
	return buf
}

// DecodeWakePayload decodes a WakePayload.
func DecodeWakePayload(payload []byte) (requestID uint32, ok bool) {
	if len(payload) < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(payload[0:4]), true
}

// TimeUnits is a bitmask of calendar units.
type TimeUnits uint8

const (
	UnitSecond TimeUnits = 1 << iota
	UnitMinute
	UnitHour
	UnitDay
	UnitMonth
	UnitYear

	UnitAll = UnitSecond | UnitMinute | UnitHour | UnitDay | UnitMonth | UnitYear
)

// ChangedUnits reports which calendar units differ between two instants.
//
// Both instants are compared in the location of now. UnitDay is set whenever the
// calendar date differs, so a month or year change also carries it.
func ChangedUnits(prev, now time.Time) TimeUnits {
	prev = prev.In(now.Location())

	py, pm, pd := prev.Date()
	ny, nm, nd := now.Date()

	var u TimeUnits
	if py != ny {
		u |= UnitYear
	}
	if u != 0 || pm != nm {
		u |= UnitMonth
	}
	if u != 0 || pd != nd {
		u |= UnitDay
	}
	if u != 0 || prev.Hour() != now.Hour() {
		u |= UnitHour
	}
	if u != 0 || prev.Minute() != now.Minute() {
		u |= UnitMinute
	}
	if u != 0 || prev.Second() != now.Second() {
		u |= UnitSecond
	}
	return u
}

// TickFlags carries host display preferences alongside a tick.
type TickFlags uint8

const (
	// TickFlag24Hour is set when the host prefers a 24-hour clock.
	TickFlag24Hour TickFlags = 1 << iota
)

// Tick is the decoded form of a MsgTimeTick payload.
type Tick struct {
	Unix   int64
	Offset int32 // seconds east of UTC
	Units  TimeUnits
	Flags  TickFlags
}

// Time returns the tick instant in a fixed zone carrying its UTC offset.
func (t Tick) Time() time.Time {
	return time.Unix(t.Unix, 0).In(time.FixedZone("", int(t.Offset)))
}

// Use24Hour reports the host's 12/24-hour preference at delivery time.
func (t Tick) Use24Hour() bool { return t.Flags&TickFlag24Hour != 0 }

// NewTick builds a Tick from a local instant.
func NewTick(now time.Time, units TimeUnits, use24Hour bool) Tick {
	_, off := now.Zone()
	t := Tick{Unix: now.Unix(), Offset: int32(off), Units: units}
	if use24Hour {
		t.Flags |= TickFlag24Hour
	}
	return t
}

const tickPayloadLen = 14

// TickPayload encodes a MsgTimeTick payload.
//
// Layout (little-endian):
//   - i64: unix seconds
//   - i32: utc offset seconds
//   - u8: changed units
//   - u8: flags
func TickPayload(t Tick) []byte {
	buf := make([]byte, tickPayloadLen)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(t.Unix))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(t.Offset))
	buf[12] = byte(t.Units)
	buf[13] = byte(t.Flags)
	return buf
}

// DecodeTickPayload decodes a TickPayload.
func DecodeTickPayload(payload []byte) (Tick, bool) {
	if len(payload) < tickPayloadLen {
		return Tick{}, false
	}
	return Tick{
		Unix:   int64(binary.LittleEndian.Uint64(payload[0:8])),
		Offset: int32(binary.LittleEndian.Uint32(payload[8:12])),
		Units:  TimeUnits(payload[12]),
		Flags:  TickFlags(payload[13]),
	}, true
}

// TickSubscribePayload encodes a MsgTickSubscribe request.
//
// Layout:
//   - u8: units of interest
func TickSubscribePayload(units TimeUnits) []byte {
	return []byte{byte(units)}
}

// DecodeTickSubscribePayload decodes a TickSubscribePayload.
func DecodeTickSubscribePayload(payload []byte) (TimeUnits, bool) {
	if len(payload) != 1 || payload[0] == 0 {
		return 0, false
	}
	return TimeUnits(payload[0]), true
}
