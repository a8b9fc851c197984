package proto

import (
	"encoding/binary"
	"fmt"
)

const errorHeaderLen = 8

// Error is a decoded MsgError payload.
type Error struct {
	Code ErrCode
	// Ref is the request kind that failed.
	Ref Kind
	// RequestID echoes the request's ID; 0 when the request carried none.
	RequestID uint32
	Detail    []byte
}

func (e *Error) Error() string {
	if len(e.Detail) > 0 {
		return fmt.Sprintf("%s: %s: %s", e.Ref, e.Code, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Ref, e.Code)
}

// ErrorPayload encodes a MsgError payload.
//
// Layout (little-endian):
//   - u16: code
//   - u16: ref kind
//   - u32: request ID
//   - bytes: optional detail, truncated to fit one message
func ErrorPayload(code ErrCode, ref Kind, requestID uint32, detail []byte) []byte {
	if room := maxPayload - errorHeaderLen; len(detail) > room {
		detail = detail[:room]
	}
	buf := make([]byte, errorHeaderLen+len(detail))
	binary.LittleEndian.PutUint16(buf[0:2], uint16(code))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(ref))
	binary.LittleEndian.PutUint32(buf[4:8], requestID)
	copy(buf[errorHeaderLen:], detail)
	return buf
}

// DecodeError decodes an ErrorPayload. Detail aliases payload.
func DecodeError(payload []byte) (*Error, bool) {
	if len(payload) < errorHeaderLen {
		return nil, false
	}
	return &Error{
		Code:      ErrCode(binary.LittleEndian.Uint16(payload[0:2])),
		Ref:       Kind(binary.LittleEndian.Uint16(payload[2:4])),
		RequestID: binary.LittleEndian.Uint32(payload[4:8]),
		Detail:    payload[errorHeaderLen:],
	}, true
}
