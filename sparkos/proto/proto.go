package proto

// maxPayload mirrors kernel.MaxMessageBytes.
const maxPayload = 128

// Kind identifies the message type carried in kernel.Message.Kind.
type Kind uint16

const (
	MsgLogLine Kind = iota + 1
	MsgSleep
	MsgWake
	MsgError
	MsgTickSubscribe
	MsgTickUnsubscribe
	MsgTimeTick
	MsgAppShutdown
)

// ErrCode is a generic error category for MsgError responses.
type ErrCode uint16

const (
	ErrUnknown ErrCode = iota
	ErrBadMessage
	ErrNotFound
	ErrBusy
	ErrOverflow
	ErrInternal
)

func (c ErrCode) String() string {
	switch c {
	case ErrUnknown:
		return "unknown"
	case ErrBadMessage:
		return "bad_message"
	case ErrNotFound:
		return "not_found"
	case ErrBusy:
		return "busy"
	case ErrOverflow:
		return "overflow"
	case ErrInternal:
		return "internal"
	default:
		return "unknown"
	}
}

func (k Kind) String() string {
	switch k {
	case MsgLogLine:
		return "log_line"
	case MsgSleep:
		return "sleep"
	case MsgWake:
		return "wake"
	case MsgError:
		return "error"
	case MsgTickSubscribe:
		return "tick_subscribe"
	case MsgTickUnsubscribe:
		return "tick_unsubscribe"
	case MsgTimeTick:
		return "time_tick"
	case MsgAppShutdown:
		return "app_shutdown"
	default:
		return "unknown"
	}
}
