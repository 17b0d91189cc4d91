package wire

type MessageType uint8

const (
	MessageTypeHello   MessageType = 1
	MessageTypeConfirm MessageType = 2
	MessageTypeData    MessageType = 3
	MessageTypeClose   MessageType = 4
)

// Valid reports whether t is a known message type.
func (t MessageType) Valid() bool {
	return t >= MessageTypeHello && t <= MessageTypeClose
}

func (t MessageType) String() string {
	switch t {
	case MessageTypeHello:
		return "HELLO"
	case MessageTypeConfirm:
		return "CONFIRM"
	case MessageTypeData:
		return "DATA"
	case MessageTypeClose:
		return "CLOSE"
	default:
		return "UNKNOWN"
	}
}
