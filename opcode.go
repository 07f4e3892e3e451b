package websocket

// Opcode represents a WebSocket opcode.
type Opcode uint8

//go:generate stringer -type=Opcode

// https://tools.ietf.org/html/rfc6455#section-11.8.
const (
	OpContinuation Opcode = iota
	OpText
	OpBinary
	// 3 - 7 are reserved for further non-control frames.
	_
	_
	_
	_
	_
	OpClose
	OpPing
	OpPong
	// 11-15 are reserved for further control frames.
)

// Valid reports whether o is one of the opcodes defined by RFC 6455.
// Reserved values and anything that does not fit in 4 bits are invalid.
func (o Opcode) Valid() bool {
	switch o {
	case OpContinuation, OpText, OpBinary, OpClose, OpPing, OpPong:
		return true
	}
	return false
}

// Control reports whether o is a control opcode.
func (o Opcode) Control() bool {
	switch o {
	case OpClose, OpPing, OpPong:
		return true
	}
	return false
}

// Data reports whether o is a data opcode, continuation included.
func (o Opcode) Data() bool {
	switch o {
	case OpContinuation, OpText, OpBinary:
		return true
	}
	return false
}
