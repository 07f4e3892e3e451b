package websocket

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOpcode is matched by every error reporting an opcode
	// outside of the six defined by RFC 6455. On decode it is fatal
	// for the connection.
	ErrInvalidOpcode = errors.New("websocket: invalid opcode")

	// ErrNoFrames is returned by Decoder.Decode when the buffer does not
	// hold a complete frame yet. It is not a protocol error.
	ErrNoFrames = errors.New("websocket: no complete frame available")

	// ErrPayloadTooLarge is returned by Decoder.Decode when a header
	// announces more payload than DecoderOptions.MaxPayloadLength.
	ErrPayloadTooLarge = errors.New("websocket: frame payload too large")
)

// OpcodeError reports the invalid opcode that was seen.
type OpcodeError struct {
	Opcode Opcode
}

func (e *OpcodeError) Error() string {
	return fmt.Sprintf("websocket: invalid opcode %#x", uint8(e.Opcode))
}

// Is makes errors.Is(err, ErrInvalidOpcode) true for an *OpcodeError.
func (e *OpcodeError) Is(target error) bool {
	return target == ErrInvalidOpcode
}
