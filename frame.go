package websocket

// Frame is the in-memory representation of a single WebSocket frame.
// See https://tools.ietf.org/html/rfc6455#section-5.2
//
//	 0                   1                   2                   3
//	 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
//	+-+-+-+-+-------+-+-------------+-------------------------------+
//	|F|R|R|R| opcode|M| Payload len |    Extended payload length    |
//	|I|S|S|S|  (4)  |A|     (7)     |             (16/64)           |
//	|N|V|V|V|       |S|             |   (if payload len==126/127)   |
//	| |1|2|3|       |K|             |                               |
//	+-+-+-+-+-------+-+-------------+ - - - - - - - - - - - - - - - +
//	|     Extended payload length continued, if payload len == 127  |
//	+ - - - - - - - - - - - - - - - +-------------------------------+
//	|                               | Masking-key, if MASK set to 1 |
//	+-------------------------------+-------------------------------+
//	| Masking-key (continued)       |          Payload Data         |
//	+-------------------------------- - - - - - - - - - - - - - - - +
//	:                     Payload Data continued ...                :
//	+---------------------------------------------------------------+
type Frame struct {
	// Fin is set on the last frame of a message.
	Fin    bool
	Opcode Opcode

	// Masked reports whether the masking key is present.
	// MaskKey holds it in network byte order: 0x37fa213d
	// is 37 fa 21 3d on the wire.
	Masked  bool
	MaskKey uint32

	// PayloadLength equals len(Payload) on every frame returned
	// by the Decoder.
	PayloadLength uint64
	// Payload is left exactly as it was on the wire, so it is
	// still masked if Masked is set. See Mask.
	Payload []byte
}

// First byte contains fin, rsv1, rsv2, rsv3 and the opcode.
// Second byte contains the mask flag and the 7 bit payload length.
// Next 8 bytes are the maximum extended payload length.
// Last 4 bytes are the mask key.
const maxHeaderSize = 1 + 1 + 8 + 4

const (
	// maxInlineLength is the largest payload length stored in
	// the 7 bit field itself.
	maxInlineLength = 125

	// Values of the 7 bit field announcing an extended length.
	payloadLength16 = 126
	payloadLength64 = 127

	extendedLength16Size = 2
	extendedLength64Size = 8
	maskKeySize          = 4
)

// MaxControlPayload is the largest payload a control frame may carry.
// See https://tools.ietf.org/html/rfc6455#section-5.5
const MaxControlPayload = 125
