package websocket

import (
	"encoding/binary"
	"math"
)

// EncodeHeader returns the wire encoding of the header of f.
// The payload is not included; write f.Payload, masked if f.Masked,
// right after it.
//
// It fails with an *OpcodeError if f.Opcode is not valid.
func EncodeHeader(f Frame) ([]byte, error) {
	b, err := AppendHeader(make([]byte, 0, maxHeaderSize), f)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// AppendHeader is like EncodeHeader but appends the header to b.
// On error b is returned unchanged.
// See https://tools.ietf.org/html/rfc6455#section-5.2
func AppendHeader(b []byte, f Frame) ([]byte, error) {
	if !f.Opcode.Valid() {
		return b, &OpcodeError{Opcode: f.Opcode}
	}

	// The reserved bits are always zero as no extensions are supported.
	b0 := byte(f.Opcode)
	if f.Fin {
		b0 |= 1 << 7
	}

	var b1 byte
	if f.Masked {
		b1 |= 1 << 7
	}

	switch {
	case f.PayloadLength <= maxInlineLength:
		b = append(b, b0, b1|byte(f.PayloadLength))
	case f.PayloadLength <= math.MaxUint16:
		b = append(b, b0, b1|payloadLength16)
		b = binary.BigEndian.AppendUint16(b, uint16(f.PayloadLength))
	default:
		b = append(b, b0, b1|payloadLength64)
		b = binary.BigEndian.AppendUint64(b, f.PayloadLength)
	}

	if f.Masked {
		b = binary.BigEndian.AppendUint32(b, f.MaskKey)
	}

	return b, nil
}

// HeaderSize returns the number of bytes EncodeHeader produces for f.
func HeaderSize(f Frame) int {
	n := 2
	switch {
	case f.PayloadLength <= maxInlineLength:
	case f.PayloadLength <= math.MaxUint16:
		n += extendedLength16Size
	default:
		n += extendedLength64Size
	}
	if f.Masked {
		n += maskKeySize
	}
	return n
}
