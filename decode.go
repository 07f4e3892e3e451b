package websocket

import (
	"github.com/rs/zerolog"
)

// Buffer is the input of a Decoder. It is usually a *wsbuf.Buffer.
type Buffer interface {
	// Slices returns the buffered bytes as an ordered list of
	// contiguous regions.
	Slices() [][]byte
	// Drain removes the first n bytes.
	Drain(n int)
}

// DecoderOptions represents the options available to a Decoder.
type DecoderOptions struct {
	// MaxPayloadLength rejects frames announcing a longer payload
	// with ErrPayloadTooLarge. Zero means no limit.
	MaxPayloadLength uint64

	// Logger receives decode failures at error level and every
	// decoded frame at trace level. Defaults to a no-op logger.
	Logger *zerolog.Logger
}

type decodeState int

const (
	// Waiting for the byte holding fin, rsv1-3 and the opcode.
	stateFlagsAndOpcode decodeState = iota
	// Waiting for the byte holding the mask flag and the 7 bit length.
	stateMaskAndLength
	// Waiting for the 2 or 8 bytes of the extended length.
	stateExtendedLength
	// Waiting for the 4 byte masking key.
	stateMaskingKey
	// Waiting for the payload.
	statePayload
	// The frame is complete and must be emitted before reading further.
	stateFinished
)

// Decoder decodes the bytes of a Buffer into Frames.
//
// A Decoder keeps no state between calls to Decode: bytes of a frame
// that is not complete yet stay in the Buffer and are parsed again from
// the frame's first byte on the next call. Those bytes must not be
// modified in between.
//
// A Decoder must not be used concurrently.
type Decoder struct {
	maxPayloadLength uint64
	log              zerolog.Logger

	state decodeState
	frame Frame
	// length accumulates the extended length, then counts down
	// the payload bytes still missing.
	length               uint64
	extendedLengthRemain int
	maskKeyRemain        int
	// consumed counts the bytes of the frame being decoded.
	consumed int

	framesDecoded uint64
}

// NewDecoder returns a Decoder. opts may be nil.
func NewDecoder(opts *DecoderOptions) *Decoder {
	if opts == nil {
		opts = &DecoderOptions{}
	}

	d := &Decoder{
		maxPayloadLength: opts.MaxPayloadLength,
		log:              zerolog.Nop(),
	}
	if opts.Logger != nil {
		d.log = *opts.Logger
	}
	return d
}

// FramesDecoded returns the number of frames returned by Decode
// over the lifetime of d.
func (d *Decoder) FramesDecoded() uint64 {
	return d.framesDecoded
}

// Decode decodes every complete frame in input, in order, and drains
// exactly the bytes of those frames from input. Trailing bytes of an
// incomplete frame are left in input for the next call.
//
// If input does not hold a complete frame, Decode returns ErrNoFrames.
// Any other error is fatal for the connection: the frames decoded by
// this call are discarded and the bytes of the failing frame are not
// drained. Bytes of frames completed before the failure are drained.
func (d *Decoder) Decode(input Buffer) ([]Frame, error) {
	d.reset()

	var frames []Frame
	drained := 0
	// input is drained once at the end as the slices alias its memory.
	defer func() {
		if drained > 0 {
			input.Drain(drained)
		}
	}()

	slices := input.Slices()
	avail := 0
	for _, data := range slices {
		avail += len(data)
	}

decode:
	for _, data := range slices {
		for len(data) > 0 || d.state == stateFinished {
			var n int
			var err error
			switch d.state {
			case stateFlagsAndOpcode:
				n, err = d.decodeFlagsAndOpcode(data)
			case stateMaskAndLength:
				n, err = d.decodeMaskAndLength(data)
			case stateExtendedLength:
				n, err = d.decodeExtendedLength(data)
			case stateMaskingKey:
				n = d.decodeMaskingKey(data)
			case statePayload:
				// The payload is only copied once all of it is buffered.
				if d.length > uint64(avail) {
					break decode
				}
				n = d.decodePayload(data)
			case stateFinished:
				frames = append(frames, d.emit())
				drained += d.consumed
				d.reset()
			}
			if err != nil {
				d.reset()
				return nil, err
			}
			data = data[n:]
			avail -= n
			d.consumed += n
		}
	}

	// Only the builder state of a partial frame is discarded, its
	// bytes are still in input.
	d.reset()

	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	d.framesDecoded += uint64(len(frames))
	return frames, nil
}

func (d *Decoder) reset() {
	d.state = stateFlagsAndOpcode
	d.frame = Frame{}
	d.length = 0
	d.extendedLengthRemain = 0
	d.maskKeyRemain = 0
	d.consumed = 0
}

func (d *Decoder) decodeFlagsAndOpcode(data []byte) (int, error) {
	op := Opcode(data[0] & 0xf)
	if !op.Valid() {
		d.log.Error().Uint8("opcode", uint8(op)).Msg("failed to decode websocket frame with invalid opcode")
		return 0, &OpcodeError{Opcode: op}
	}

	d.frame.Opcode = op
	d.frame.Fin = data[0]&(1<<7) != 0
	d.state = stateMaskAndLength
	return 1, nil
}

func (d *Decoder) decodeMaskAndLength(data []byte) (int, error) {
	if data[0]&(1<<7) != 0 {
		d.frame.Masked = true
		d.maskKeyRemain = maskKeySize
	}

	switch length := data[0] &^ (1 << 7); length {
	case payloadLength16:
		d.extendedLengthRemain = extendedLength16Size
		d.state = stateExtendedLength
	case payloadLength64:
		d.extendedLengthRemain = extendedLength64Size
		d.state = stateExtendedLength
	default:
		d.length = uint64(length)
		return 1, d.lengthDecoded()
	}
	return 1, nil
}

func (d *Decoder) decodeExtendedLength(data []byte) (int, error) {
	n := min(len(data), d.extendedLengthRemain)
	for _, b := range data[:n] {
		d.length = d.length<<8 | uint64(b)
	}
	d.extendedLengthRemain -= n

	if d.extendedLengthRemain > 0 {
		return n, nil
	}
	return n, d.lengthDecoded()
}

// lengthDecoded is called once the payload length is known.
func (d *Decoder) lengthDecoded() error {
	if d.maxPayloadLength > 0 && d.length > d.maxPayloadLength {
		d.log.Error().
			Uint64("payload_length", d.length).
			Uint64("max_payload_length", d.maxPayloadLength).
			Msg("failed to decode websocket frame exceeding the payload limit")
		return ErrPayloadTooLarge
	}

	if d.maskKeyRemain > 0 {
		d.state = stateMaskingKey
		return nil
	}
	d.startPayload()
	return nil
}

func (d *Decoder) decodeMaskingKey(data []byte) int {
	n := min(len(data), d.maskKeyRemain)
	for _, b := range data[:n] {
		d.frame.MaskKey = d.frame.MaskKey<<8 | uint32(b)
	}
	d.maskKeyRemain -= n

	if d.maskKeyRemain == 0 {
		d.startPayload()
	}
	return n
}

func (d *Decoder) startPayload() {
	d.frame.PayloadLength = d.length
	if d.length == 0 {
		d.state = stateFinished
		return
	}
	d.state = statePayload
}

func (d *Decoder) decodePayload(data []byte) int {
	if d.frame.Payload == nil {
		d.frame.Payload = make([]byte, 0, d.length)
	}
	n := len(data)
	if uint64(n) > d.length {
		n = int(d.length)
	}
	d.frame.Payload = append(d.frame.Payload, data[:n]...)
	d.length -= uint64(n)

	if d.length == 0 {
		d.state = stateFinished
	}
	return n
}

// emit hands the finished frame over to the caller.
func (d *Decoder) emit() Frame {
	f := d.frame
	d.frame = Frame{}

	d.log.Trace().
		Stringer("opcode", f.Opcode).
		Bool("fin", f.Fin).
		Bool("masked", f.Masked).
		Uint64("payload_length", f.PayloadLength).
		Msg("decoded websocket frame")
	return f
}
