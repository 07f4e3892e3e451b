package websocket_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/gobwas/ws"

	"github.com/Amila-Rukshan/envoy/websocket"
	"github.com/Amila-Rukshan/envoy/websocket/internal/test/assert"
	"github.com/Amila-Rukshan/envoy/websocket/internal/test/xrand"
)

var validOpcodes = []websocket.Opcode{
	websocket.OpContinuation,
	websocket.OpText,
	websocket.OpBinary,
	websocket.OpClose,
	websocket.OpPing,
	websocket.OpPong,
}

func randFrameHeader(maxLength int) websocket.Frame {
	f := websocket.Frame{
		Fin:           xrand.Bool(),
		Opcode:        validOpcodes[xrand.Int(len(validOpcodes))],
		Masked:        xrand.Bool(),
		PayloadLength: uint64(xrand.Int(maxLength)),
	}
	if f.Masked {
		f.MaskKey = xrand.Uint32()
	}
	return f
}

func TestEncodeHeader(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		f    websocket.Frame
		exp  []byte
	}{
		{
			name: "unmaskedText",
			f:    websocket.Frame{Fin: true, Opcode: websocket.OpText, PayloadLength: 5},
			exp:  []byte{0x81, 0x05},
		},
		{
			name: "maskedText",
			f:    websocket.Frame{Fin: true, Opcode: websocket.OpText, Masked: true, MaskKey: 0x37fa213d, PayloadLength: 5},
			exp:  []byte{0x81, 0x85, 0x37, 0xfa, 0x21, 0x3d},
		},
		{
			name: "maskedContinuation",
			f:    websocket.Frame{Opcode: websocket.OpContinuation, Masked: true, MaskKey: 0x3c332a16, PayloadLength: 5},
			exp:  []byte{0x00, 0x85, 0x3c, 0x33, 0x2a, 0x16},
		},
		{
			name: "unmasked16",
			f:    websocket.Frame{Fin: true, Opcode: websocket.OpBinary, PayloadLength: 256},
			exp:  []byte{0x82, 0x7e, 0x01, 0x00},
		},
		{
			name: "masked16",
			f:    websocket.Frame{Fin: true, Opcode: websocket.OpBinary, Masked: true, MaskKey: 0x37fa213d, PayloadLength: 256},
			exp:  []byte{0x82, 0xfe, 0x01, 0x00, 0x37, 0xfa, 0x21, 0x3d},
		},
		{
			name: "unmasked64",
			f:    websocket.Frame{Fin: true, Opcode: websocket.OpBinary, PayloadLength: 77777},
			exp:  []byte{0x82, 0x7f, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x2f, 0xd1},
		},
		{
			name: "masked64",
			f:    websocket.Frame{Fin: true, Opcode: websocket.OpBinary, Masked: true, MaskKey: 0x37fa213d, PayloadLength: 77777},
			exp:  []byte{0x82, 0xff, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x2f, 0xd1, 0x37, 0xfa, 0x21, 0x3d},
		},
		{
			name: "close",
			f:    websocket.Frame{Opcode: websocket.OpClose},
			exp:  []byte{0x08, 0x00},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			b, err := websocket.EncodeHeader(tc.f)
			assert.Success(t, err)
			assert.Equal(t, "header", tc.exp, b)
			assert.Equal(t, "header size", len(tc.exp), websocket.HeaderSize(tc.f))
		})
	}
}

func TestEncodeHeaderLengths(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		length uint64
		len7   byte
		size   int
	}{
		{0, 0, 2},
		{1, 1, 2},
		{124, 124, 2},
		{125, 125, 2},
		{126, 126, 4},
		{127, 126, 4},
		{65534, 126, 4},
		{65535, 126, 4},
		{65536, 127, 10},
		{65537, 127, 10},
		{math.MaxInt64, 127, 10},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(strconv.FormatUint(tc.length, 10), func(t *testing.T) {
			t.Parallel()

			b, err := websocket.EncodeHeader(websocket.Frame{
				Fin:           true,
				Opcode:        websocket.OpBinary,
				PayloadLength: tc.length,
			})
			assert.Success(t, err)
			assert.Equal(t, "header size", tc.size, len(b))
			assert.Equal(t, "7 bit length", tc.len7, b[1]&0x7f)

			switch tc.size {
			case 4:
				assert.Equal(t, "16 bit length", tc.length, uint64(binary.BigEndian.Uint16(b[2:])))
			case 10:
				assert.Equal(t, "64 bit length", tc.length, binary.BigEndian.Uint64(b[2:]))
			}
		})
	}
}

func TestEncodeHeaderInvalidOpcode(t *testing.T) {
	t.Parallel()

	for _, op := range []websocket.Opcode{3, 4, 5, 6, 7, 11, 12, 13, 14, 15, 16, 0x80, 0xff} {
		op := op
		t.Run(op.String(), func(t *testing.T) {
			t.Parallel()

			b, err := websocket.EncodeHeader(websocket.Frame{Fin: true, Opcode: op, PayloadLength: 3})
			assert.ErrorIs(t, websocket.ErrInvalidOpcode, err)
			assert.Equal(t, "header", []byte(nil), b)

			var opErr *websocket.OpcodeError
			if !errors.As(err, &opErr) || opErr.Opcode != op {
				t.Fatalf("expected *OpcodeError for %v but got %#v", op, err)
			}

			prefix := []byte{0xaa}
			b, err = websocket.AppendHeader(prefix, websocket.Frame{Opcode: op})
			assert.Error(t, err)
			assert.Equal(t, "appended header", prefix, b)
		})
	}
}

func TestOpcode(t *testing.T) {
	t.Parallel()

	for i := 0; i < 256; i++ {
		op := websocket.Opcode(i)
		valid := op.Data() || op.Control()
		assert.Equal(t, "valid "+op.String(), valid, op.Valid())
		if op.Data() && op.Control() {
			t.Fatalf("%v cannot be both a data and a control opcode", op)
		}
	}

	assert.Equal(t, "string", "OpPong", websocket.OpPong.String())
	assert.Equal(t, "string", "Opcode(3)", websocket.Opcode(3).String())
}

// TestHeaderGobwas checks our headers against the ones of github.com/gobwas/ws.
func TestHeaderGobwas(t *testing.T) {
	t.Parallel()

	t.Run("encode", func(t *testing.T) {
		t.Parallel()

		for i := 0; i < 10000; i++ {
			f := randFrameHeader(math.MaxInt32)

			b, err := websocket.EncodeHeader(f)
			assert.Success(t, err)

			h, err := ws.ReadHeader(bytes.NewReader(b))
			assert.Success(t, err)
			assert.Equal(t, "gobwas header", gobwasHeader(f), h)
			assert.Equal(t, "header size", ws.HeaderSize(h), len(b))
		}
	})

	t.Run("decode", func(t *testing.T) {
		t.Parallel()

		for i := 0; i < 200; i++ {
			f := randFrameHeader(1 << 17)
			f.Payload = xrand.Bytes(int(f.PayloadLength))

			b := &bytes.Buffer{}
			err := ws.WriteHeader(b, gobwasHeader(f))
			assert.Success(t, err)
			b.Write(f.Payload)

			frames, err := websocket.NewDecoder(nil).Decode(bufferOf(b.Bytes()))
			assert.Success(t, err)
			assertFrames(t, []websocket.Frame{f}, frames)
		}
	})
}

func gobwasHeader(f websocket.Frame) ws.Header {
	h := ws.Header{
		Fin:    f.Fin,
		OpCode: ws.OpCode(f.Opcode),
		Masked: f.Masked,
		Length: int64(f.PayloadLength),
	}
	if f.Masked {
		binary.BigEndian.PutUint32(h.Mask[:], f.MaskKey)
	}
	return h
}
