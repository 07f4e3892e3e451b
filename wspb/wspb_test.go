package wspb_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/golang/protobuf/proto"
	"github.com/golang/protobuf/ptypes/wrappers"

	"github.com/Amila-Rukshan/envoy/websocket"
	"github.com/Amila-Rukshan/envoy/websocket/internal/test/assert"
	"github.com/Amila-Rukshan/envoy/websocket/internal/test/xrand"
	"github.com/Amila-Rukshan/envoy/websocket/wspb"
	"github.com/Amila-Rukshan/envoy/websocket/wsstream"
)

func TestPB(t *testing.T) {
	t.Parallel()

	t.Run("roundTrip", func(t *testing.T) {
		t.Parallel()

		exp := &wrappers.StringValue{Value: xrand.String(300)}

		var b bytes.Buffer
		err := wspb.Write(wsstream.NewWriter(&b), exp)
		assert.Success(t, err)

		got := &wrappers.StringValue{}
		err = wspb.Read(context.Background(), wsstream.NewReader(&b, nil), got)
		assert.Success(t, err)
		if !proto.Equal(exp, got) {
			t.Fatalf("expected %v but got %v", exp, got)
		}
	})

	t.Run("masked", func(t *testing.T) {
		t.Parallel()

		f, err := wspb.Frame(&wrappers.Int64Value{Value: 42})
		assert.Success(t, err)
		assert.Equal(t, "opcode", websocket.OpBinary, f.Opcode)

		f.Masked = true
		f.MaskKey = 0x12345678
		websocket.Mask(f.MaskKey, 0, f.Payload)

		got := &wrappers.Int64Value{}
		err = wspb.Decode(f, got)
		assert.Success(t, err)
		assert.Equal(t, "value", int64(42), got.Value)
	})

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		err := wspb.Decode(websocket.Frame{Fin: true, Opcode: websocket.OpText}, &wrappers.StringValue{})
		assert.Contains(t, err, "unexpected frame type")
	})

	t.Run("fragment", func(t *testing.T) {
		t.Parallel()

		err := wspb.Decode(websocket.Frame{Opcode: websocket.OpBinary}, &wrappers.StringValue{})
		assert.Contains(t, err, "fragmented")
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		err := wspb.Decode(websocket.Frame{Fin: true, Opcode: websocket.OpBinary, Payload: []byte{0xff}}, &wrappers.StringValue{})
		assert.Contains(t, err, "failed to unmarshal protobuf")
	})
}
