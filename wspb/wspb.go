// Package wspb provides helpers for frames carrying a protobuf message.
package wspb

import (
	"context"
	"fmt"

	"github.com/golang/protobuf/proto"

	"github.com/Amila-Rukshan/envoy/websocket"
	"github.com/Amila-Rukshan/envoy/websocket/internal/errd"
	"github.com/Amila-Rukshan/envoy/websocket/wsstream"
)

// Read reads the next frame from r and unmarshals its protobuf
// payload into v.
func Read(ctx context.Context, r *wsstream.Reader, v proto.Message) (err error) {
	defer errd.Wrap(&err, "failed to read protobuf frame")

	f, err := r.ReadFrame(ctx)
	if err != nil {
		return err
	}
	return Decode(f, v)
}

// Decode unmarshals the payload of f into v.
// f must be a final binary frame.
func Decode(f websocket.Frame, v proto.Message) error {
	if f.Opcode != websocket.OpBinary {
		return fmt.Errorf("unexpected frame type for protobuf (expected %v): %v", websocket.OpBinary, f.Opcode)
	}
	if !f.Fin {
		return fmt.Errorf("protobuf message fragmented over several frames")
	}

	p := f.Payload
	if f.Masked {
		p = append([]byte(nil), p...)
		websocket.Mask(f.MaskKey, 0, p)
	}

	err := proto.Unmarshal(p, v)
	if err != nil {
		return fmt.Errorf("failed to unmarshal protobuf: %w", err)
	}
	return nil
}

// Write writes v in a single unmasked binary frame.
func Write(w *wsstream.Writer, v proto.Message) (err error) {
	defer errd.Wrap(&err, "failed to write protobuf frame")

	f, err := Frame(v)
	if err != nil {
		return err
	}
	return w.WriteFrame(f)
}

// Frame returns a final binary frame whose payload is v marshalled.
func Frame(v proto.Message) (websocket.Frame, error) {
	p, err := proto.Marshal(v)
	if err != nil {
		return websocket.Frame{}, fmt.Errorf("failed to marshal protobuf: %w", err)
	}

	return websocket.Frame{
		Fin:           true,
		Opcode:        websocket.OpBinary,
		PayloadLength: uint64(len(p)),
		Payload:       p,
	}, nil
}
