// Package wsjson provides helpers for frames carrying a JSON value.
package wsjson

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Amila-Rukshan/envoy/websocket"
	"github.com/Amila-Rukshan/envoy/websocket/internal/bufpool"
	"github.com/Amila-Rukshan/envoy/websocket/internal/errd"
	"github.com/Amila-Rukshan/envoy/websocket/wsstream"
)

// Read reads the next frame from r and decodes its JSON payload into v.
func Read(ctx context.Context, r *wsstream.Reader, v interface{}) (err error) {
	defer errd.Wrap(&err, "failed to read JSON frame")

	f, err := r.ReadFrame(ctx)
	if err != nil {
		return err
	}
	return Decode(f, v)
}

// Decode unmarshals the payload of f into v.
// f must be a final text frame; its payload is unmasked on a copy
// if needed.
func Decode(f websocket.Frame, v interface{}) error {
	if f.Opcode != websocket.OpText {
		return fmt.Errorf("unexpected frame type for JSON (expected %v): %v", websocket.OpText, f.Opcode)
	}
	if !f.Fin {
		return fmt.Errorf("JSON value fragmented over several frames")
	}

	p := f.Payload
	if f.Masked {
		p = append([]byte(nil), p...)
		websocket.Mask(f.MaskKey, 0, p)
	}

	err := json.Unmarshal(p, v)
	if err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return nil
}

// Write writes v encoded as JSON in a single unmasked text frame.
func Write(w *wsstream.Writer, v interface{}) (err error) {
	defer errd.Wrap(&err, "failed to write JSON frame")

	f, err := Frame(v)
	if err != nil {
		return err
	}
	return w.WriteFrame(f)
}

// Frame returns a final text frame whose payload is v encoded as JSON.
func Frame(v interface{}) (websocket.Frame, error) {
	b := bufpool.Get(0)
	defer bufpool.Put(b)

	err := json.NewEncoder(b).Encode(v)
	if err != nil {
		return websocket.Frame{}, fmt.Errorf("failed to encode JSON: %w", err)
	}

	p := append([]byte(nil), b.Bytes()...)
	return websocket.Frame{
		Fin:           true,
		Opcode:        websocket.OpText,
		PayloadLength: uint64(len(p)),
		Payload:       p,
	}, nil
}
