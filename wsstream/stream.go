// Package wsstream reads and writes WebSocket frames over a byte stream
// such as a net.Conn whose handshake has already completed.
package wsstream

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/Amila-Rukshan/envoy/websocket"
	"github.com/Amila-Rukshan/envoy/websocket/internal/bufpool"
	"github.com/Amila-Rukshan/envoy/websocket/internal/errd"
	"github.com/Amila-Rukshan/envoy/websocket/wsbuf"
)

type readDeadliner interface {
	SetReadDeadline(t time.Time) error
}

// Reader decodes frames from an io.Reader.
// It must not be used concurrently.
type Reader struct {
	src    io.Reader
	buf    wsbuf.Buffer
	dec    *websocket.Decoder
	frames []websocket.Frame
	err    error
}

// NewReader returns a Reader decoding the bytes of src with the
// given decoder options. opts may be nil.
func NewReader(src io.Reader, opts *websocket.DecoderOptions) *Reader {
	return &Reader{
		src: src,
		dec: websocket.NewDecoder(opts),
	}
}

// Buffered returns the number of bytes read from the source
// that do not belong to a returned frame yet.
func (r *Reader) Buffered() int {
	return r.buf.Len()
}

// ReadFrame returns the next frame, reading from the source as needed.
//
// If the source is a net.Conn, cancelling ctx interrupts a blocked read
// and ReadFrame returns ctx.Err(); the Reader can be used again after.
// Any other error, including a decode error, is returned by every
// following call.
// A source ending in the middle of a frame yields io.ErrUnexpectedEOF.
func (r *Reader) ReadFrame(ctx context.Context) (_ websocket.Frame, err error) {
	defer errd.Wrap(&err, "failed to read frame")

	for len(r.frames) == 0 {
		if r.err != nil {
			return websocket.Frame{}, r.err
		}
		if err := ctx.Err(); err != nil {
			return websocket.Frame{}, err
		}

		err := r.fill(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return websocket.Frame{}, ctx.Err()
			}
			r.err = err
		}
	}

	f := r.frames[0]
	r.frames[0] = websocket.Frame{}
	r.frames = r.frames[1:]
	return f, nil
}

// fill reads once from the source and decodes what is buffered.
func (r *Reader) fill(ctx context.Context) error {
	if d, ok := r.src.(readDeadliner); ok {
		interrupted := make(chan struct{})
		stop := context.AfterFunc(ctx, func() {
			d.SetReadDeadline(time.Now())
			close(interrupted)
		})
		defer func() {
			if !stop() {
				<-interrupted
				d.SetReadDeadline(time.Time{})
			}
		}()
	}

	n, readErr := r.buf.Fill(r.src)
	if n > 0 {
		frames, err := r.dec.Decode(&r.buf)
		switch {
		case err == nil:
			r.frames = frames
		case errors.Is(err, websocket.ErrNoFrames):
		default:
			return err
		}
	}

	if readErr != nil {
		if errors.Is(readErr, io.EOF) && r.buf.Len() > 0 {
			return io.ErrUnexpectedEOF
		}
		return readErr
	}
	return nil
}

// Writer encodes frames to an io.Writer.
// It is safe for concurrent use; frames are never interleaved.
type Writer struct {
	mu  sync.Mutex
	dst io.Writer
}

// NewWriter returns a Writer writing to dst.
func NewWriter(dst io.Writer) *Writer {
	return &Writer{
		dst: dst,
	}
}

// WriteFrame writes the header of f followed by f.Payload in a single
// Write call. The payload length written is len(f.Payload).
//
// If f is masked, the payload is masked with f.MaskKey on the way out;
// f.Payload itself is not modified.
func (w *Writer) WriteFrame(f websocket.Frame) (err error) {
	defer errd.Wrap(&err, "failed to write frame")

	f.PayloadLength = uint64(len(f.Payload))

	b := bufpool.Get(websocket.HeaderSize(f) + len(f.Payload))
	defer bufpool.Put(b)

	hdr, err := websocket.AppendHeader(b.AvailableBuffer(), f)
	if err != nil {
		return err
	}
	b.Write(hdr)
	b.Write(f.Payload)
	if f.Masked {
		websocket.Mask(f.MaskKey, 0, b.Bytes()[len(hdr):])
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	_, err = w.dst.Write(b.Bytes())
	return err
}
