// Package wsecho echoes WebSocket frames over connections whose
// handshake is already done, or that carry raw frames from the start.
package wsecho

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/Amila-Rukshan/envoy/websocket"
	"github.com/Amila-Rukshan/envoy/websocket/internal/errd"
	"github.com/Amila-Rukshan/envoy/websocket/wsstream"
)

// Loop echoes every frame read from r to w until a close frame has been
// echoed, an error occurs or the context expires.
//
// Masked frames are unmasked before being sent back. Control frames
// must be final and carry at most websocket.MaxControlPayload bytes. A ping is answered
// with a pong carrying the same payload and pongs are dropped.
// If l is non nil, one token is taken per frame read.
func Loop(ctx context.Context, r *wsstream.Reader, w *wsstream.Writer, l *rate.Limiter, log zerolog.Logger) (err error) {
	defer errd.Wrap(&err, "echo loop failed")

	for {
		if l != nil {
			err = l.Wait(ctx)
			if err != nil {
				return err
			}
		}

		f, err := r.ReadFrame(ctx)
		if err != nil {
			return err
		}
		if f.Opcode.Control() && (!f.Fin || f.PayloadLength > websocket.MaxControlPayload) {
			return fmt.Errorf("invalid %v frame: fin %v, payload length %v", f.Opcode, f.Fin, f.PayloadLength)
		}
		if f.Masked {
			websocket.Mask(f.MaskKey, 0, f.Payload)
			f.Masked = false
			f.MaskKey = 0
		}

		switch f.Opcode {
		case websocket.OpPong:
			log.Debug().Uint64("payload_length", f.PayloadLength).Msg("dropped pong")
			continue
		case websocket.OpPing:
			f.Opcode = websocket.OpPong
		}

		err = w.WriteFrame(f)
		if err != nil {
			return err
		}
		log.Trace().Stringer("opcode", f.Opcode).Bool("fin", f.Fin).Msg("echoed frame")

		if f.Opcode == websocket.OpClose {
			return nil
		}
	}
}

// Options configures Serve.
type Options struct {
	// MaxPayloadLength is passed on to the decoder of each connection.
	MaxPayloadLength uint64
	// RateLimit is the number of frames per second each connection
	// may send. Zero disables the limit.
	RateLimit float64
	// Burst is the limiter burst. Defaults to 1.
	Burst int

	Logger zerolog.Logger
}

// Serve runs Loop on every connection accepted from ln until ctx is
// done. ln is closed when Serve returns. Serve waits for the
// connections it started to finish.
func Serve(ctx context.Context, ln net.Listener, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		c, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			serveConn(ctx, c, opts)
		}()
	}
}

func serveConn(ctx context.Context, c net.Conn, opts Options) {
	defer c.Close()

	log := opts.Logger.With().Stringer("remote_addr", c.RemoteAddr()).Logger()

	var l *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		l = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	r := wsstream.NewReader(c, &websocket.DecoderOptions{
		MaxPayloadLength: opts.MaxPayloadLength,
		Logger:           &log,
	})
	w := wsstream.NewWriter(c)

	log.Debug().Msg("accepted connection")
	err := Loop(ctx, r, w, l, log)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		log.Debug().Msg("closed connection")
	case errors.Is(err, io.EOF):
		log.Debug().Msg("connection closed by peer")
	default:
		log.Error().Err(err).Msg("failed to echo frames")
	}
}
