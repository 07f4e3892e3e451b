package wstest

import (
	"context"
	"io"
	"net"
	"net/http/httptest"

	"github.com/gobwas/ws"

	"github.com/Amila-Rukshan/envoy/websocket/internal/errd"
)

// Dial performs a client handshake on path of s with gobwas/ws.
// Frames must be read from the returned reader, it holds what the
// server sent right after its handshake response.
func Dial(ctx context.Context, s *httptest.Server, path string) (_ net.Conn, _ io.Reader, err error) {
	defer errd.Wrap(&err, "failed to dial %v", path)

	c, br, _, err := ws.Dialer{}.Dial(ctx, "ws://"+s.Listener.Addr().String()+path)
	if err != nil {
		return nil, nil, err
	}
	if br == nil {
		return c, c, nil
	}
	return c, io.MultiReader(br, c), nil
}
