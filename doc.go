// Package websocket implements the WebSocket frame codec.
//
// See https://tools.ietf.org/html/rfc6455#section-5.2
//
// The Decoder turns bytes accumulated in a Buffer into Frames, draining
// only the bytes of frames it completes. EncodeHeader produces the header
// bytes for a Frame; the caller writes the payload right after it.
//
// Handshakes, message reassembly, extensions and close codes are left to
// the layers built on top of this package.
package websocket
