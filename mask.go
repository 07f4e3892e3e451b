package websocket

import (
	"encoding/binary"

	"github.com/gobwas/ws"
)

// Mask applies the WebSocket masking algorithm to b in place with the
// given key, starting at byte pos of the key. Masking and unmasking are
// the same operation.
// See https://tools.ietf.org/html/rfc6455#section-5.3
//
// The returned value is the key position for the byte following b so
// that a payload can be processed in pieces.
//
// The codec never calls Mask itself, frames are decoded and encoded
// with their payload exactly as it is on the wire.
func Mask(key uint32, pos int, b []byte) int {
	var k [4]byte
	binary.BigEndian.PutUint32(k[:], key)
	ws.Cipher(b, k, pos)
	return (pos + len(b)) & 3
}
