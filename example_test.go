package websocket_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/Amila-Rukshan/envoy/websocket"
	"github.com/Amila-Rukshan/envoy/websocket/wsbuf"
)

func ExampleDecoder() {
	// Bytes usually arrive from a connection in arbitrary pieces.
	// Here the second frame is split in two deliveries.
	deliveries := [][]byte{
		{0x81, 0x02, 'h', 'i', 0x81},
		{0x03, 'b', 'y', 'e'},
	}

	var buf wsbuf.Buffer
	d := websocket.NewDecoder(nil)
	for _, p := range deliveries {
		buf.Add(p)

		frames, err := d.Decode(&buf)
		if errors.Is(err, websocket.ErrNoFrames) {
			continue
		}
		if err != nil {
			// Fatal protocol error, close the connection.
			log.Fatal(err)
		}
		for _, f := range frames {
			fmt.Printf("%v %q\n", f.Opcode, f.Payload)
		}
	}
	// Output:
	// OpText "hi"
	// OpText "bye"
}

func ExampleEncodeHeader() {
	payload := []byte("Hello")
	f := websocket.Frame{
		Fin:           true,
		Opcode:        websocket.OpText,
		Masked:        true,
		MaskKey:       0x37fa213d,
		PayloadLength: uint64(len(payload)),
	}

	b, err := websocket.EncodeHeader(f)
	if err != nil {
		log.Fatal(err)
	}
	websocket.Mask(f.MaskKey, 0, payload)
	b = append(b, payload...)

	fmt.Printf("% x\n", b)
	// Output:
	// 81 85 37 fa 21 3d 7f 9f 4d 51 58
}
