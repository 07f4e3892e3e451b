package main

import (
	"bytes"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/Amila-Rukshan/envoy/websocket"
	"github.com/Amila-Rukshan/envoy/websocket/internal/errd"
	"github.com/Amila-Rukshan/envoy/websocket/wsstream"
)

func encode(args []string, stdout, stderr io.Writer) (err error) {
	defer errd.Wrap(&err, "encode failed")

	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	opcode := fs.Uint("opcode", uint(websocket.OpText), "frame opcode")
	fin := fs.Bool("fin", true, "final fragment")
	mask := fs.String("mask", "", "32 bit masking key, e.g. 0x37fa213d")
	length := fs.Uint64("length", 0, "payload length of a header only frame")
	payload := fs.String("payload", "", "payload of a complete frame, masked with -mask")
	err = fs.Parse(args)
	if err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments %q", fs.Args())
	}
	if *opcode > 0xff {
		return fmt.Errorf("opcode out of range: %v", *opcode)
	}

	f := websocket.Frame{
		Fin:           *fin,
		Opcode:        websocket.Opcode(*opcode),
		PayloadLength: *length,
	}
	if *mask != "" {
		key, err := strconv.ParseUint(*mask, 0, 32)
		if err != nil {
			return fmt.Errorf("invalid masking key %q: %w", *mask, err)
		}
		f.Masked = true
		f.MaskKey = uint32(key)
	}

	hasPayload := false
	fs.Visit(func(fl *flag.Flag) {
		hasPayload = hasPayload || fl.Name == "payload"
	})

	var b []byte
	if hasPayload {
		f.Payload = []byte(*payload)
		var w bytes.Buffer
		err = wsstream.NewWriter(&w).WriteFrame(f)
		b = w.Bytes()
	} else {
		b, err = websocket.EncodeHeader(f)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout, hex.EncodeToString(b))
	return err
}
