package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Amila-Rukshan/envoy/websocket"
	"github.com/Amila-Rukshan/envoy/websocket/internal/config"
	"github.com/Amila-Rukshan/envoy/websocket/internal/errd"
	"github.com/Amila-Rukshan/envoy/websocket/internal/wslog"
	"github.com/Amila-Rukshan/envoy/websocket/wsbuf"
)

// decodedFrame is the JSON line printed for every frame.
type decodedFrame struct {
	Fin           bool   `json:"fin"`
	Opcode        string `json:"opcode"`
	Masked        bool   `json:"masked"`
	MaskKey       string `json:"mask_key,omitempty"`
	PayloadLength uint64 `json:"payload_length"`
	Payload       string `json:"payload"`
}

func decode(args []string, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	defer errd.Wrap(&err, "decode failed")

	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	isHex := fs.Bool("hex", false, "input is hex encoded, whitespace is ignored")
	chunk := fs.Int("chunk", -1, "deliver the input to the decoder in chunks of n bytes, 0 for all at once")
	unmask := fs.Bool("unmask", false, "print payloads unmasked")
	configPath := fs.String("config", "", "YAML or TOML config file")
	err = fs.Parse(args)
	if err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("expected at most one input file but got %v", fs.NArg())
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *chunk >= 0 {
		cfg.ChunkSize = *chunk
	}

	log, err := wslog.New(stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	in := stdin
	if fs.NArg() == 1 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	if *isHex {
		b, err = hex.DecodeString(strings.Join(strings.Fields(string(b)), ""))
		if err != nil {
			return fmt.Errorf("invalid hex input: %w", err)
		}
	}

	dec := websocket.NewDecoder(&websocket.DecoderOptions{
		MaxPayloadLength: cfg.MaxPayloadLength,
		Logger:           &log,
	})
	enc := json.NewEncoder(stdout)

	var buf wsbuf.Buffer
	defer buf.Reset()
	for _, p := range chunks(b, cfg.ChunkSize) {
		buf.Add(p)

		frames, err := dec.Decode(&buf)
		if errors.Is(err, websocket.ErrNoFrames) {
			continue
		}
		if err != nil {
			return err
		}
		for _, f := range frames {
			err = enc.Encode(describe(f, *unmask))
			if err != nil {
				return err
			}
		}
	}

	log.Debug().Uint64("frames", dec.FramesDecoded()).Msg("decoded input")
	if buf.Len() > 0 {
		return fmt.Errorf("%v trailing bytes of an incomplete frame", buf.Len())
	}
	return nil
}

func chunks(b []byte, size int) [][]byte {
	if size <= 0 || size >= len(b) {
		return [][]byte{b}
	}
	var cs [][]byte
	for len(b) > size {
		cs = append(cs, b[:size])
		b = b[size:]
	}
	return append(cs, b)
}

func describe(f websocket.Frame, unmask bool) decodedFrame {
	d := decodedFrame{
		Fin:           f.Fin,
		Opcode:        f.Opcode.String(),
		Masked:        f.Masked,
		PayloadLength: f.PayloadLength,
	}

	p := f.Payload
	if f.Masked {
		d.MaskKey = fmt.Sprintf("%#08x", f.MaskKey)
		if unmask {
			p = bytes.Clone(p)
			websocket.Mask(f.MaskKey, 0, p)
		}
	}
	d.Payload = hex.EncodeToString(p)
	return d
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
