package main

import (
	"context"
	"flag"
	"io"
	"net"

	"github.com/Amila-Rukshan/envoy/websocket/internal/errd"
	"github.com/Amila-Rukshan/envoy/websocket/internal/wsecho"
	"github.com/Amila-Rukshan/envoy/websocket/internal/wslog"
)

func echo(ctx context.Context, args []string, stderr io.Writer) (err error) {
	defer errd.Wrap(&err, "echo failed")

	fs := flag.NewFlagSet("echo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	listen := fs.String("listen", "", "TCP address to listen on, overrides the config")
	configPath := fs.String("config", "", "YAML or TOML config file")
	err = fs.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	log, err := wslog.New(stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", cfg.Listen)
	if err != nil {
		return err
	}
	log.Info().Stringer("addr", ln.Addr()).Msg("echoing frames")

	return wsecho.Serve(ctx, ln, wsecho.Options{
		MaxPayloadLength: cfg.MaxPayloadLength,
		RateLimit:        cfg.RateLimit,
		Burst:            cfg.Burst,
		Logger:           log,
	})
}
