// Command wsframe decodes and encodes WebSocket frames and runs a raw
// frame echo server.
//
//	wsframe decode [-hex] [-chunk n] [-config file] [file]
//	wsframe encode [-opcode n] [-fin] [-mask key] [-length n | -payload s]
//	wsframe echo [-listen addr] [-config file]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "wsframe: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stderr)
		return flag.ErrHelp
	}

	switch args[0] {
	case "decode":
		return decode(args[1:], stdin, stdout, stderr)
	case "encode":
		return encode(args[1:], stdout, stderr)
	case "echo":
		return echo(ctx, args[1:], stderr)
	case "-h", "-help", "--help", "help":
		usage(stderr)
		return flag.ErrHelp
	default:
		usage(stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `usage:
	wsframe decode [-hex] [-chunk n] [-config file] [file]
	wsframe encode [-opcode n] [-fin] [-mask key] [-length n | -payload s]
	wsframe echo [-listen addr] [-config file]`)
}
