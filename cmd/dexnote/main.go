package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sandeepkv93/dexnote-client/internal/tools/dexnote"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := dexnote.Execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
