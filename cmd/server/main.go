package main

// cmd/server is the bare API server binary for deployments that do not need
// the rest of the agromart CLI. It is equivalent to `agromart serve`.

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/shashiranjanraj/agromart/pkg/app"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Boot(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.Serve(ctx)
}
