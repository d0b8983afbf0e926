// Command catalogctl manages the supplier product store used by the
// playbook API.
//
//	catalogctl [-products path] ingest -file batch.json
//	catalogctl stats
//	catalogctl backup
//	catalogctl backups
//	catalogctl nuke [-yes]
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}
