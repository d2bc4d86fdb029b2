// Command speechturn serves the speech-turn tutoring API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kbukum/speechturn/app"

	_ "github.com/kbukum/speechturn/storage/local"
	_ "github.com/kbukum/speechturn/storage/s3"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "speechturn: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := app.Load()
	if err != nil {
		return err
	}
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	return a.Run(context.Background())
}
