// Package main is the gallery listing function, served through the Lambda runtime.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/fleveque/giftshop-functions/internal/app"
	"github.com/fleveque/giftshop-functions/internal/httpevent"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}

	logger, err := app.NewLogger(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	fns, err := app.Build(context.Background(), cfg, logger)
	if err != nil {
		return err
	}

	lambda.Start(httpevent.NewLambdaHandler(fns.Gallery.Handle))
	return nil
}
