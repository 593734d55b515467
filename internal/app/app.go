// Package app wires configuration, logging, storage and handlers together.
// Every binary (the three Lambda functions, the local server and the CLI)
// starts from here so they all behave the same way.
package app

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/fleveque/giftshop-functions/internal/config"
	"github.com/fleveque/giftshop-functions/internal/handler"
	"github.com/fleveque/giftshop-functions/internal/server"
	"github.com/fleveque/giftshop-functions/internal/service"
	"github.com/fleveque/giftshop-functions/internal/storage"
)

// ConfigPathEnv names the environment variable holding an optional YAML
// config file path.
const ConfigPathEnv = "GIFTSHOP_CONFIG_PATH"

// Functions holds the three handlers.
type Functions struct {
	Cards   *handler.CardsHandler
	Gallery *handler.GalleryHandler
	Upload  *handler.UploadHandler
}

// Deps exposes the handlers in the shape the local server routes to.
func (f *Functions) Deps() server.Deps {
	return server.Deps{
		Cards:   f.Cards.Handle,
		Gallery: f.Gallery.Handle,
		Upload:  f.Upload.Handle,
	}
}

// LoadConfig loads configuration from the environment and the optional
// file named by GIFTSHOP_CONFIG_PATH.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(os.Getenv(ConfigPathEnv))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// NewLogger returns a development logger for the debug level and a JSON
// production logger otherwise.
func NewLogger(level string) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return logger, nil
}

// Build creates the object store, the database connector and the handlers.
// No connection is made here: the database is opened per invocation.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Functions, error) {
	store, err := storage.NewObjectStore(ctx, cfg.ObjectStore)
	if err != nil {
		return nil, fmt.Errorf("creating object store: %w", err)
	}

	db := storage.NewConnector(cfg.Database)
	photos := service.NewPhotoService(store, db, cfg.CDN, logger)

	return &Functions{
		Cards:   handler.NewCardsHandler(db, logger),
		Gallery: handler.NewGalleryHandler(db, logger),
		Upload:  handler.NewUploadHandler(photos, logger),
	}, nil
}
