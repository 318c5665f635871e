package bootstrap

import (
	"fmt"

	coreconfig "github.com/streetpaws/feedpoint/core/config"
	"github.com/streetpaws/feedpoint/core/logger"
)

// Options control the generic bootstrap pipeline shared between bots.
// T is whatever storage handle the application works with.
type Options[T any] struct {
	Config *coreconfig.Config

	LoggerInit func(*coreconfig.Config) error
	OpenStore  func(*coreconfig.Config) (T, error)
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result[T any] struct {
	Store T
}

// Run initializes the logger and opens the application storage.
func Run[T any](opts Options[T]) (*Result[T], error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	if opts.OpenStore == nil {
		return nil, fmt.Errorf("bootstrap: OpenStore is required")
	}
	store, err := opts.OpenStore(opts.Config)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: storage initialization failed: %w", err)
	}

	return &Result[T]{Store: store}, nil
}
