package platform

import (
	"context"
	"io"

	"github.com/aretw0/folio/pkg/adapters/bootstrap"
	"github.com/aretw0/folio/pkg/core"
)

// New wires a core.Service for the store at uri.
//
//	svc, err := folio.New("http://localhost:3000", folio.WithLogger(logger))
//
// The seed dataset defaults to the one embedded in the module.
func New(uri string, opts ...Option) (*core.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	store, err := initStore(context.Background(), uri, o)
	if err != nil {
		return nil, err
	}

	src := o.bootstrap
	if src == nil {
		src, err = bootstrap.Open(o.dataset)
		if err != nil {
			if c, ok := store.(io.Closer); ok {
				_ = c.Close()
			}
			return nil, err
		}
	}

	return core.NewService(core.Config{
		Store:           store,
		Bootstrap:       src,
		Collection:      o.collection,
		Logger:          o.logger,
		MaxSeedPasses:   o.maxSeedPasses,
		SeedConcurrency: o.seedConcurrency,
	}), nil
}
