package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Phase is a state of the synchronization protocol.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFetching
	PhaseSeeding
	PhasePopulated
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFetching:
		return "fetching"
	case PhaseSeeding:
		return "seeding"
	case PhasePopulated:
		return "populated"
	case PhaseFailed:
		return "failed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Config holds the collaborators of a Service.
type Config struct {
	Store      Store
	Bootstrap  BootstrapSource
	Collection *Collection
	Logger     *slog.Logger

	// MaxSeedPasses bounds how many times an empty store is seeded in one FetchAll.
	// Zero means no bound.
	MaxSeedPasses int
	// SeedConcurrency limits in-flight inserts while seeding. Zero means no limit.
	SeedConcurrency int
}

// Service synchronizes a Collection with a Store and writes single articles back.
type Service struct {
	store      Store
	bootstrap  BootstrapSource
	collection *Collection
	logger     *slog.Logger

	maxSeedPasses   int
	seedConcurrency int

	mu         sync.RWMutex
	phase      Phase
	seedPasses int
}

// NewService creates a new Service. A nil Collection gets a fresh one.
func NewService(cfg Config) *Service {
	if cfg.Collection == nil {
		cfg.Collection = NewCollection()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		store:           cfg.Store,
		bootstrap:       cfg.Bootstrap,
		collection:      cfg.Collection,
		logger:          cfg.Logger,
		maxSeedPasses:   cfg.MaxSeedPasses,
		seedConcurrency: cfg.SeedConcurrency,
	}
}

// Collection returns the collection the service populates.
func (s *Service) Collection() *Collection {
	return s.collection
}

// Close releases the store if it holds resources (e.g. a database handle).
func (s *Service) Close() error {
	if c, ok := s.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Phase returns the current protocol state.
func (s *Service) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

func (s *Service) setPhase(p Phase) {
	s.mu.Lock()
	prev := s.phase
	s.phase = p
	if p == PhaseSeeding {
		s.seedPasses++
	}
	s.mu.Unlock()
	s.logger.Debug("sync phase", "from", prev, "to", p)
}

// FetchAll populates the collection from the store and then calls ready.
//
// Workflow:
//  1. List every article in the store.
//  2. Non-empty result: sort, append to the collection, call ready and return.
//  3. Empty result: load the bootstrap dataset and insert every entry concurrently.
//  4. Once all inserts are joined, start over from step 1.
//
// An empty store after seeding is seeded again; only MaxSeedPasses bounds this.
// Any failure is logged and returned, and ready is not called.
func (s *Service) FetchAll(ctx context.Context, ready func()) error {
	for pass := 0; ; pass++ {
		if err := ctx.Err(); err != nil {
			return s.fail("sync cancelled", err)
		}

		s.setPhase(PhaseFetching)
		rows, err := s.store.List(ctx)
		if err != nil {
			return s.fail("fetch articles failed", fmt.Errorf("fetch articles: %w", err))
		}

		if len(rows) > 0 {
			s.collection.Populate(rows)
			s.setPhase(PhasePopulated)
			s.logger.Info("articles loaded", "count", len(rows), "seed_passes", pass)
			if ready != nil {
				ready()
			}
			return nil
		}

		if s.maxSeedPasses > 0 && pass >= s.maxSeedPasses {
			return s.fail("store still empty", fmt.Errorf("%w after %d passes", ErrSeedExhausted, pass))
		}

		s.setPhase(PhaseSeeding)
		if err := s.seed(ctx); err != nil {
			return s.fail("seeding failed", err)
		}
	}
}

func (s *Service) fail(msg string, err error) error {
	s.setPhase(PhaseFailed)
	s.logger.Error(msg, "error", err)
	return err
}

// seed inserts every bootstrap entry and waits for all of them.
func (s *Service) seed(ctx context.Context) error {
	if s.bootstrap == nil {
		return errors.New("no bootstrap source configured")
	}
	rows, err := s.bootstrap.Load(ctx)
	if err != nil {
		return fmt.Errorf("load bootstrap dataset: %w", err)
	}
	s.logger.Info("store empty, seeding", "entries", len(rows))

	g, gctx := errgroup.WithContext(ctx)
	if s.seedConcurrency > 0 {
		g.SetLimit(s.seedConcurrency)
	}
	for _, row := range rows {
		a := NewArticle(row)
		g.Go(func() error {
			return s.Insert(gctx, a, nil)
		})
	}
	return g.Wait()
}
