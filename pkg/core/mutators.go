package core

import (
	"context"
	"fmt"

	"github.com/aretw0/lifecycle"
)

// Insert sends the article's projection to the store as a new record.
// If the article has no identifier yet, it adopts the one the store reports,
// so that later Update and Delete calls can address it.
func (s *Service) Insert(ctx context.Context, a *Article, done func()) error {
	ack, err := s.store.Create(ctx, a.Projection())
	if err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	if a.ID == "" && ack.ID != "" {
		a.ID = ack.ID
	}
	s.acknowledge("insert", ack, done)
	return nil
}

// Update replaces the stored record addressed by the article's identifier.
func (s *Service) Update(ctx context.Context, a *Article, done func()) error {
	if a.ID == "" {
		return fmt.Errorf("update article: %w", ErrMissingID)
	}
	ack, err := s.store.Update(ctx, a.ID, a.Projection())
	if err != nil {
		return fmt.Errorf("update article %s: %w", a.ID, err)
	}
	s.acknowledge("update", ack, done)
	return nil
}

// Delete removes the stored record addressed by the article's identifier.
// The article stays in the collection; callers rebuild or filter it themselves.
func (s *Service) Delete(ctx context.Context, a *Article, done func()) error {
	if a.ID == "" {
		return fmt.Errorf("delete article: %w", ErrMissingID)
	}
	ack, err := s.store.Delete(ctx, a.ID)
	if err != nil {
		return fmt.Errorf("delete article %s: %w", a.ID, err)
	}
	s.acknowledge("delete", ack, done)
	return nil
}

// Truncate removes every stored record. The collection is left untouched.
func (s *Service) Truncate(ctx context.Context, done func()) error {
	ack, err := s.store.Truncate(ctx)
	if err != nil {
		return fmt.Errorf("truncate articles: %w", err)
	}
	s.acknowledge("truncate", ack, done)
	return nil
}

func (s *Service) acknowledge(op string, ack Ack, done func()) {
	s.logger.Info(ack.Message, "op", op, "id", ack.ID)
	if done != nil {
		done()
	}
}

// Spawn runs fn on a tracked goroutine and returns immediately.
// Failures are logged; nobody waits for the result.
func (s *Service) Spawn(ctx context.Context, op string, fn func(ctx context.Context) error) {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			s.logger.Error("background operation failed", "op", op, "error", err)
			return err
		}
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("background operation panicked", "op", op, "error", err)
	}))
}
