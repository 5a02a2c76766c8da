package core

import "context"

// Ack is a store's acknowledgement of a write.
type Ack struct {
	// ID is the identifier the store assigned or touched, if it reported one.
	ID string `json:"article_id,omitempty"`
	// Message is the human readable response (e.g. "insert complete").
	Message string `json:"message"`
}

// Store defines the contract of the remote article store.
// Adhering to this interface keeps the core independent of the transport
// (REST, local files, SQL).
type Store interface {
	// List returns every stored article as a flat field map.
	List(ctx context.Context) ([]Metadata, error)

	// Create persists a new article and reports the identifier it was given.
	Create(ctx context.Context, fields Metadata) (Ack, error)

	// Update replaces the article with the given identifier.
	Update(ctx context.Context, id string, fields Metadata) (Ack, error)

	// Delete removes the article with the given identifier.
	Delete(ctx context.Context, id string) (Ack, error)

	// Truncate removes every article.
	Truncate(ctx context.Context) (Ack, error)
}

// Initializer is implemented by stores that need setup before use
// (e.g. create directories, apply schema migrations).
type Initializer interface {
	Initialize(ctx context.Context) error
}

// BootstrapSource provides the static dataset used to seed an empty store.
type BootstrapSource interface {
	Load(ctx context.Context) ([]Metadata, error)
}

// BootstrapFunc adapts a plain function to BootstrapSource.
type BootstrapFunc func(ctx context.Context) ([]Metadata, error)

// Load implements BootstrapSource.
func (f BootstrapFunc) Load(ctx context.Context) ([]Metadata, error) { return f(ctx) }
