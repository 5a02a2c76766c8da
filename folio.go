package folio

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/folio/internal/platform"
	"github.com/aretw0/folio/pkg/core"
)

// Version is the library version. Release builds override it with
// -ldflags "-X github.com/aretw0/folio.Version=...".
var Version = "dev"

// --- Types ---

// Article is a public alias for the article record.
type Article = core.Article

// Metadata is a public alias for a flat field map.
type Metadata = core.Metadata

// Service is a public alias for the synchronizing service.
type Service = core.Service

// --- Configuration ---

// Option defines a functional option for configuring Folio.
type Option = platform.Option

// Env is the configuration read from FOLIO_* environment variables.
type Env = platform.Env

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStore injects a custom store.
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithAdapter forces a store adapter by name ("fs", "rest" or "sqlite").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithBootstrap sets the dataset used to seed an empty store.
func WithBootstrap(src core.BootstrapSource) Option {
	return platform.WithBootstrap(src)
}

// WithDataset selects the seed dataset by reference (file, directory, glob or "embedded").
func WithDataset(ref string) Option {
	return platform.WithDataset(ref)
}

// WithCollection shares an existing collection with the service.
func WithCollection(c *core.Collection) Option {
	return platform.WithCollection(c)
}

// WithMaxSeedPasses bounds how many times an empty store is seeded. Zero means unbounded.
func WithMaxSeedPasses(n int) Option {
	return platform.WithMaxSeedPasses(n)
}

// WithSeedConcurrency limits in-flight inserts while seeding.
func WithSeedConcurrency(n int) Option {
	return platform.WithSeedConcurrency(n)
}

// WithTimeout sets a per-request deadline for the REST adapter.
func WithTimeout(d time.Duration) Option {
	return platform.WithTimeout(d)
}

// WithHTTPClient replaces the REST adapter's HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return platform.WithHTTPClient(c)
}

// WithMustExist ensures the article directory already exists.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly rejects writes to the article directory.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithStrict parses numbers in article files as json.Number.
func WithStrict(strict bool) Option {
	return platform.WithStrict(strict)
}

// WithFormat sets the file format of new articles ("md", "json" or "yaml").
func WithFormat(ext string) Option {
	return platform.WithFormat(ext)
}

// WithSystemDir sets the hidden directory name. Defaults to ".folio".
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// --- Factory ---

// New creates a Service for the store at uri.
func New(uri string, opts ...Option) (*core.Service, error) {
	return platform.New(uri, opts...)
}

// Init builds and initializes a store explicitly.
func Init(uri string, opts ...Option) (core.Store, error) {
	return platform.Init(uri, opts...)
}

// LoadEnv reads the FOLIO_* environment variables.
func LoadEnv() (Env, error) {
	return platform.LoadEnv()
}

// FindRoot looks upwards from startDir for an article directory.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
