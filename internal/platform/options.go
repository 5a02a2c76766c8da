package platform

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/folio/pkg/core"
)

// options holds the internal configuration for the Folio service.
type options struct {
	store      core.Store
	bootstrap  core.BootstrapSource
	dataset    string
	collection *core.Collection
	logger     *slog.Logger
	adapter    string
	httpClient *http.Client
	timeout    time.Duration

	maxSeedPasses   int
	seedConcurrency int

	config map[string]interface{}
}

// Option defines a functional option for configuring Folio.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: "",
		config:  make(map[string]interface{}),
	}
}

// WithLogger sets the logger for the service and the store adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore injects a custom store (e.g. a mock). The uri is then ignored.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithAdapter forces a store adapter by name ("fs", "rest" or "sqlite").
// By default the adapter is chosen from the uri.
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithBootstrap sets the dataset used to seed an empty store.
func WithBootstrap(src core.BootstrapSource) Option {
	return func(o *options) {
		o.bootstrap = src
	}
}

// WithDataset selects the seed dataset by reference: "embedded", a JSON/YAML
// file, a directory or a glob. Ignored when WithBootstrap is also given.
func WithDataset(ref string) Option {
	return func(o *options) {
		o.dataset = ref
	}
}

// WithCollection shares an existing collection with the service.
func WithCollection(c *core.Collection) Option {
	return func(o *options) {
		o.collection = c
	}
}

// WithMaxSeedPasses bounds how many times an empty store is seeded.
// Zero (the default) keeps seeding until the store reports data.
func WithMaxSeedPasses(n int) Option {
	return func(o *options) {
		o.maxSeedPasses = n
	}
}

// WithSeedConcurrency limits in-flight inserts while seeding. Zero means no limit.
func WithSeedConcurrency(n int) Option {
	return func(o *options) {
		o.seedConcurrency = n
	}
}

// WithTimeout sets a per-request deadline for the REST adapter.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithHTTPClient replaces the REST adapter's HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithMustExist ensures the article directory already exists (fs adapter).
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithReadOnly makes every write of the fs adapter fail with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithStrict parses numbers in article files as json.Number (fs adapter).
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.config["strict"] = strict
	}
}

// WithFormat sets the file format of new articles: "md", "json" or "yaml" (fs adapter).
func WithFormat(ext string) Option {
	return func(o *options) {
		o.config["format"] = ext
	}
}

// WithSystemDir sets the hidden directory name (fs adapter). Defaults to ".folio".
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}
