package platform

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/folio/internal/storage/sqlite"
	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/adapters/rest"
	"github.com/aretw0/folio/pkg/core"
)

const sqliteScheme = "sqlite://"

// Init builds and initializes the store addressed by uri.
//
// Without WithAdapter the adapter is detected from the uri:
// http(s) URLs use the REST client, "sqlite://path" or a *.db file opens
// SQLite directly, anything else is a directory of article files.
func Init(uri string, opts ...Option) (core.Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initStore(context.Background(), uri, o)
}

func initStore(ctx context.Context, uri string, o *options) (core.Store, error) {
	if o.store != nil {
		return o.store, nil
	}

	adapter := o.adapter
	if adapter == "" {
		adapter = DetectAdapter(uri)
	}

	var (
		store core.Store
		err   error
	)
	switch adapter {
	case "fs":
		store = initFS(uri, o)
	case "rest":
		store, err = rest.NewClient(rest.Config{
			BaseURL:    uri,
			HTTPClient: o.httpClient,
			Timeout:    o.timeout,
			Logger:     o.logger,
		})
	case "sqlite":
		store, err = sqlite.Open(strings.TrimPrefix(uri, sqliteScheme))
	default:
		return nil, fmt.Errorf("unknown adapter: %s", adapter)
	}
	if err != nil {
		return nil, err
	}

	if initializer, ok := store.(core.Initializer); ok {
		if err := initializer.Initialize(ctx); err != nil {
			return nil, err
		}
	}
	if o.logger != nil {
		o.logger.Debug("store ready", "adapter", adapter, "uri", uri)
	}
	return store, nil
}

// DetectAdapter picks an adapter name for uri.
func DetectAdapter(uri string) string {
	lower := strings.ToLower(uri)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return "rest"
	case strings.HasPrefix(lower, sqliteScheme):
		return "sqlite"
	}
	switch filepath.Ext(lower) {
	case ".db", ".sqlite", ".sqlite3":
		return "sqlite"
	}
	return "fs"
}

func initFS(path string, o *options) *fs.Repository {
	mustExist, _ := o.config["must_exist"].(bool)
	readOnly, _ := o.config["read_only"].(bool)
	strict, _ := o.config["strict"].(bool)
	format, _ := o.config["format"].(string)
	systemDir, _ := o.config["system_dir"].(string)

	return fs.NewRepository(fs.Config{
		Path:      path,
		MustExist: mustExist,
		ReadOnly:  readOnly,
		Strict:    strict,
		Format:    format,
		SystemDir: systemDir,
		Logger:    o.logger,
	})
}
