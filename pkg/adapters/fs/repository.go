// Package fs implements core.Store on a directory of article files.
//
// Each article lives in "<id><ext>", where ext selects the serializer:
// markdown with YAML frontmatter, JSON or YAML.
package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/folio/pkg/core"
)

// Repository implements core.Store on the filesystem.
type Repository struct {
	Path        string
	config      Config
	serializers map[string]Serializer
	cache       *cache
	logger      *slog.Logger
	mu          sync.RWMutex
}

// Config holds the configuration for the filesystem store.
type Config struct {
	Path      string
	MustExist bool
	ReadOnly  bool
	Strict    bool   // decode numbers as json.Number
	Format    string // extension for new articles, default ".md"
	SystemDir string // default ".folio"
	Logger    *slog.Logger
}

// NewRepository creates a filesystem-backed store.
func NewRepository(config Config) *Repository {
	if config.Format == "" {
		config.Format = ".md"
	}
	if !strings.HasPrefix(config.Format, ".") {
		config.Format = "." + config.Format
	}
	if config.SystemDir == "" {
		config.SystemDir = ".folio"
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Repository{
		Path:        config.Path,
		config:      config,
		serializers: DefaultSerializers(config.Strict),
		cache:       newCache(config.Path, config.SystemDir),
		logger:      logger,
	}
}

// Initialize prepares the directory and loads the identifier counter.
func (r *Repository) Initialize(ctx context.Context) error {
	if _, ok := r.serializers[r.config.Format]; !ok {
		return fmt.Errorf("unsupported article format %q", r.config.Format)
	}

	if r.config.MustExist || r.config.ReadOnly {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("article directory does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("article path is not a directory: %s", r.Path)
		}
	} else if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("create article directory: %w", err)
	}

	return r.cache.Load()
}

// List implements core.Store. Rows come back ordered by identifier.
func (r *Repository) List(ctx context.Context) ([]core.Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	names, err := r.articleFiles()
	if err != nil {
		return nil, err
	}

	keep := make(map[string]bool, len(names))
	rows := make([]core.Metadata, 0, len(names))
	for _, name := range names {
		keep[name] = true
		fields, err := r.read(name)
		if err != nil {
			return nil, err
		}
		row := make(core.Metadata, len(fields)+1)
		for k, v := range fields {
			row[k] = v
		}
		row[core.KeyID] = idOf(name)
		rows = append(rows, row)
	}
	r.cache.Prune(keep)
	return rows, nil
}

// Create implements core.Store.
func (r *Repository) Create(ctx context.Context, fields core.Metadata) (core.Ack, error) {
	if err := r.writable(ctx); err != nil {
		return core.Ack{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	names, err := r.articleFiles()
	if err != nil {
		return core.Ack{}, err
	}
	var highest int64
	for _, name := range names {
		if n, err := strconv.ParseInt(idOf(name), 10, 64); err == nil && n > highest {
			highest = n
		}
	}

	id := strconv.FormatInt(r.cache.Reserve(highest), 10)
	if err := r.write(id+r.config.Format, fields); err != nil {
		return core.Ack{}, err
	}
	if err := r.cache.Save(); err != nil {
		r.logger.Warn("failed to persist id counter", "error", err)
	}
	r.logger.Debug("article created", "id", id)
	return core.Ack{ID: id, Message: "insert complete"}, nil
}

// Update implements core.Store. The file keeps its format.
func (r *Repository) Update(ctx context.Context, id string, fields core.Metadata) (core.Ack, error) {
	if err := r.writable(ctx); err != nil {
		return core.Ack{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	name, err := r.find(id)
	if err != nil {
		return core.Ack{}, err
	}
	if err := r.write(name, fields); err != nil {
		return core.Ack{}, err
	}
	r.logger.Debug("article updated", "id", id)
	return core.Ack{ID: id, Message: "update complete"}, nil
}

// Delete implements core.Store.
func (r *Repository) Delete(ctx context.Context, id string) (core.Ack, error) {
	if err := r.writable(ctx); err != nil {
		return core.Ack{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	name, err := r.find(id)
	if err != nil {
		return core.Ack{}, err
	}
	if err := os.Remove(filepath.Join(r.Path, name)); err != nil {
		return core.Ack{}, fmt.Errorf("delete article %s: %w", id, err)
	}
	r.cache.Delete(name)
	r.logger.Debug("article deleted", "id", id)
	return core.Ack{ID: id, Message: "delete complete"}, nil
}

// Truncate implements core.Store. The identifier counter is kept.
func (r *Repository) Truncate(ctx context.Context) (core.Ack, error) {
	if err := r.writable(ctx); err != nil {
		return core.Ack{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	names, err := r.articleFiles()
	if err != nil {
		return core.Ack{}, err
	}
	for _, name := range names {
		if err := os.Remove(filepath.Join(r.Path, name)); err != nil && !os.IsNotExist(err) {
			return core.Ack{}, fmt.Errorf("truncate articles: %w", err)
		}
	}
	r.cache.Prune(nil)
	r.logger.Debug("articles truncated", "count", len(names))
	return core.Ack{Message: "delete complete"}, nil
}

func (r *Repository) writable(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.config.ReadOnly {
		return fmt.Errorf("%s: %w", r.Path, core.ErrReadOnly)
	}
	return nil
}

// articleFiles lists the files a serializer can read, sorted by id.
func (r *Repository) articleFiles() ([]string, error) {
	exts := make([]string, 0, len(r.serializers))
	for ext := range r.serializers {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}
	sort.Strings(exts)
	pattern := "*.{" + strings.Join(exts, ",") + "}"

	names, err := doublestar.Glob(os.DirFS(r.Path), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("list article files: %w", err)
	}

	out := names[:0]
	for _, name := range names {
		if !isTempFile(name) {
			out = append(out, name)
		}
	}
	sort.Slice(out, func(i, j int) bool { return lessID(idOf(out[i]), idOf(out[j])) })
	return out, nil
}

// find returns the file holding id, whatever its format.
func (r *Repository) find(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("article %q: %w", id, core.ErrNotFound)
	}
	names, err := r.articleFiles()
	if err != nil {
		return "", err
	}
	for _, name := range names {
		if idOf(name) == id {
			return name, nil
		}
	}
	return "", fmt.Errorf("article %s: %w", id, core.ErrNotFound)
}

func (r *Repository) read(name string) (core.Metadata, error) {
	full := filepath.Join(r.Path, name)
	info, err := os.Stat(full)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}
	if entry, ok := r.cache.Get(name, info.ModTime()); ok {
		return entry.Fields, nil
	}

	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	fields, err := r.serializers[filepath.Ext(name)].Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	delete(fields, core.KeyID)
	r.cache.Set(name, &indexEntry{Fields: fields, LastModified: info.ModTime()})
	return fields, nil
}

func (r *Repository) write(name string, fields core.Metadata) error {
	clean := make(core.Metadata, len(fields))
	for k, v := range fields {
		if k != core.KeyID {
			clean[k] = v
		}
	}
	data, err := r.serializers[filepath.Ext(name)].Serialize(clean)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := writeFileAtomic(filepath.Join(r.Path, name), data, 0644); err != nil {
		return err
	}
	r.cache.Delete(name)
	return nil
}

func idOf(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// lessID orders numeric ids numerically, ahead of any other name.
func lessID(a, b string) bool {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

var _ core.Store = (*Repository)(nil)
var _ core.Initializer = (*Repository)(nil)
