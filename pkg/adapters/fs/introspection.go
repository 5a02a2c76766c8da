package fs

import (
	"sort"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path        string   `json:"path"`
	SystemDir   string   `json:"system_dir"`
	Format      string   `json:"format"`
	CacheSize   int      `json:"cache_size"`
	NextID      int64    `json:"next_id"`
	ReadOnly    bool     `json:"read_only"`
	Strict      bool     `json:"strict"`
	Serializers []string `json:"serializers"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	serializers := make([]string, 0, len(r.serializers))
	for ext := range r.serializers {
		serializers = append(serializers, ext)
	}
	sort.Strings(serializers)

	r.cache.index.mu.RLock()
	next := r.cache.index.NextID
	r.cache.index.mu.RUnlock()

	return RepositoryState{
		Path:        r.Path,
		SystemDir:   r.config.SystemDir,
		Format:      r.config.Format,
		CacheSize:   r.cache.Len(),
		NextID:      next,
		ReadOnly:    r.config.ReadOnly,
		Strict:      r.config.Strict,
		Serializers: serializers,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "fs"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
