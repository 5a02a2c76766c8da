// Package bootstrap provides the datasets used to seed an empty store.
package bootstrap

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/core"
)

//go:embed data/*.json
var data embed.FS

// EmbeddedName selects the dataset shipped with the module.
const EmbeddedName = "embedded"

// Embedded returns the default dataset compiled into the binary.
func Embedded() core.BootstrapSource {
	return core.BootstrapFunc(func(ctx context.Context) ([]core.Metadata, error) {
		raw, err := data.ReadFile("data/articles.json")
		if err != nil {
			return nil, fmt.Errorf("read embedded dataset: %w", err)
		}
		return decodeJSON(raw)
	})
}

// File reads a JSON array or a YAML sequence of articles from path.
type File struct {
	Path string
}

// Load implements core.BootstrapSource.
func (f File) Load(ctx context.Context) ([]core.Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	switch strings.ToLower(filepath.Ext(f.Path)) {
	case ".yaml", ".yml":
		var rows []map[string]any
		if err := yaml.Unmarshal(raw, &rows); err != nil {
			return nil, fmt.Errorf("dataset %s: invalid yaml: %w", f.Path, err)
		}
		out := make([]core.Metadata, len(rows))
		for i, row := range rows {
			out[i] = fs.Normalize(row, false)
		}
		return out, nil
	default:
		rows, err := decodeJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("dataset %s: %w", f.Path, err)
		}
		return rows, nil
	}
}

// Glob reads one article per file matching Pattern under Root.
// Any format the fs store understands is accepted.
type Glob struct {
	Root    string
	Pattern string
}

// Load implements core.BootstrapSource. Files are read in path order.
func (g Glob) Load(ctx context.Context) ([]core.Metadata, error) {
	names, err := doublestar.Glob(os.DirFS(g.Root), g.Pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", g.Pattern, err)
	}
	sort.Strings(names)

	serializers := fs.DefaultSerializers(false)
	var out []core.Metadata
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, ok := serializers[strings.ToLower(filepath.Ext(name))]
		if !ok {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(g.Root, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		row, err := s.Parse(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		out = append(out, row)
	}
	return out, nil
}

// Open resolves a dataset reference: "" or "embedded", a glob pattern,
// a directory of article files, or a single JSON/YAML file.
func Open(ref string) (core.BootstrapSource, error) {
	if ref == "" || ref == EmbeddedName {
		return Embedded(), nil
	}

	if strings.ContainsAny(ref, "*?[{") {
		root, pattern := doublestar.SplitPattern(filepath.ToSlash(ref))
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid dataset pattern %q", ref)
		}
		return Glob{Root: filepath.FromSlash(root), Pattern: pattern}, nil
	}

	info, err := os.Stat(ref)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", ref, err)
	}
	if info.IsDir() {
		return Glob{Root: ref, Pattern: "**/*.{md,json,yaml,yml}"}, nil
	}
	return File{Path: ref}, nil
}

func decodeJSON(raw []byte) ([]core.Metadata, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var rows []core.Metadata
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("invalid json dataset: %w", err)
	}
	return rows, nil
}
