package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/zero-day-ai/xplor/graph"
	"gopkg.in/yaml.v3"
)

// Files resolves a query by reading the document named after its slug from
// a directory. Candidates are tried in order: <slug>.yaml, <slug>.yml and
// <slug>.json. A missing document is a query without results.
type Files struct {
	dir    string
	source string
}

// NewFiles creates a Files resolver reading from dir.
func NewFiles(dir string) (*Files, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat resolver directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("resolver path %s is not a directory", dir)
	}
	return &Files{dir: dir, source: "file"}, nil
}

// Dir returns the directory documents are read from.
func (f *Files) Dir() string { return f.dir }

func (f *Files) Resolve(ctx context.Context, collection, query string) (*graph.Graph, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slug := Slug(query)
	if slug == "" {
		return empty(collection, query, f.source), nil
	}

	for _, ext := range []string{".yaml", ".yml", ".json"} {
		path := filepath.Join(f.dir, slug+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		doc, err := parse(ext, data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		g, err := graph.FromDocument(Rebind(doc, collection))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if g.Query == nil {
			g.Query = describe(query, f.source)
			g.Query.URL = path
		}
		return g, nil
	}

	return empty(collection, query, f.source), nil
}

func parse(ext string, data []byte) (graph.Document, error) {
	var doc graph.Document
	var err error
	if ext == ".json" {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	return doc, err
}
