package research

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IngestDir reads every .txt file under dir and builds an index.
func IngestDir(dir string) (*Engine, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read documents dir: %w", err)
	}

	var docs []Document
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read document %s: %w", entry.Name(), err)
		}
		docs = append(docs, Document{Source: entry.Name(), Text: string(data)})
	}

	return NewEngine(docs), nil
}

// indexFile is the persisted form: chunks only. Vectors are cheap to
// rebuild and the chunk list fully determines them.
type indexFile struct {
	Chunks []Chunk `json:"chunks"`
}

// Save persists the index to path as JSON.
func (e *Engine) Save(path string) error {
	data, err := json.Marshal(indexFile{Chunks: e.chunks})
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

// Load rebuilds an engine from a saved index.
func Load(path string) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	var idx indexFile
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}

	bySource := make(map[string][]string)
	var order []string
	for _, c := range idx.Chunks {
		if _, ok := bySource[c.Source]; !ok {
			order = append(order, c.Source)
		}
		bySource[c.Source] = append(bySource[c.Source], c.Content)
	}
	docs := make([]Document, 0, len(order))
	for _, source := range order {
		docs = append(docs, Document{Source: source, Text: strings.Join(bySource[source], "\n\n")})
	}
	return NewEngine(docs), nil
}
