// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"
)

// ExportEntry is one archived report as written to export files.
type ExportEntry struct {
	ID        string    `json:"id" yaml:"id"`
	Topic     string    `json:"topic" yaml:"topic"`
	Filename  string    `json:"filename" yaml:"filename"`
	Questions int       `json:"questions" yaml:"questions"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Markdown  string    `json:"markdown,omitempty" yaml:"markdown,omitempty"`
}

const exportLimit = 100000

// ExportYAML writes every archived report to dir/export.yaml and returns the path.
// With withBody false the Markdown bodies are left out.
func (s *Store) ExportYAML(ctx context.Context, dir string, withBody bool) (string, error) {
	entries, err := s.exportEntries(ctx, withBody)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return writeExport(dir, "export.yaml", data)
}

// ExportJSON writes every archived report to dir/export.json and returns the path.
func (s *Store) ExportJSON(ctx context.Context, dir string, withBody bool) (string, error) {
	entries, err := s.exportEntries(ctx, withBody)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return writeExport(dir, "export.json", data)
}

func (s *Store) exportEntries(ctx context.Context, withBody bool) ([]ExportEntry, error) {
	reports, err := s.List(ctx, exportLimit)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(reports))
	for i, r := range reports {
		entries[i] = ExportEntry{
			ID:        r.ID,
			Topic:     r.Topic,
			Filename:  r.Filename,
			Questions: r.Questions,
			CreatedAt: r.CreatedAt,
		}
		if withBody {
			entries[i].Markdown = r.Markdown
		}
	}
	return entries, nil
}

func writeExport(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
