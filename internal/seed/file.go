package seed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileSource reads a YAML dataset from disk.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file:" + s.Path }

func (s FileSource) Load(ctx context.Context) (Dataset, error) {
	if err := ctx.Err(); err != nil {
		return Dataset{}, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return Dataset{}, fmt.Errorf("read seed file: %w", err)
	}
	ds, err := decodeYAML(data)
	if err != nil {
		return Dataset{}, fmt.Errorf("decode seed file %s: %w", s.Path, err)
	}
	return ds, nil
}

// WriteFile encodes ds as YAML at path, creating parent directories.
func WriteFile(path string, ds Dataset) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create seed dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create seed file: %w", err)
	}
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(ds); err != nil {
		f.Close()
		return fmt.Errorf("encode seed file: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("encode seed file: %w", err)
	}
	return f.Close()
}
