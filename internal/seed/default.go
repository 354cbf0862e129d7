package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// DefaultSource serves the dataset compiled into the binary.
type DefaultSource struct{}

func (DefaultSource) Name() string { return "default" }

func (DefaultSource) Load(ctx context.Context) (Dataset, error) {
	if err := ctx.Err(); err != nil {
		return Dataset{}, err
	}
	ds, err := decodeYAML(defaultYAML)
	if err != nil {
		return Dataset{}, fmt.Errorf("decode embedded dataset: %w", err)
	}
	return ds, nil
}

func decodeYAML(data []byte) (Dataset, error) {
	var ds Dataset
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil && !errors.Is(err, io.EOF) {
		return Dataset{}, err
	}
	return ds, nil
}
