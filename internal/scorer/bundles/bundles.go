// Package bundles holds the data the scorer is configured with and the
// sources it can be loaded from. Bundles are YAML documents addressed by
// name: `common` carries language-independent dictionaries and keyboard
// adjacency graphs, and each language (e.g. `en`) carries its own
// dictionaries plus the feedback translations.
package bundles

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

const (
	NameCommon = "common"

	fileExtension = ".yaml"
)

var (
	ErrNotFound = errors.New("bundle_not_found")
	ErrInvalid  = errors.New("bundle_invalid")
)

//go:embed data/*.yaml
var dataFS embed.FS

// Source fetches the raw bytes of a bundle by name
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// Common is the language-independent bundle
type Common struct {
	Dictionary      map[string][]string            `yaml:"dictionary"`
	AdjacencyGraphs map[string]map[string][]string `yaml:"adjacencyGraphs"`
}

// Language is the bundle for a single language
type Language struct {
	Language     string                       `yaml:"language"`
	Dictionary   map[string][]string          `yaml:"dictionary"`
	Translations map[string]map[string]string `yaml:"translations"`
}

// LoadCommon fetches and decodes the common bundle
func LoadCommon(ctx context.Context, source Source) (*Common, error) {
	data, err := source.Fetch(ctx, NameCommon)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bundle[%s]: %w", NameCommon, err)
	}
	var bundle Common
	if err := yaml.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("failed to parse bundle[%s]: %w: %w", NameCommon, ErrInvalid, err)
	}
	if len(bundle.AdjacencyGraphs) == 0 {
		return nil, fmt.Errorf("failed to find adjacency graphs in bundle[%s]: %w", NameCommon, ErrInvalid)
	}
	return &bundle, nil
}

// LoadLanguage fetches and decodes the bundle for `language`
func LoadLanguage(ctx context.Context, source Source, language string) (*Language, error) {
	data, err := source.Fetch(ctx, language)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bundle[%s]: %w", language, err)
	}
	var bundle Language
	if err := yaml.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("failed to parse bundle[%s]: %w: %w", language, ErrInvalid, err)
	}
	if bundle.Language == "" {
		bundle.Language = language
	}
	if len(bundle.Translations) == 0 {
		return nil, fmt.Errorf("failed to find translations in bundle[%s]: %w", language, ErrInvalid)
	}
	return &bundle, nil
}

// FsSource reads bundles from `<name>.yaml` files at the root of FS
type FsSource struct {
	FS fs.FS
}

// NewEmbeddedSource returns a source over the bundles compiled into the
// binary
func NewEmbeddedSource() *FsSource {
	data, err := fs.Sub(dataFS, "data")
	if err != nil {
		panic(fmt.Sprintf("failed to open embedded bundles: %s", err))
	}
	return &FsSource{FS: data}
}

func (s *FsSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(s.FS, name+fileExtension)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read bundle[%s]: %w", name, err)
	}
	return data, nil
}
