// Package config loads the YAML files the CLI feeds the engine: catalog
// seed files describing entry groups, and bias files describing search
// bias rules.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/grovestore/grove/internal/bias"
	"github.com/grovestore/grove/internal/catalog"
)

// BiasFile is the on-disk shape of a bias rule list.
type BiasFile struct {
	Biases []bias.Spec `yaml:"biases"`
}

// EntrySpec is the on-disk shape of one catalog entry group.
type EntrySpec struct {
	ID           string `yaml:"id"`
	Title        string `yaml:"title"`
	Developer    string `yaml:"developer,omitempty"`
	Description  string `yaml:"description,omitempty"`
	SearchTokens string `yaml:"search_tokens,omitempty"`

	// Searchable defaults to true when omitted.
	Searchable *bool `yaml:"searchable,omitempty"`
}

// CatalogFile is the on-disk shape of a catalog seed file.
type CatalogFile struct {
	Entries []EntrySpec `yaml:"entries"`
}

// LoadBiases reads a bias file. Structural validation of individual rules
// happens at table compile time, not here: a rule list loads as long as
// the YAML parses, and bad rules become inert placeholders later.
func LoadBiases(path string) ([]bias.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bias file: %w", err)
	}

	var file BiasFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse bias file %s: %w", path, err)
	}
	return file.Biases, nil
}

// LoadCatalog reads a catalog seed file into entry groups.
func LoadCatalog(path string) ([]*catalog.Group, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", path, err)
	}

	groups := make([]*catalog.Group, 0, len(file.Entries))
	for i, entry := range file.Entries {
		if entry.ID == "" {
			return nil, fmt.Errorf("catalog file %s: entry %d has no id", path, i)
		}
		searchable := true
		if entry.Searchable != nil {
			searchable = *entry.Searchable
		}
		groups = append(groups, catalog.NewGroup(catalog.Fields{
			ID:           entry.ID,
			Title:        entry.Title,
			Developer:    entry.Developer,
			Description:  entry.Description,
			SearchTokens: entry.SearchTokens,
			Searchable:   searchable,
		}))
	}
	return groups, nil
}
