// Package blocktypes is the catalog of block type tags a form may use.
package blocktypes

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry holds block type metadata, ordered as defined in YAML.
// It is read-only after construction and safe for concurrent use.
type Registry struct {
	types []TypeInfo
	index map[string]int
}

// NewRegistry creates a registry from the embedded catalog
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/block_types.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read block type catalog: %w", err)
	}
	return Parse(data)
}

// Parse builds a registry from catalog YAML
func Parse(data []byte) (*Registry, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal block type catalog: %w", err)
	}
	if len(file.Types) == 0 {
		return nil, fmt.Errorf("block type catalog is empty")
	}

	r := &Registry{index: make(map[string]int, len(file.Types))}
	for _, info := range file.Types {
		if _, dup := r.index[info.ID]; dup {
			return nil, fmt.Errorf("block type %q declared twice", info.ID)
		}
		r.index[info.ID] = len(r.types)
		r.types = append(r.types, info)
	}
	return r, nil
}

// Get returns metadata for a block type
func (r *Registry) Get(id string) (TypeInfo, bool) {
	i, ok := r.index[id]
	if !ok {
		return TypeInfo{}, false
	}
	return r.types[i], true
}

// IsKnown reports whether id is a catalogued block type
func (r *Registry) IsKnown(id string) bool {
	_, ok := r.Get(id)
	return ok
}

// IsChoice reports whether blocks of this type need an option list
func (r *Registry) IsChoice(id string) bool {
	info, ok := r.Get(id)
	return ok && info.Choice
}

// List returns all block types (ordered as defined in YAML)
func (r *Registry) List() []TypeInfo {
	out := make([]TypeInfo, len(r.types))
	copy(out, r.types)
	return out
}

// IDs returns all type tags in catalog order
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.types))
	for i, t := range r.types {
		ids[i] = t.ID
	}
	return ids
}
