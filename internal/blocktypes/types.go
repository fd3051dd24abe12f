package blocktypes

import "gopkg.in/yaml.v3"

// Category groups block types in the editor palette
type Category string

const (
	CategoryText    Category = "text"
	CategoryContact Category = "contact"
	CategoryNumeric Category = "numeric"
	CategoryChoice  Category = "choice"
	CategoryMedia   Category = "media"
	CategoryLayout  Category = "layout"
)

// TypeInfo describes one block type tag
type TypeInfo struct {
	// Type tag (set during YAML unmarshaling)
	ID string `yaml:"-" json:"id"`

	DisplayName string   `yaml:"display_name" json:"display_name"`
	Category    Category `yaml:"category" json:"category"`

	// Choice types carry an ordered option list and need at least one option
	Choice     bool `yaml:"choice" json:"choice"`
	MultiValue bool `yaml:"multi_value" json:"multi_value"`

	AcceptsPlaceholder bool `yaml:"accepts_placeholder" json:"accepts_placeholder"`

	// CollectsAnswer is false for layout-only blocks (nil in YAML = true)
	CollectsAnswer *bool `yaml:"collects_answer" json:"collects_answer,omitempty"`

	MaxLength int `yaml:"max_length" json:"max_length,omitempty"`
}

// Answers reports whether submissions carry a value for this block type
func (t TypeInfo) Answers() bool {
	return t.CollectsAnswer == nil || *t.CollectsAnswer
}

// catalogFile is the on-disk shape of block_types.yaml
type catalogFile struct {
	Version int        `yaml:"version"`
	Types   []TypeInfo `yaml:"-"` // Ordered slice, populated by custom unmarshaler
}

// UnmarshalYAML preserves type order from the YAML file
func (c *catalogFile) UnmarshalYAML(node *yaml.Node) error {
	type typesOnly struct {
		Version int                 `yaml:"version"`
		Types   map[string]TypeInfo `yaml:"types"`
	}
	var raw typesOnly
	if err := node.Decode(&raw); err != nil {
		return err
	}
	c.Version = raw.Version

	for i := 0; i < len(node.Content); i += 2 {
		if node.Content[i].Value != "types" {
			continue
		}
		typesNode := node.Content[i+1]
		// typesNode.Content alternates: key, value, key, value...
		for j := 0; j < len(typesNode.Content); j += 2 {
			id := typesNode.Content[j].Value
			if info, ok := raw.Types[id]; ok {
				info.ID = id
				c.Types = append(c.Types, info)
			}
		}
		break
	}

	return nil
}
