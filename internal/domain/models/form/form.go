// Package form holds the form document model edited by the state engine.
// The types are plain data; behaviour lives in service/formstate and service/logic.
package form

import "time"

// BlockType is the semantic type tag of a block.
// Catalog metadata for each tag lives in internal/blocktypes.
type BlockType string

const (
	BlockShortText     BlockType = "short_text"
	BlockLongText      BlockType = "long_text"
	BlockEmail         BlockType = "email"
	BlockPhone         BlockType = "phone"
	BlockURL           BlockType = "url"
	BlockNumber        BlockType = "number"
	BlockDate          BlockType = "date"
	BlockRating        BlockType = "rating"
	BlockScale         BlockType = "scale"
	BlockSelect        BlockType = "select"
	BlockRadio         BlockType = "radio"
	BlockCheckboxGroup BlockType = "checkbox_group"
	BlockCheckbox      BlockType = "checkbox"
	BlockFileUpload    BlockType = "file_upload"
	BlockStatement     BlockType = "statement"
)

// Theme is a free-form map of presentation settings (colors, fonts, layout)
type Theme map[string]any

// Form is the root aggregate: an ordered list of pages plus logic, theme and settings.
// A loaded form always has at least one page.
type Form struct {
	ID          string         `json:"id" yaml:"id"`
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Pages       []Page         `json:"pages" yaml:"pages"`
	Logic       *Logic         `json:"logic,omitempty" yaml:"logic,omitempty"`
	Theme       Theme          `json:"theme,omitempty" yaml:"theme,omitempty"`
	Settings    map[string]any `json:"settings,omitempty" yaml:"settings,omitempty"`
	CreatedAt   time.Time      `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt   time.Time      `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// Page owns an ordered sequence of blocks
type Page struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Blocks      []Block `json:"blocks" yaml:"blocks"`
}

// Block is one question/field on a page
type Block struct {
	ID           string         `json:"id" yaml:"id"`
	Type         BlockType      `json:"type" yaml:"type"`
	Question     string         `json:"question" yaml:"question"`
	Description  string         `json:"description,omitempty" yaml:"description,omitempty"`
	HelpText     string         `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	Placeholder  string         `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	DefaultValue any            `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Required     bool           `json:"required" yaml:"required"`
	Key          string         `json:"key,omitempty" yaml:"key,omitempty"` // External data key; empty = ID
	Options      []Option       `json:"options,omitempty" yaml:"options,omitempty"`
	Properties   map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"` // Type-specific payload (min, max, rows...)
}

// Option is one entry of a choice block's option list
type Option struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

// EffectiveKey returns the externally visible data key: the explicit key, else the block ID
func (b Block) EffectiveKey() string {
	if b.Key != "" {
		return b.Key
	}
	return b.ID
}

// BlockLocation addresses a block inside a form
type BlockLocation struct {
	PageIndex  int
	BlockIndex int
}

// FindBlock returns the location of the first block with the given ID, scanning pages in order
func (f *Form) FindBlock(blockID string) (BlockLocation, bool) {
	for pi := range f.Pages {
		for bi := range f.Pages[pi].Blocks {
			if f.Pages[pi].Blocks[bi].ID == blockID {
				return BlockLocation{PageIndex: pi, BlockIndex: bi}, true
			}
		}
	}
	return BlockLocation{}, false
}

// Block returns a pointer to the block at loc
func (f *Form) Block(loc BlockLocation) *Block {
	return &f.Pages[loc.PageIndex].Blocks[loc.BlockIndex]
}

// PageIndex returns the index of the page with the given ID, or -1
func (f *Form) PageIndex(pageID string) int {
	for i := range f.Pages {
		if f.Pages[i].ID == pageID {
			return i
		}
	}
	return -1
}

// AllBlocks returns every block in document order
func (f *Form) AllBlocks() []Block {
	var blocks []Block
	for _, p := range f.Pages {
		blocks = append(blocks, p.Blocks...)
	}
	return blocks
}

// HasField reports whether fieldID names a block, either by ID or by effective key
func (f *Form) HasField(fieldID string) bool {
	for _, p := range f.Pages {
		for _, b := range p.Blocks {
			if b.ID == fieldID || b.EffectiveKey() == fieldID {
				return true
			}
		}
	}
	return false
}

// Rules returns the logic rules, nil when the form has no logic
func (f *Form) Rules() []LogicRule {
	if f.Logic == nil {
		return nil
	}
	return f.Logic.Rules
}
