package form

import (
	"bytes"
	"encoding/json"
)

// OptionalString tracks presence and value for JSON PATCH semantics (RFC 7396).
//   - Present=false: field absent (don't change)
//   - Present=true, Value=nil: field is null (clear)
//   - Present=true, Value=&"text": field has value
type OptionalString struct {
	Present bool
	Value   *string
}

// Set returns a present OptionalString holding s
func Set(s string) OptionalString {
	return OptionalString{Present: true, Value: &s}
}

// Clear returns a present OptionalString holding null
func Clear() OptionalString {
	return OptionalString{Present: true}
}

// UnmarshalJSON implements json.Unmarshaler.
// When this method is called, the field was present in the JSON.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true

	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

func (o OptionalString) apply(dst *string) {
	if !o.Present {
		return
	}
	if o.Value == nil {
		*dst = ""
		return
	}
	*dst = *o.Value
}

// OptionalValue is OptionalString for untyped values (block default values)
type OptionalValue struct {
	Present bool
	Value   any
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalValue) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// BlockPatch is a partial block update. Nil / absent fields are left unchanged.
// The identifier is not patchable.
type BlockPatch struct {
	Type         *BlockType     `json:"type"`
	Question     *string        `json:"question"`
	Description  OptionalString `json:"description"`
	HelpText     OptionalString `json:"helpText"`
	Placeholder  OptionalString `json:"placeholder"`
	DefaultValue OptionalValue  `json:"defaultValue"`
	Required     *bool          `json:"required"`
	Key          OptionalString `json:"key"` // Clearing reverts the effective key to the block ID
	Options      *[]Option      `json:"options"`
	Properties   map[string]any `json:"properties"` // Replaces the payload when non-nil
}

// ApplyTo merges the patch onto b
func (p BlockPatch) ApplyTo(b *Block) {
	if p.Type != nil {
		b.Type = *p.Type
	}
	if p.Question != nil {
		b.Question = *p.Question
	}
	p.Description.apply(&b.Description)
	p.HelpText.apply(&b.HelpText)
	p.Placeholder.apply(&b.Placeholder)
	if p.DefaultValue.Present {
		b.DefaultValue = cloneValue(p.DefaultValue.Value)
	}
	if p.Required != nil {
		b.Required = *p.Required
	}
	p.Key.apply(&b.Key)
	if p.Options != nil {
		b.Options = append([]Option(nil), (*p.Options)...)
	}
	if p.Properties != nil {
		b.Properties = cloneMap(p.Properties)
	}
}

// PagePatch is a partial page update
type PagePatch struct {
	Title       *string        `json:"title"`
	Description OptionalString `json:"description"`
}

// ApplyTo merges the patch onto p
func (pp PagePatch) ApplyTo(p *Page) {
	if pp.Title != nil {
		p.Title = *pp.Title
	}
	pp.Description.apply(&p.Description)
}

// RulePatch is a partial logic rule update
type RulePatch struct {
	Name       OptionalString `json:"name"`
	Conditions *[]Condition   `json:"conditions"`
	Actions    *[]Action      `json:"actions"`
}

// ApplyTo merges the patch onto r
func (p RulePatch) ApplyTo(r *LogicRule) {
	p.Name.apply(&r.Name)
	if p.Conditions != nil {
		r.Conditions = LogicRule{Conditions: *p.Conditions}.Clone().Conditions
	}
	if p.Actions != nil {
		r.Actions = LogicRule{Actions: *p.Actions}.Clone().Actions
	}
}

// FormPatch updates the form's own details
type FormPatch struct {
	Title       *string        `json:"title"`
	Description OptionalString `json:"description"`
}

// ApplyTo merges the patch onto f
func (p FormPatch) ApplyTo(f *Form) {
	if p.Title != nil {
		f.Title = *p.Title
	}
	p.Description.apply(&f.Description)
}

// MergeInto shallow-merges src into dst, allocating dst when nil.
// Used for theme and settings updates.
func MergeInto(dst map[string]any, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		dst[k] = cloneValue(v)
	}
	return dst
}
