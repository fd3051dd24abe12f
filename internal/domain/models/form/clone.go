package form

// Clone returns a structural deep copy of the form.
// History snapshots rely on this: a clone shares no slices or maps with its source.
func (f *Form) Clone() *Form {
	if f == nil {
		return nil
	}
	out := *f
	if f.Pages != nil {
		out.Pages = make([]Page, len(f.Pages))
		for i := range f.Pages {
			out.Pages[i] = f.Pages[i].Clone()
		}
	}
	out.Logic = f.Logic.Clone()
	out.Theme = Theme(cloneMap(f.Theme))
	out.Settings = cloneMap(f.Settings)
	return &out
}

// Clone returns a deep copy of the page and its blocks
func (p Page) Clone() Page {
	out := p
	if p.Blocks != nil {
		out.Blocks = make([]Block, len(p.Blocks))
		for i := range p.Blocks {
			out.Blocks[i] = p.Blocks[i].Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the block
func (b Block) Clone() Block {
	out := b
	out.DefaultValue = cloneValue(b.DefaultValue)
	if b.Options != nil {
		out.Options = make([]Option, len(b.Options))
		copy(out.Options, b.Options)
	}
	out.Properties = cloneMap(b.Properties)
	return out
}

// Clone returns a deep copy of the logic container
func (l *Logic) Clone() *Logic {
	if l == nil {
		return nil
	}
	out := &Logic{}
	if l.Rules != nil {
		out.Rules = make([]LogicRule, len(l.Rules))
		for i := range l.Rules {
			out.Rules[i] = l.Rules[i].Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the rule
func (r LogicRule) Clone() LogicRule {
	out := r
	if r.Conditions != nil {
		out.Conditions = make([]Condition, len(r.Conditions))
		for i, c := range r.Conditions {
			c.Value = cloneValue(c.Value)
			out.Conditions[i] = c
		}
	}
	if r.Actions != nil {
		out.Actions = make([]Action, len(r.Actions))
		for i, a := range r.Actions {
			a.Value = cloneValue(a.Value)
			out.Actions[i] = a
		}
	}
	return out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue copies the container types that JSON and YAML decoding produce.
// Scalars and time values are immutable and returned as-is.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case Theme:
		return Theme(cloneMap(t))
	case []any:
		if t == nil {
			return t
		}
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	case []string:
		if t == nil {
			return t
		}
		out := make([]string, len(t))
		copy(out, t)
		return out
	case map[string]string:
		if t == nil {
			return t
		}
		out := make(map[string]string, len(t))
		for k, s := range t {
			out[k] = s
		}
		return out
	default:
		return v
	}
}
