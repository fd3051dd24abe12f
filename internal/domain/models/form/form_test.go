package form

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func sampleForm() *Form {
	return &Form{
		ID:    "form-1",
		Title: "Signup",
		Pages: []Page{
			{
				ID:    "p1",
				Title: "About you",
				Blocks: []Block{
					{ID: "b1", Type: BlockShortText, Question: "Name", Key: "name"},
					{
						ID:       "b2",
						Type:     BlockSelect,
						Question: "Plan",
						Options:  []Option{{ID: "o1", Label: "Free"}, {ID: "o2", Label: "Pro"}},
						Properties: map[string]any{
							"layout": map[string]any{"columns": 2},
							"tags":   []any{"a", "b"},
						},
					},
				},
			},
		},
		Logic: &Logic{Rules: []LogicRule{{
			ID:         "r1",
			Conditions: []Condition{{Field: "b2", Operator: OperatorEquals, Value: "Pro"}},
			Actions:    []Action{{Kind: ActionShow, Target: "b1"}},
		}}},
		Theme:    Theme{"primary": "#000"},
		Settings: map[string]any{"progressBar": true},
	}
}

type fakeCatalog struct{}

func (fakeCatalog) IsKnown(id string) bool {
	switch BlockType(id) {
	case BlockShortText, BlockSelect, BlockEmail:
		return true
	}
	return false
}

func (fakeCatalog) IsChoice(id string) bool { return BlockType(id) == BlockSelect }

func TestBlock_EffectiveKey(t *testing.T) {
	if got := (Block{ID: "b1"}).EffectiveKey(); got != "b1" {
		t.Errorf("expected fallback to ID, got %q", got)
	}
	if got := (Block{ID: "b1", Key: "email"}).EffectiveKey(); got != "email" {
		t.Errorf("expected explicit key, got %q", got)
	}
}

func TestForm_Clone_IsDeepAndIndependent(t *testing.T) {
	original := sampleForm()
	clone := original.Clone()

	if !reflect.DeepEqual(original, clone) {
		t.Fatal("clone should be deep-equal to the original")
	}

	clone.Pages[0].Blocks[0].Question = "changed"
	clone.Pages[0].Blocks[1].Options[0].Label = "changed"
	clone.Pages[0].Blocks[1].Properties["layout"].(map[string]any)["columns"] = 3
	clone.Pages[0].Blocks[1].Properties["tags"].([]any)[0] = "z"
	clone.Logic.Rules[0].Conditions[0].Field = "changed"
	clone.Theme["primary"] = "#fff"
	clone.Settings["progressBar"] = false
	clone.Pages = append(clone.Pages, Page{ID: "p2"})

	if !reflect.DeepEqual(original, sampleForm()) {
		t.Error("mutating the clone leaked into the original")
	}
}

func TestForm_Clone_Nil(t *testing.T) {
	var f *Form
	if f.Clone() != nil {
		t.Error("clone of nil form should be nil")
	}
}

func TestForm_Lookups(t *testing.T) {
	f := sampleForm()

	loc, ok := f.FindBlock("b2")
	if !ok || loc.PageIndex != 0 || loc.BlockIndex != 1 {
		t.Errorf("FindBlock(b2) = %+v, %v", loc, ok)
	}
	if _, ok := f.FindBlock("missing"); ok {
		t.Error("FindBlock should miss unknown IDs")
	}
	if f.PageIndex("p1") != 0 || f.PageIndex("nope") != -1 {
		t.Error("PageIndex returned unexpected values")
	}
	if !f.HasField("name") || !f.HasField("b2") || f.HasField("zzz") {
		t.Error("HasField should match IDs and effective keys only")
	}
	if f.Logic.RuleIndex("r1") != 0 {
		t.Error("RuleIndex(r1) should be 0")
	}
	var nilLogic *Logic
	if nilLogic.RuleIndex("r1") != -1 {
		t.Error("RuleIndex on nil logic should be -1")
	}
}

func TestBlockPatch_ApplyTo(t *testing.T) {
	b := Block{ID: "b1", Type: BlockShortText, Question: "Q", Description: "desc", Key: "k", Placeholder: "ph"}

	var patch BlockPatch
	if err := json.Unmarshal([]byte(`{"question":"New","description":null,"key":"k2","required":true,"defaultValue":"x"}`), &patch); err != nil {
		t.Fatalf("unmarshal patch: %v", err)
	}
	patch.ApplyTo(&b)

	if b.ID != "b1" {
		t.Error("patch must not change the ID")
	}
	if b.Question != "New" || b.Description != "" || b.Key != "k2" || !b.Required {
		t.Errorf("unexpected block after patch: %+v", b)
	}
	if b.Placeholder != "ph" {
		t.Error("absent fields must be left unchanged")
	}
	if b.DefaultValue != "x" {
		t.Errorf("expected default value x, got %v", b.DefaultValue)
	}
}

func TestRulePatch_ApplyTo_CopiesSlices(t *testing.T) {
	conds := []Condition{{Field: "a", Operator: OperatorIsEmpty}}
	r := LogicRule{ID: "r1"}
	RulePatch{Name: Set("Rule"), Conditions: &conds}.ApplyTo(&r)

	conds[0].Field = "mutated"
	if r.Conditions[0].Field != "a" {
		t.Error("patched rule must not alias the patch slice")
	}
	if r.Name != "Rule" {
		t.Errorf("expected name Rule, got %q", r.Name)
	}
}

func TestMergeInto(t *testing.T) {
	merged := MergeInto(nil, map[string]any{"a": 1})
	if merged["a"] != 1 {
		t.Fatal("merge into nil should allocate")
	}
	merged = MergeInto(merged, map[string]any{"b": 2})
	if len(merged) != 2 {
		t.Errorf("expected 2 keys, got %d", len(merged))
	}
}

func TestForm_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *Form)
		wantErr string
	}{
		{name: "valid form", mutate: func(f *Form) {}},
		{name: "missing id", mutate: func(f *Form) { f.ID = "" }, wantErr: "id"},
		{name: "no pages", mutate: func(f *Form) { f.Pages = nil }, wantErr: "at least one page"},
		{name: "unknown block type", mutate: func(f *Form) { f.Pages[0].Blocks[0].Type = "hologram" }, wantErr: "unknown block type"},
		{name: "choice without options", mutate: func(f *Form) { f.Pages[0].Blocks[1].Options = nil }, wantErr: "at least one option"},
		{name: "bad key", mutate: func(f *Form) { f.Pages[0].Blocks[0].Key = "1 bad key" }, wantErr: "key"},
		{name: "rule without actions", mutate: func(f *Form) { f.Logic.Rules[0].Actions = nil }, wantErr: "at least one action"},
		{name: "unknown operator", mutate: func(f *Form) { f.Logic.Rules[0].Conditions[0].Operator = "resembles" }, wantErr: "operator"},
		{name: "nil logic is fine", mutate: func(f *Form) { f.Logic = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := sampleForm()
			tt.mutate(f)
			err := f.Validate(fakeCatalog{})

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
			if !IsValidationError(err) {
				t.Errorf("expected a validation.Errors value, got %T", err)
			}
		})
	}
}
