package formfile

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"formcraft/internal/domain/models/form"
)

const yamlDoc = `
id: survey-1
title: Customer survey
pages:
  - id: p1
    title: Basics
    blocks:
      - id: b1
        type: short_text
        question: Your name
        key: name
        required: true
      - id: b2
        type: rating
        question: How did we do?
        properties:
          max: 5
logic:
  rules:
    - id: r1
      conditions:
        - field: b2
          operator: less_than
          value: 3
      actions:
        - kind: show
          target: b1
theme:
  primaryColor: "#ff0000"
`

func TestDecodeYAML(t *testing.T) {
	f, err := Decode([]byte(yamlDoc), FormatYAML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if f.ID != "survey-1" || len(f.Pages) != 1 || len(f.Pages[0].Blocks) != 2 {
		t.Fatalf("unexpected form %+v", f)
	}
	if b := f.Pages[0].Blocks[0]; b.Key != "name" || !b.Required || b.Type != form.BlockShortText {
		t.Errorf("unexpected block %+v", b)
	}
	if got := f.Pages[0].Blocks[1].Properties["max"]; got != 5 {
		t.Errorf("expected max 5, got %v (%T)", got, got)
	}
	if len(f.Rules()) != 1 || f.Rules()[0].Conditions[0].Operator != form.OperatorLessThan {
		t.Errorf("unexpected logic %+v", f.Logic)
	}
	if f.Theme["primaryColor"] != "#ff0000" {
		t.Errorf("unexpected theme %v", f.Theme)
	}
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"json", `{"id":"f","pages":[],"titel":"typo"}`, FormatJSON},
		{"yaml", "id: f\ntitel: typo\n", FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.data), tt.format); err == nil {
				t.Error("expected an error for an unknown field")
			}
		})
	}
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"form.json", FormatJSON, false},
		{"form.YAML", FormatYAML, false},
		{"dir/form.yml", FormatYAML, false},
		{"form.toml", "", true},
		{"form", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatOf(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	src, err := Decode([]byte(yamlDoc), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()

	for _, name := range []string{"out.json", "out.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := Save(path, src); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got.ID != src.ID || !reflect.DeepEqual(blockIDs(got), blockIDs(src)) {
				t.Errorf("round trip lost data: %+v", got)
			}
			if len(got.Rules()) != 1 {
				t.Errorf("logic lost: %+v", got.Logic)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(bad); err == nil {
		t.Error("expected a decode error")
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected a read error")
	}
}

func blockIDs(f *form.Form) []string {
	var ids []string
	for _, b := range f.AllBlocks() {
		ids = append(ids, b.ID)
	}
	return ids
}
