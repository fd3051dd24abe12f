package logic

import (
	"fmt"

	"formcraft/internal/domain/models/form"
)

// FindFieldReferences reports which rules mention fieldID and how
// (as a condition field, an action target, or both).
func FindFieldReferences(logic *form.Logic, fieldID string) form.FieldReferences {
	result := form.FieldReferences{
		FieldID:    fieldID,
		References: make([]form.RuleReference, 0),
	}
	if logic == nil {
		return result
	}

	for _, rule := range logic.Rules {
		var kinds []form.ReferenceKind
		for _, cond := range rule.Conditions {
			if cond.Field == fieldID {
				kinds = append(kinds, form.ReferenceCondition)
				break
			}
		}
		for _, action := range rule.Actions {
			if action.Target == fieldID {
				kinds = append(kinds, form.ReferenceAction)
				break
			}
		}
		if len(kinds) > 0 {
			result.References = append(result.References, form.RuleReference{
				RuleID:   rule.ID,
				RuleName: rule.Name,
				Kinds:    kinds,
			})
		}
	}

	result.Referenced = len(result.References) > 0
	return result
}

// RemoveFieldReferences returns a copy of logic with fieldID stripped from every
// condition and action. Rules left without conditions or without actions are
// dropped. The input is not modified; nil in gives nil out.
func RemoveFieldReferences(logic *form.Logic, fieldID string) *form.Logic {
	if logic == nil {
		return nil
	}

	out := &form.Logic{Rules: make([]form.LogicRule, 0, len(logic.Rules))}
	for _, rule := range logic.Rules {
		stripped := rule.Clone()
		conditions := stripped.Conditions[:0]
		for _, cond := range stripped.Conditions {
			if cond.Field != fieldID {
				conditions = append(conditions, cond)
			}
		}
		actions := stripped.Actions[:0]
		for _, action := range stripped.Actions {
			if action.Target != fieldID {
				actions = append(actions, action)
			}
		}
		stripped.Conditions = conditions
		stripped.Actions = actions

		if len(stripped.Conditions) == 0 || len(stripped.Actions) == 0 {
			continue
		}
		out.Rules = append(out.Rules, stripped)
	}

	return out
}

// CheckFieldDeletion returns a referenced_field finding when deleting fieldID
// would orphan logic, nil otherwise
func CheckFieldDeletion(f *form.Form, fieldID string) *form.ValidationError {
	refs := FindFieldReferences(f.Logic, fieldID)
	if !refs.Referenced {
		return nil
	}
	return &form.ValidationError{
		Type:    form.ErrorTypeReferencedField,
		Message: fmt.Sprintf("Field %q is used by %d logic rule(s)", fieldID, len(refs.References)),
		Details: form.ReferencedFieldDetails{
			FieldID:    fieldID,
			References: refs.References,
		},
	}
}

// ValidateReferences reports logic that points at fields no block provides,
// matching by block ID or effective key. One finding per dangling field.
func ValidateReferences(f *form.Form) []form.ValidationError {
	var order []string
	seen := make(map[string]bool)
	note := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}
	for _, rule := range f.Rules() {
		for _, cond := range rule.Conditions {
			note(cond.Field)
		}
		for _, action := range rule.Actions {
			note(action.Target)
		}
	}

	var findings []form.ValidationError
	for _, fieldID := range order {
		if f.HasField(fieldID) {
			continue
		}
		refs := FindFieldReferences(f.Logic, fieldID)
		findings = append(findings, form.ValidationError{
			Type:    form.ErrorTypeReferencedField,
			Message: fmt.Sprintf("Logic references missing field %q", fieldID),
			Details: form.ReferencedFieldDetails{
				FieldID:    fieldID,
				References: refs.References,
			},
		})
	}

	return findings
}
