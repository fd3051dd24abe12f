// Package logic inspects form documents for structural problems that block
// publishing: duplicate field keys and cyclic conditional logic. It also answers
// field-reference questions for the editor. Every function here is pure: inputs
// are never mutated and nothing performs I/O.
package logic

import "formcraft/internal/domain/models/form"

// ValidateForm runs the pre-publish checks and returns duplicate-key findings
// followed by logic-cycle findings. The result is never nil.
func ValidateForm(f *form.Form) []form.ValidationError {
	findings := make([]form.ValidationError, 0)
	if f == nil {
		return findings
	}

	findings = append(findings, ValidateUniqueKeys(f)...)
	findings = append(findings, DetectLogicCycles(f)...)
	return findings
}
