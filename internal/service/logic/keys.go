package logic

import (
	"fmt"

	"formcraft/internal/domain/models/form"
)

// ValidateUniqueKeys reports every effective field key shared by more than one
// block, across all pages. Findings are ordered by the key's first appearance.
func ValidateUniqueKeys(f *form.Form) []form.ValidationError {
	var order []string
	byKey := make(map[string][]form.Block)

	for _, page := range f.Pages {
		for _, block := range page.Blocks {
			key := block.EffectiveKey()
			if _, seen := byKey[key]; !seen {
				order = append(order, key)
			}
			byKey[key] = append(byKey[key], block)
		}
	}

	var findings []form.ValidationError
	for _, key := range order {
		blocks := byKey[key]
		if len(blocks) < 2 {
			continue
		}

		details := form.DuplicateKeyDetails{
			Key:       key,
			BlockIDs:  make([]string, len(blocks)),
			Questions: make([]string, len(blocks)),
		}
		for i, b := range blocks {
			details.BlockIDs[i] = b.ID
			details.Questions[i] = b.Question
		}

		findings = append(findings, form.ValidationError{
			Type:    form.ErrorTypeDuplicateKey,
			Message: fmt.Sprintf("Duplicate field key %q is used by %d blocks", key, len(blocks)),
			Details: details,
		})
	}

	return findings
}
