package form

// ValidationErrorType tags a logic validator finding
type ValidationErrorType string

const (
	ErrorTypeDuplicateKey    ValidationErrorType = "duplicate_key"
	ErrorTypeLogicCycle      ValidationErrorType = "logic_cycle"
	ErrorTypeReferencedField ValidationErrorType = "referenced_field"
)

// ValidationError is one structural problem found in a form.
// Details holds DuplicateKeyDetails, LogicCycleDetails or ReferencedFieldDetails
// depending on Type.
type ValidationError struct {
	Type    ValidationErrorType `json:"type"`
	Message string              `json:"message"`
	Details any                 `json:"details"`
}

// DuplicateKeyDetails lists the blocks sharing one effective field key
type DuplicateKeyDetails struct {
	Key       string   `json:"key"`
	BlockIDs  []string `json:"blockIds"`
	Questions []string `json:"questions"`
}

// LogicCycleDetails describes one dependency cycle.
// Cycle starts and ends on the same field.
type LogicCycleDetails struct {
	Cycle   []string `json:"cycle"`
	RuleIDs []string `json:"ruleIds"`
}

// ReferencedFieldDetails lists the rules that reference a field
type ReferencedFieldDetails struct {
	FieldID    string          `json:"fieldId"`
	References []RuleReference `json:"references"`
}

// ReferenceKind says where in a rule a field appears
type ReferenceKind string

const (
	ReferenceCondition ReferenceKind = "condition"
	ReferenceAction    ReferenceKind = "action"
)

// RuleReference is one rule that mentions a field
type RuleReference struct {
	RuleID   string          `json:"ruleId"`
	RuleName string          `json:"ruleName,omitempty"`
	Kinds    []ReferenceKind `json:"kinds"`
}

// FieldReferences is the result of a field-reference lookup
type FieldReferences struct {
	FieldID    string          `json:"fieldId"`
	Referenced bool            `json:"referenced"`
	References []RuleReference `json:"references"`
}

// RuleIDs returns the IDs of the referencing rules in rule order
func (r FieldReferences) RuleIDs() []string {
	ids := make([]string, len(r.References))
	for i, ref := range r.References {
		ids[i] = ref.RuleID
	}
	return ids
}
