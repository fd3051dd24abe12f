package form

// Operator compares a condition's field value with its comparison value
type Operator string

const (
	OperatorEquals      Operator = "equals"
	OperatorNotEquals   Operator = "not_equals"
	OperatorContains    Operator = "contains"
	OperatorNotContains Operator = "not_contains"
	OperatorGreaterThan Operator = "greater_than"
	OperatorLessThan    Operator = "less_than"
	OperatorIsEmpty     Operator = "is_empty"
	OperatorIsNotEmpty  Operator = "is_not_empty"
)

// ActionKind is what a rule does to its target field when its conditions hold
type ActionKind string

const (
	ActionShow     ActionKind = "show"
	ActionHide     ActionKind = "hide"
	ActionSkip     ActionKind = "skip"
	ActionJump     ActionKind = "jump"
	ActionSetValue ActionKind = "set_value"
)

// IsFlow reports whether the action changes navigation order.
// Only flow actions create edges in the logic dependency graph.
func (k ActionKind) IsFlow() bool {
	return k == ActionJump || k == ActionSkip
}

// Logic is the form's ordered rule set
type Logic struct {
	Rules []LogicRule `json:"rules" yaml:"rules"`
}

// LogicRule fires its actions when all conditions hold (AND, in order)
type LogicRule struct {
	ID         string      `json:"id" yaml:"id"`
	Name       string      `json:"name,omitempty" yaml:"name,omitempty"`
	Conditions []Condition `json:"conditions" yaml:"conditions"`
	Actions    []Action    `json:"actions" yaml:"actions"`
}

// Condition tests one field
type Condition struct {
	Field    string   `json:"field" yaml:"field"`
	Operator Operator `json:"operator" yaml:"operator"`
	Value    any      `json:"value,omitempty" yaml:"value,omitempty"`
}

// Action targets one field
type Action struct {
	Kind   ActionKind `json:"kind" yaml:"kind"`
	Target string     `json:"target" yaml:"target"`
	Value  any        `json:"value,omitempty" yaml:"value,omitempty"`
}

// RuleIndex returns the index of the rule with the given ID, or -1
func (l *Logic) RuleIndex(ruleID string) int {
	if l == nil {
		return -1
	}
	for i := range l.Rules {
		if l.Rules[i].ID == ruleID {
			return i
		}
	}
	return -1
}
