package formstate

import (
	"formcraft/internal/domain"
	"formcraft/internal/domain/models/form"
)

// AddLogicRule appends a copy of rule, creating the logic section when absent
func (e *Engine) AddLogicRule(rule form.LogicRule) error {
	if err := e.requireForm(); err != nil {
		return err
	}

	if e.form.Logic == nil {
		e.form.Logic = &form.Logic{}
	}
	e.form.Logic.Rules = append(e.form.Logic.Rules, rule.Clone())

	e.commit("add_rule", "rule_id", rule.ID)
	return nil
}

// UpdateLogicRule merges patch onto the rule
func (e *Engine) UpdateLogicRule(ruleID string, patch form.RulePatch) error {
	if err := e.requireForm(); err != nil {
		return err
	}
	ri := e.form.Logic.RuleIndex(ruleID)
	if ri < 0 {
		return domain.NewNotFound("rule", ruleID)
	}

	patch.ApplyTo(&e.form.Logic.Rules[ri])

	e.commit("update_rule", "rule_id", ruleID)
	return nil
}

// DeleteLogicRule removes the rule
func (e *Engine) DeleteLogicRule(ruleID string) error {
	if err := e.requireForm(); err != nil {
		return err
	}
	ri := e.form.Logic.RuleIndex(ruleID)
	if ri < 0 {
		return domain.NewNotFound("rule", ruleID)
	}

	e.form.Logic.Rules = removeAt(e.form.Logic.Rules, ri)

	e.commit("delete_rule", "rule_id", ruleID)
	return nil
}
