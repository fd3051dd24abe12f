package logic

import (
	"strings"

	"formcraft/internal/domain/models/form"
)

// dependencyGraph links a rule's condition fields to the targets of its flow
// (jump/skip) actions. Only fields that resolve to a block become nodes, so a
// dangling reference can never be part of a cycle. Nodes and edges keep
// first-seen order so results are stable.
type dependencyGraph struct {
	nodes []string
	edges map[string][]string
}

func buildDependencyGraph(f *form.Form) *dependencyGraph {
	known := fieldSet(f)
	g := &dependencyGraph{edges: make(map[string][]string)}
	seen := make(map[string]bool)
	addNode := func(id string) {
		if !seen[id] {
			seen[id] = true
			g.nodes = append(g.nodes, id)
		}
	}

	for _, rule := range f.Rules() {
		for _, cond := range rule.Conditions {
			if !known[cond.Field] {
				continue
			}
			for _, action := range rule.Actions {
				if !action.Kind.IsFlow() || !known[action.Target] {
					continue
				}
				addNode(cond.Field)
				addNode(action.Target)
				if !containsString(g.edges[cond.Field], action.Target) {
					g.edges[cond.Field] = append(g.edges[cond.Field], action.Target)
				}
			}
		}
	}

	return g
}

// fieldSet holds every identifier a rule may use for a block: its ID and its effective key
func fieldSet(f *form.Form) map[string]bool {
	known := make(map[string]bool)
	for _, page := range f.Pages {
		for _, b := range page.Blocks {
			known[b.ID] = true
			known[b.EffectiveKey()] = true
		}
	}
	return known
}

// cycleFinder is a depth-first search with an explicit recursion stack
type cycleFinder struct {
	graph   *dependencyGraph
	visited map[string]bool
	onStack map[string]bool
	path    []string
}

// DetectLogicCycles reports cyclic field dependencies in the form's logic.
// Rules naming fields that no block provides are ignored here; see ValidateReferences.
// Each unvisited node starts a traversal, and a traversal stops at the first
// cycle it finds, so disjoint cycles reached from different roots are each
// reported once while alternative cycles through one root are not enumerated.
func DetectLogicCycles(f *form.Form) []form.ValidationError {
	rules := f.Rules()
	if len(rules) == 0 {
		return nil
	}

	finder := &cycleFinder{
		graph:   buildDependencyGraph(f),
		visited: make(map[string]bool),
		onStack: make(map[string]bool),
	}

	var findings []form.ValidationError
	for _, node := range finder.graph.nodes {
		if finder.visited[node] {
			continue
		}
		if cycle := finder.visit(node); cycle != nil {
			findings = append(findings, cycleFinding(cycle, rules))
		}
	}

	return findings
}

// visit returns the first cycle reachable from node, as a chain that starts and
// ends on the same field, or nil
func (c *cycleFinder) visit(node string) []string {
	c.visited[node] = true
	c.onStack[node] = true
	c.path = append(c.path, node)
	defer func() {
		c.onStack[node] = false
		c.path = c.path[:len(c.path)-1]
	}()

	for _, next := range c.graph.edges[node] {
		if c.onStack[next] {
			start := indexOf(c.path, next)
			cycle := make([]string, 0, len(c.path)-start+1)
			cycle = append(cycle, c.path[start:]...)
			return append(cycle, next)
		}
		if !c.visited[next] {
			if cycle := c.visit(next); cycle != nil {
				return cycle
			}
		}
	}

	return nil
}

func cycleFinding(cycle []string, rules []form.LogicRule) form.ValidationError {
	members := make(map[string]bool, len(cycle))
	for _, id := range cycle {
		members[id] = true
	}

	// A rule contributes when it has a condition field and an action target inside the cycle
	var ruleIDs []string
	for _, rule := range rules {
		if ruleTouches(rule, members) {
			ruleIDs = append(ruleIDs, rule.ID)
		}
	}

	return form.ValidationError{
		Type:    form.ErrorTypeLogicCycle,
		Message: "Circular logic detected: " + strings.Join(cycle, " → "),
		Details: form.LogicCycleDetails{
			Cycle:   cycle,
			RuleIDs: ruleIDs,
		},
	}
}

func ruleTouches(rule form.LogicRule, members map[string]bool) bool {
	hasCondition := false
	for _, cond := range rule.Conditions {
		if members[cond.Field] {
			hasCondition = true
			break
		}
	}
	if !hasCondition {
		return false
	}
	for _, action := range rule.Actions {
		if members[action.Target] {
			return true
		}
	}
	return false
}

func indexOf(items []string, s string) int {
	for i, item := range items {
		if item == s {
			return i
		}
	}
	return -1
}

func containsString(items []string, s string) bool {
	return indexOf(items, s) >= 0
}
