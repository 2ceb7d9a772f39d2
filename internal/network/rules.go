package network

import (
	"github.com/molfuse/molfuse/internal/fuzzy"
)

// Operator compares a node's membership degree for a term against the
// fuzzy truth of the condition.
type Operator int

const (
	OpIs Operator = iota
	OpIsNot
	OpGreaterThan
	OpLessThan
)

// Condition is one antecedent clause: how strongly does the node's
// Variable belong to Term, filtered through Op.
type Condition struct {
	Variable string
	Term     string
	Op       Operator
}

// Consequent adjusts a node's prior belief when the rule fires.
type Consequent struct {
	Variable   string
	Term       string
	Adjustment float64
}

// Rule is a weighted fuzzy rule. Activation is the minimum satisfaction
// over all antecedent conditions (fuzzy AND) scaled by Weight.
type Rule struct {
	ID         string
	Antecedent []Condition
	Consequent Consequent
	Weight     float64
}

// DefaultRules returns the built-in rule base for molecular evidence:
// highly confident evidence raises belief, conflicting evidence lowers
// it harder than support raises it.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID: "high_confidence_support",
			Antecedent: []Condition{
				{Variable: "confidence", Term: fuzzy.TermHigh, Op: OpIs},
			},
			Consequent: Consequent{Variable: "posterior", Term: "increase", Adjustment: 0.1},
			Weight:     1.0,
		},
		{
			ID: "conflicting_evidence_penalty",
			Antecedent: []Condition{
				{Variable: "agreement", Term: fuzzy.TermConflicting, Op: OpIs},
			},
			Consequent: Consequent{Variable: "posterior", Term: "decrease", Adjustment: -0.2},
			Weight:     1.0,
		},
	}
}

// conditionSatisfaction evaluates one condition against a node's own
// fuzzy memberships. Unknown variables and terms evaluate to 0: a rule
// that references state a node does not carry simply does not fire.
func conditionSatisfaction(n *Node, c Condition) float64 {
	if n.Evidence == nil {
		return 0
	}

	var degree float64
	var ok bool
	switch c.Variable {
	case "confidence":
		degree, ok = n.Evidence.ConfidenceMemberships[c.Term]
	case "agreement":
		degree, ok = n.Evidence.AgreementMemberships[c.Term]
	default:
		return 0
	}
	if !ok {
		return 0
	}

	switch c.Op {
	case OpIs:
		return degree
	case OpIsNot:
		return 1 - degree
	case OpGreaterThan:
		// Crisp threshold at the fuzzy midpoint.
		if degree > 0.5 {
			return degree
		}
		return 0
	case OpLessThan:
		if degree < 0.5 {
			return 1 - degree
		}
		return 0
	}
	return 0
}

// activation computes the rule's firing strength for a node: min over
// antecedent conditions (t-norm AND), scaled by the rule weight.
func (r Rule) activation(n *Node) float64 {
	act := 1.0
	for _, c := range r.Antecedent {
		sat := conditionSatisfaction(n, c)
		if sat < act {
			act = sat
		}
	}
	return act * r.Weight
}
