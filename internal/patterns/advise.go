package patterns

import (
	"fmt"
	"strings"
)

// Advice is the outcome of one instruction-alignment scan. Violations gate
// the caller's exit code; suggestions and the confidence value are advisory.
type Advice struct {
	Violations  []string
	Suggestions []string
	Confidence  float64
}

// instructionWords mark a context that references an existing resource.
var instructionWords = []string{"use", "check", "read", "look at"}

// Advise scans an action against its context for principle violations:
//
//  1. The context asks to use, check, or read something while the action
//     creates something new.
//  2. The action/context pattern key is known and scores under 0.5.
//
// A decision confidence under the threshold adds a clarification suggestion
// but is never a violation on its own.
func (l *Learner) Advise(action, context string) (Advice, error) {
	if err := l.load(); err != nil {
		return Advice{}, err
	}
	a := Advice{Violations: []string{}, Suggestions: []string{}}
	lowAction := strings.ToLower(action)
	lowContext := strings.ToLower(context)

	if containsAny(lowContext, instructionWords...) && strings.Contains(lowAction, "creating new") {
		a.Violations = append(a.Violations, "user asked to use or check, not create")
		a.Suggestions = append(a.Suggestions, "read or check the referenced resource first")
	}

	key := KeyFor(action, context)
	if score, ok := l.scores[key]; ok && score < UnseenScore {
		a.Violations = append(a.Violations, fmt.Sprintf("pattern has low success rate (%.2f)", score))
		a.Suggestions = append(a.Suggestions, "consider an alternative approach")
	}

	a.Confidence = l.DecisionConfidence(action, context)
	if a.Confidence < ConfidenceThreshold {
		a.Suggestions = append(a.Suggestions,
			fmt.Sprintf("low confidence (%.2f): ask for clarification or validation", a.Confidence))
	}
	return a, nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
