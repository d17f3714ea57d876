package verify

import (
	"fmt"
	"strings"

	"github.com/attestkit/attest/internal/config"
)

// MatchRule pairs a claim-text fragment with the proof command that tests
// claims of that type.
type MatchRule struct {
	Fragment string
	Command  string
}

// MatchTable returns the ordered demand rules for the given match
// parameters. Earlier rules win; fragments are matched case-insensitively.
func MatchTable(m config.Match) []MatchRule {
	return []MatchRule{
		{"server running", fmt.Sprintf("pgrep -af %s", m.ProcessPattern)},
		{"api responding", fmt.Sprintf("curl -s %s", m.APIURL)},
		{"file exists", fmt.Sprintf("ls -la %s", m.KeyFile)},
		{"process count", fmt.Sprintf("ps aux | grep %s | grep -v grep | wc -l", m.ProcessPattern)},
		{"containers running", "docker ps --format {{.Names}}"},
	}
}

// MatchProof returns the proof command for the first rule whose fragment
// appears in text. ok is false when no rule matches.
func MatchProof(text string, m config.Match) (command string, ok bool) {
	lower := strings.ToLower(text)
	for _, rule := range MatchTable(m) {
		if strings.Contains(lower, rule.Fragment) {
			return rule.Command, true
		}
	}
	return "", false
}
