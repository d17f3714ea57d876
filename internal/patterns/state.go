package patterns

import (
	"encoding/json"
	"time"

	"github.com/attestkit/attest/internal/errors"
	"github.com/attestkit/attest/internal/fs"
)

// State is the awareness snapshot written after an advisory run. Write-only
// by contract: it is never read back, since activation is session-scoped.
type State struct {
	ActivationActive bool    `json:"activation_active"`
	AwarenessLevel   float64 `json:"awareness_level"`
	LastCheck        string  `json:"last_check"`
	PatternCount     int     `json:"pattern_count"`
	DecisionCount    int     `json:"decision_count"`
}

// WriteState records the current awareness snapshot at path. decisions is
// the number of decisions scored this session.
func (l *Learner) WriteState(path string, decisions int) error {
	if err := l.load(); err != nil {
		return err
	}
	st := State{
		ActivationActive: l.active,
		AwarenessLevel:   l.Level(),
		LastCheck:        l.now().Format(time.RFC3339),
		PatternCount:     len(l.scores),
		DecisionCount:    decisions,
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return errors.Wrap(errors.EStoreIO, "failed to encode state", err)
	}
	data = append(data, '\n')
	if err := fs.WriteFileAtomic(l.FS, path, data, 0o644); err != nil {
		return errors.Wrap(errors.EStoreIO, "failed to write state file", err)
	}
	return nil
}
