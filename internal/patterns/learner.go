// Package patterns implements the persisted pattern confidence learner and
// the session-scoped awareness state built on top of it.
package patterns

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"math"
	"os"
	"strings"
	"time"

	"github.com/attestkit/attest/internal/errors"
	"github.com/attestkit/attest/internal/fs"
)

const (
	// UnseenScore is the score of a key that was never observed.
	UnseenScore = 0.5

	// ConfidenceThreshold is the advisory bound below which a decision
	// deserves clarification.
	ConfidenceThreshold = 0.7

	// BaseAwareness and FullAwareness are the two awareness levels;
	// activation switches from base to full for the rest of the session.
	BaseAwareness = 0.5
	FullAwareness = 1.0

	// EMA weights for Observe. The old score keeps 0.7 of its weight, so
	// scores stay strictly inside (0, 1) once observed.
	emaOld = 0.7
	emaNew = 0.3

	keyPrefixLen = 20
)

// Learner tracks pattern success scores in a single JSON file and holds the
// session-scoped activation state. Single-writer, last-writer-wins, like the
// claim store.
type Learner struct {
	FS     fs.FS
	Path   string
	Phrase string
	Now    func() time.Time

	scores map[string]float64
	active bool
}

// NewLearner returns a Learner over the patterns file at path. phrase is the
// activation phrase matched by CheckActivation.
func NewLearner(fsys fs.FS, path, phrase string) *Learner {
	return &Learner{FS: fsys, Path: path, Phrase: phrase, Now: time.Now}
}

// KeyFor derives the stable pattern key for an action/context pair: the
// first 8 hex characters of md5(prefix(action) + "_" + prefix(context)),
// each prefix capped at 20 bytes. Collisions are accepted; keys feed an
// approximate heuristic, not an identifier space.
func KeyFor(action, context string) string {
	sum := md5.Sum([]byte(prefix(action) + "_" + prefix(context)))
	return hex.EncodeToString(sum[:])[:8]
}

func prefix(s string) string {
	if len(s) > keyPrefixLen {
		return s[:keyPrefixLen]
	}
	return s
}

// Score returns the current score for key, or UnseenScore when the key was
// never observed.
func (l *Learner) Score(key string) (float64, error) {
	if err := l.load(); err != nil {
		return 0, err
	}
	if score, ok := l.scores[key]; ok {
		return score, nil
	}
	return UnseenScore, nil
}

// Observe folds one success or failure into the key's score with an
// exponential moving average and persists the whole map immediately.
// Returns the updated score.
func (l *Learner) Observe(key string, success bool) (float64, error) {
	if err := l.load(); err != nil {
		return 0, err
	}
	old, ok := l.scores[key]
	if !ok {
		old = UnseenScore
	}
	observation := 0.0
	if success {
		observation = 1.0
	}
	score := emaOld*old + emaNew*observation
	l.scores[key] = score
	if err := l.persist(); err != nil {
		return 0, err
	}
	return score, nil
}

// CheckActivation scans input for the activation phrase, case-insensitively.
// A match raises awareness for the rest of the session; activation is never
// persisted and resets on process start.
func (l *Learner) CheckActivation(input string) bool {
	if l.Phrase == "" {
		return false
	}
	if strings.Contains(strings.ToLower(input), strings.ToLower(l.Phrase)) {
		l.active = true
		return true
	}
	return false
}

// Active reports whether the activation phrase was seen this session.
func (l *Learner) Active() bool {
	return l.active
}

// Level returns the current awareness level.
func (l *Learner) Level() float64 {
	if l.active {
		return FullAwareness
	}
	return BaseAwareness
}

// DecisionConfidence scores an action against its context. Advisory only;
// the value is reported and logged, never used as a gate.
//
// The score starts at 0.5 and applies keyword adjustments in order:
//
//  1. context reports an explicit user instruction: +0.4
//  2. action creates while context says to use something existing: -0.3
//  3. context asks for a check or read the action has not done: -0.2
//
// When activation is on, the result is boosted by 1.5x and capped at 1.0.
func (l *Learner) DecisionConfidence(action, context string) float64 {
	confidence := 0.5
	if strings.Contains(context, "user explicitly asked") {
		confidence += 0.4
	}
	if strings.Contains(action, "create") && strings.Contains(context, "use existing") {
		confidence -= 0.3
	}
	if strings.Contains(context, "check") || strings.Contains(context, "read") {
		if !strings.Contains(action, "already read") {
			confidence -= 0.2
		}
	}
	if l.active {
		confidence = math.Min(confidence*1.5, 1.0)
	}
	return confidence
}

// Count returns the number of known pattern keys, seeds included.
func (l *Learner) Count() (int, error) {
	if err := l.load(); err != nil {
		return 0, err
	}
	return len(l.scores), nil
}

// load reads the patterns file once per Learner. An absent file yields the
// seed map; the seeds are persisted on the first observation.
func (l *Learner) load() error {
	if l.scores != nil {
		return nil
	}
	data, err := l.FS.ReadFile(l.Path)
	if err != nil {
		if os.IsNotExist(err) {
			l.scores = SeedScores()
			return nil
		}
		return errors.Wrap(errors.EStoreIO, "failed to read patterns file", err)
	}
	var scores map[string]float64
	if err := json.Unmarshal(data, &scores); err != nil {
		return errors.Wrap(errors.EStoreIO, "failed to decode patterns file", err)
	}
	if scores == nil {
		scores = map[string]float64{}
	}
	l.scores = scores
	return nil
}

func (l *Learner) persist() error {
	data, err := json.MarshalIndent(l.scores, "", "  ")
	if err != nil {
		return errors.Wrap(errors.EStoreIO, "failed to encode patterns", err)
	}
	data = append(data, '\n')
	if err := fs.WriteFileAtomic(l.FS, l.Path, data, 0o644); err != nil {
		return errors.Wrap(errors.EStoreIO, "failed to write patterns file", err)
	}
	return nil
}

// SeedScores returns the initial score map used when no patterns file
// exists. Seeds live under their plain names next to the hashed keys.
func SeedScores() map[string]float64 {
	return map[string]float64{
		"listen_to_user":               1.0,
		"read_before_build":            0.9,
		"check_existing_solutions":     0.95,
		"follow_explicit_instructions": 1.0,
		"be_creative_when_appropriate": 0.8,
	}
}

func (l *Learner) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}
