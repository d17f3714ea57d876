package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/attestkit/attest/internal/config"
	"github.com/attestkit/attest/internal/errors"
	"github.com/attestkit/attest/internal/events"
	"github.com/attestkit/attest/internal/fs"
	"github.com/attestkit/attest/internal/patterns"
)

// AdviseOpts holds options for the advise command.
type AdviseOpts struct {
	// Action is the decision being scored (required).
	Action string

	// Context is what the user asked for.
	Context string

	// Input is the raw user message, checked for the activation phrase.
	Input string
}

// Advise implements the `attest advise` command: score a proposed action
// against the learned patterns and the instruction-alignment rules.
//
// Violations make the command fail with E_PRINCIPLE_VIOLATION; low
// confidence only adds a suggestion. The activation state snapshot is
// written to state.json on every run.
func Advise(_ context.Context, fsys fs.FS, cfg config.Config, opts AdviseOpts, stdout, stderr io.Writer) error {
	if strings.TrimSpace(opts.Action) == "" {
		return errors.New(errors.EUsage, "action is required")
	}

	l := patterns.NewLearner(fsys, cfg.PatternsPath(), cfg.ActivationPhrase)
	evs := events.NewLog(cfg.EventsPath())

	if opts.Input != "" && l.CheckActivation(opts.Input) {
		_ = evs.Append(events.KindActivation, events.ActivationData(l.Level()))
	}

	adv, err := l.Advise(opts.Action, opts.Context)
	if err != nil {
		return err
	}

	_ = evs.Append(events.KindDecisionScored,
		events.DecisionScoredData(opts.Action, adv.Confidence, l.Active()))

	if err := l.WriteState(cfg.StatePath(), 1); err != nil {
		return err
	}

	writeAdviseOutput(stdout, l.Active(), adv)

	if len(adv.Violations) > 0 {
		return errors.New(errors.EPrincipleViolation, strings.Join(adv.Violations, "; "))
	}
	return nil
}

// writeAdviseOutput writes the stable key: value output for advise.
func writeAdviseOutput(w io.Writer, active bool, adv patterns.Advice) {
	_, _ = fmt.Fprintf(w, "active: %s\n", boolStr(active))
	_, _ = fmt.Fprintf(w, "confidence: %.2f\n", adv.Confidence)
	_, _ = fmt.Fprintf(w, "violations: %s\n", joinOrNone(adv.Violations, "; "))
	_, _ = fmt.Fprintf(w, "suggestions: %s\n", joinOrNone(adv.Suggestions, "; "))
}
