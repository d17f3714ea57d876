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

// PatternScoreOpts holds options for the pattern score command.
type PatternScoreOpts struct {
	Action  string
	Context string
}

// PatternScore implements `attest pattern score`: print the key and the
// learned success score for an action/context pair. Unseen pairs score 0.50.
func PatternScore(_ context.Context, fsys fs.FS, cfg config.Config, opts PatternScoreOpts, stdout, stderr io.Writer) error {
	if strings.TrimSpace(opts.Action) == "" {
		return errors.New(errors.EUsage, "action is required")
	}

	l := patterns.NewLearner(fsys, cfg.PatternsPath(), cfg.ActivationPhrase)
	key := patterns.KeyFor(opts.Action, opts.Context)
	score, err := l.Score(key)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "key: %s\n", key)
	_, _ = fmt.Fprintf(stdout, "score: %.2f\n", score)
	return nil
}

// PatternObserveOpts holds options for the pattern observe command.
type PatternObserveOpts struct {
	Action  string
	Context string

	// Exactly one of Success and Failure must be set.
	Success bool
	Failure bool
}

// PatternObserve implements `attest pattern observe`: fold one observed
// outcome into the pattern's score and persist it.
func PatternObserve(_ context.Context, fsys fs.FS, cfg config.Config, opts PatternObserveOpts, stdout, stderr io.Writer) error {
	if strings.TrimSpace(opts.Action) == "" {
		return errors.New(errors.EUsage, "action is required")
	}
	if opts.Success == opts.Failure {
		return errors.New(errors.EUsage, "exactly one of --success or --failure is required")
	}

	l := patterns.NewLearner(fsys, cfg.PatternsPath(), cfg.ActivationPhrase)
	key := patterns.KeyFor(opts.Action, opts.Context)
	score, err := l.Observe(key, opts.Success)
	if err != nil {
		return err
	}

	evs := events.NewLog(cfg.EventsPath())
	_ = evs.Append(events.KindPatternObserved, events.PatternObservedData(key, opts.Success, score))

	_, _ = fmt.Fprintf(stdout, "ok observe %s score=%.2f\n", key, score)
	return nil
}
