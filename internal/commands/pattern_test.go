package commands

import (
	"bytes"
	"context"
	"math"
	"testing"

	"github.com/attestkit/attest/internal/errors"
	"github.com/attestkit/attest/internal/events"
	"github.com/attestkit/attest/internal/fs"
	"github.com/attestkit/attest/internal/patterns"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPatternScore_UnseenKey(t *testing.T) {
	cfg := testCfg(t)
	mustInitDataDir(t, cfg)

	var stdout, stderr bytes.Buffer
	err := PatternScore(context.Background(), fs.NewRealFS(), cfg, PatternScoreOpts{
		Action:  "delete prod database",
		Context: "cleanup task",
	}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("PatternScore: %v", err)
	}

	key := patterns.KeyFor("delete prod database", "cleanup task")
	want := "key: " + key + "\nscore: 0.50\n"
	if got := stdout.String(); got != want {
		t.Errorf("unexpected output:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestPatternScore_RequiresAction(t *testing.T) {
	cfg := testCfg(t)
	mustInitDataDir(t, cfg)

	var stdout, stderr bytes.Buffer
	err := PatternScore(context.Background(), fs.NewRealFS(), cfg, PatternScoreOpts{}, &stdout, &stderr)
	if errors.GetCode(err) != errors.EUsage {
		t.Fatalf("expected E_USAGE, got %v", err)
	}
}

func TestPatternObserve_Success(t *testing.T) {
	cfg := testCfg(t)
	mustInitDataDir(t, cfg)
	fsys := fs.NewRealFS()

	var stdout, stderr bytes.Buffer
	err := PatternObserve(context.Background(), fsys, cfg, PatternObserveOpts{
		Action:  "restart worker",
		Context: "deploy",
		Success: true,
	}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("PatternObserve: %v", err)
	}

	key := patterns.KeyFor("restart worker", "deploy")
	if got := stdout.String(); got != "ok observe "+key+" score=0.65\n" {
		t.Errorf("unexpected output %q", got)
	}

	l := patterns.NewLearner(fsys, cfg.PatternsPath(), cfg.ActivationPhrase)
	score, err := l.Score(key)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(score, 0.65) {
		t.Errorf("persisted score = %v, want 0.65", score)
	}

	evs := readEvents(t, cfg.EventsPath())
	if len(evs) != 1 || evs[0].Kind != events.KindPatternObserved {
		t.Errorf("events = %+v, want one pattern_observed", evs)
	}
}

func TestPatternObserve_FailureLowersScore(t *testing.T) {
	cfg := testCfg(t)
	mustInitDataDir(t, cfg)
	fsys := fs.NewRealFS()

	var stdout, stderr bytes.Buffer
	err := PatternObserve(context.Background(), fsys, cfg, PatternObserveOpts{
		Action:  "skip review",
		Context: "hotfix",
		Failure: true,
	}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("PatternObserve: %v", err)
	}

	key := patterns.KeyFor("skip review", "hotfix")
	l := patterns.NewLearner(fsys, cfg.PatternsPath(), cfg.ActivationPhrase)
	score, err := l.Score(key)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(score, 0.35) {
		t.Errorf("persisted score = %v, want 0.35", score)
	}
}

func TestPatternObserve_FlagExclusivity(t *testing.T) {
	cfg := testCfg(t)
	mustInitDataDir(t, cfg)

	for name, opts := range map[string]PatternObserveOpts{
		"neither": {Action: "a"},
		"both":    {Action: "a", Success: true, Failure: true},
	} {
		t.Run(name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := PatternObserve(context.Background(), fs.NewRealFS(), cfg, opts, &stdout, &stderr)
			if errors.GetCode(err) != errors.EUsage {
				t.Fatalf("expected E_USAGE, got %v", err)
			}
		})
	}
}

func TestPatternObserve_RequiresAction(t *testing.T) {
	cfg := testCfg(t)
	mustInitDataDir(t, cfg)

	var stdout, stderr bytes.Buffer
	err := PatternObserve(context.Background(), fs.NewRealFS(), cfg, PatternObserveOpts{Success: true}, &stdout, &stderr)
	if errors.GetCode(err) != errors.EUsage {
		t.Fatalf("expected E_USAGE, got %v", err)
	}
}
