package patterns

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/attestkit/attest/internal/errors"
	"github.com/attestkit/attest/internal/fs"
)

func testClock() time.Time {
	return time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
}

func testLearner(t *testing.T) *Learner {
	t.Helper()
	path := filepath.Join(t.TempDir(), "patterns.json")
	l := NewLearner(fs.NewRealFS(), path, "ich bins wieder")
	l.Now = testClock
	return l
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestKeyFor(t *testing.T) {
	tests := []struct {
		name    string
		action  string
		context string
		want    string
	}{
		{"empty context", "server running", "", "ca3ce514"},
		{"action and context", "create new file", "use existing tools", "2b849e69"},
		{"exactly at the cap", "aaaaaaaaaaaaaaaaaaaa", "ctx", "57907316"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeyFor(tt.action, tt.context); got != tt.want {
				t.Errorf("KeyFor(%q, %q) = %q, want %q", tt.action, tt.context, got, tt.want)
			}
		})
	}

	t.Run("only the first 20 bytes count", func(t *testing.T) {
		a := KeyFor("aaaaaaaaaaaaaaaaaaaaXXXX", "ctx")
		b := KeyFor("aaaaaaaaaaaaaaaaaaaaYYYY", "ctx")
		if a != b {
			t.Errorf("keys differ: %q vs %q", a, b)
		}
		if a != "57907316" {
			t.Errorf("key = %q, want %q", a, "57907316")
		}
	})
}

func TestScore_UnseenKeyDefaults(t *testing.T) {
	l := testLearner(t)

	score, err := l.Score("deadbeef")
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score != UnseenScore {
		t.Errorf("score = %v, want %v", score, UnseenScore)
	}
}

func TestScore_SeedsWhenFileAbsent(t *testing.T) {
	l := testLearner(t)

	tests := []struct {
		key  string
		want float64
	}{
		{"listen_to_user", 1.0},
		{"read_before_build", 0.9},
		{"check_existing_solutions", 0.95},
		{"follow_explicit_instructions", 1.0},
		{"be_creative_when_appropriate", 0.8},
	}
	for _, tt := range tests {
		score, err := l.Score(tt.key)
		if err != nil {
			t.Fatalf("Score(%q) failed: %v", tt.key, err)
		}
		if score != tt.want {
			t.Errorf("Score(%q) = %v, want %v", tt.key, score, tt.want)
		}
	}

	count, err := l.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 5 {
		t.Errorf("Count = %d, want 5", count)
	}
}

func TestObserve_FirstObservations(t *testing.T) {
	t.Run("success from unseen", func(t *testing.T) {
		l := testLearner(t)
		score, err := l.Observe("k1", true)
		if err != nil {
			t.Fatalf("Observe failed: %v", err)
		}
		if !almostEqual(score, 0.65) {
			t.Errorf("score = %v, want 0.65", score)
		}
	})

	t.Run("failure from unseen", func(t *testing.T) {
		l := testLearner(t)
		score, err := l.Observe("k1", false)
		if err != nil {
			t.Fatalf("Observe failed: %v", err)
		}
		if !almostEqual(score, 0.35) {
			t.Errorf("score = %v, want 0.35", score)
		}
	})
}

func TestObserve_EMABounds(t *testing.T) {
	t.Run("successes approach but never reach 1.0", func(t *testing.T) {
		l := testLearner(t)
		prev := UnseenScore
		for i := 0; i < 50; i++ {
			score, err := l.Observe("up", true)
			if err != nil {
				t.Fatalf("Observe failed: %v", err)
			}
			if score <= prev {
				t.Fatalf("step %d: score %v did not increase from %v", i, score, prev)
			}
			if score >= 1.0 {
				t.Fatalf("step %d: score %v reached 1.0", i, score)
			}
			prev = score
		}
	})

	t.Run("failures approach but never reach 0.0", func(t *testing.T) {
		l := testLearner(t)
		prev := UnseenScore
		for i := 0; i < 50; i++ {
			score, err := l.Observe("down", false)
			if err != nil {
				t.Fatalf("Observe failed: %v", err)
			}
			if score >= prev {
				t.Fatalf("step %d: score %v did not decrease from %v", i, score, prev)
			}
			if score <= 0.0 {
				t.Fatalf("step %d: score %v reached 0.0", i, score)
			}
			prev = score
		}
	})
}

func TestObserve_PersistsImmediately(t *testing.T) {
	l := testLearner(t)
	if _, err := l.Observe("k1", true); err != nil {
		t.Fatalf("Observe failed: %v", err)
	}

	data, err := os.ReadFile(l.Path)
	if err != nil {
		t.Fatalf("read patterns file: %v", err)
	}
	var onDisk map[string]float64
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("decode patterns file: %v", err)
	}
	if !almostEqual(onDisk["k1"], 0.65) {
		t.Errorf("on-disk k1 = %v, want 0.65", onDisk["k1"])
	}
	if onDisk["listen_to_user"] != 1.0 {
		t.Errorf("seeds were not persisted alongside the observation: %v", onDisk)
	}

	// A fresh learner over the same file sees the observation.
	fresh := NewLearner(fs.NewRealFS(), l.Path, "ich bins wieder")
	score, err := fresh.Score("k1")
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if !almostEqual(score, 0.65) {
		t.Errorf("reloaded score = %v, want 0.65", score)
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	l := testLearner(t)
	if err := os.WriteFile(l.Path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	_, err := l.Score("k1")
	if err == nil {
		t.Fatal("Score succeeded, want error")
	}
	if code := errors.GetCode(err); code != errors.EStoreIO {
		t.Errorf("code = %s, want %s", code, errors.EStoreIO)
	}
}

func TestCheckActivation(t *testing.T) {
	t.Run("phrase found case-insensitively", func(t *testing.T) {
		l := testLearner(t)
		if !l.CheckActivation("hallo, Ich Bins Wieder!") {
			t.Error("CheckActivation = false, want true")
		}
		if !l.Active() {
			t.Error("Active = false, want true")
		}
		if l.Level() != FullAwareness {
			t.Errorf("Level = %v, want %v", l.Level(), FullAwareness)
		}
	})

	t.Run("no phrase keeps base awareness", func(t *testing.T) {
		l := testLearner(t)
		if l.CheckActivation("just a normal message") {
			t.Error("CheckActivation = true, want false")
		}
		if l.Active() {
			t.Error("Active = true, want false")
		}
		if l.Level() != BaseAwareness {
			t.Errorf("Level = %v, want %v", l.Level(), BaseAwareness)
		}
	})

	t.Run("activation sticks for the session", func(t *testing.T) {
		l := testLearner(t)
		l.CheckActivation("ich bins wieder")
		if l.CheckActivation("unrelated message") {
			t.Error("second CheckActivation = true, want false")
		}
		if !l.Active() {
			t.Error("Active = false after activation, want true")
		}
	})

	t.Run("empty phrase never activates", func(t *testing.T) {
		l := testLearner(t)
		l.Phrase = ""
		if l.CheckActivation("anything at all") {
			t.Error("CheckActivation = true, want false")
		}
	})
}

func TestDecisionConfidence(t *testing.T) {
	tests := []struct {
		name    string
		action  string
		context string
		active  bool
		want    float64
	}{
		{"base", "deploy service", "", false, 0.5},
		{"explicit instruction", "deploy service", "user explicitly asked for a deploy", false, 0.9},
		{"create despite existing", "create new parser", "use existing parser", false, 0.2},
		{"unread reference", "build the exporter", "read the design notes", false, 0.3},
		{"reference already read", "already read the notes; build exporter", "read the design notes", false, 0.5},
		{"stacked penalties", "create new parser", "check and use existing parser", false, 0.0},
		{"activation boost", "deploy service", "user explicitly asked for a deploy", true, 1.0},
		{"activation boost below cap", "deploy service", "", true, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := testLearner(t)
			if tt.active {
				l.CheckActivation(l.Phrase)
			}
			got := l.DecisionConfidence(tt.action, tt.context)
			if !almostEqual(got, tt.want) {
				t.Errorf("DecisionConfidence(%q, %q) = %v, want %v", tt.action, tt.context, got, tt.want)
			}
		})
	}
}
