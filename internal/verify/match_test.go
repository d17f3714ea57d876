package verify

import (
	"testing"

	"github.com/attestkit/attest/internal/config"
)

func TestMatchProof(t *testing.T) {
	m := config.Match{
		ProcessPattern: "myproc",
		APIURL:         "http://localhost:1234/health",
		KeyFile:        "KEY.md",
	}

	tests := []struct {
		name    string
		text    string
		wantCmd string
		wantOK  bool
	}{
		{
			name:    "server running",
			text:    "the server running state looks good",
			wantCmd: "pgrep -af myproc",
			wantOK:  true,
		},
		{
			name:    "case insensitive",
			text:    "SERVER RUNNING confirmed",
			wantCmd: "pgrep -af myproc",
			wantOK:  true,
		},
		{
			name:    "api responding",
			text:    "api responding as expected",
			wantCmd: "curl -s http://localhost:1234/health",
			wantOK:  true,
		},
		{
			name:    "file exists",
			text:    "the key file exists on disk",
			wantCmd: "ls -la KEY.md",
			wantOK:  true,
		},
		{
			name:    "process count",
			text:    "process count is at least three",
			wantCmd: "ps aux | grep myproc | grep -v grep | wc -l",
			wantOK:  true,
		},
		{
			name:    "containers running",
			text:    "all containers running",
			wantCmd: "docker ps --format {{.Names}}",
			wantOK:  true,
		},
		{
			name:    "first rule wins",
			text:    "server running and containers running",
			wantCmd: "pgrep -af myproc",
			wantOK:  true,
		},
		{
			name:   "no match",
			text:   "everything is wonderful",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, ok := MatchProof(tt.text, m)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if cmd != tt.wantCmd {
				t.Errorf("command = %q, want %q", cmd, tt.wantCmd)
			}
		})
	}
}

func TestMatchTable_Order(t *testing.T) {
	rules := MatchTable(config.Match{})
	wantFragments := []string{
		"server running",
		"api responding",
		"file exists",
		"process count",
		"containers running",
	}
	if len(rules) != len(wantFragments) {
		t.Fatalf("got %d rules, want %d", len(rules), len(wantFragments))
	}
	for i, want := range wantFragments {
		if rules[i].Fragment != want {
			t.Errorf("rule %d fragment = %q, want %q", i, rules[i].Fragment, want)
		}
	}
}
