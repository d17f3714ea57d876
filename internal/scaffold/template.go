// Package scaffold provides helpers for seeding the attest data dir and the
// instructions file.
package scaffold

import (
	"github.com/attestkit/attest/internal/checks"
	"github.com/attestkit/attest/internal/config"
)

// InstructionsTemplate seeds the instructions file the gate checks for. The
// MANDATORY marker is what the builtin instructions check looks for.
const InstructionsTemplate = `# Working Agreements

MANDATORY rules for this workspace:

1. Claims about system state require a proof command. Log them with
   ` + "`attest claim`" + ` and verify before reporting done.
2. Run ` + "`attest check`" + ` before starting work; a non-zero exit means stop.
3. Prefer existing solutions: read and check referenced resources before
   creating new ones.
`

// DefaultManifest returns the checks.yaml entries mirroring the builtin
// defaults for cfg. Entries that cannot be expressed for the current config
// are omitted: containers needs a positive threshold, monitoring_scripts
// needs a script list, and pattern_data is approximated by the seeded
// patterns file since glob probing is not a manifest kind.
func DefaultManifest(cfg config.Config) []checks.Entry {
	entries := []checks.Entry{
		{Name: "memory_store", Kind: checks.KindFileExists, Path: cfg.Checks.MemoryFile},
		{Name: "instructions", Kind: checks.KindFileContains, Path: cfg.Checks.InstructionsFile, Marker: cfg.Checks.InstructionsMarker},
	}
	if cfg.Checks.MinContainers >= 1 {
		entries = append(entries, checks.Entry{
			Name: "containers", Kind: checks.KindOutputLines,
			Command: checks.ContainersCommand, MinLines: cfg.Checks.MinContainers,
		})
	}
	entries = append(entries,
		checks.Entry{Name: "agent_processes", Kind: checks.KindCommand, Command: "pgrep -f " + cfg.Checks.AgentPattern},
		checks.Entry{Name: "required_tool", Kind: checks.KindCommand, Command: "which " + cfg.Checks.RequiredTool},
		checks.Entry{Name: "roadmap", Kind: checks.KindFileExists, Path: cfg.Checks.RoadmapFile},
		checks.Entry{Name: "pattern_data", Kind: checks.KindFileExists, Path: cfg.PatternsPath()},
	)
	if len(cfg.Checks.MonitorScripts) > 0 {
		entries = append(entries, checks.Entry{
			Name: "monitoring_scripts", Kind: checks.KindFileExists, Paths: cfg.Checks.MonitorScripts,
		})
	}
	return entries
}
