package checks

import (
	"context"
	"path/filepath"

	"github.com/attestkit/attest/internal/config"
	"github.com/attestkit/attest/internal/exec"
	"github.com/attestkit/attest/internal/fs"
)

// ContainersCommand lists running container names, one per line.
const ContainersCommand = "docker ps --format {{.Names}}"

// Defaults returns the builtin check list used when no checks.yaml manifest
// is present, built from the configured paths and thresholds.
func Defaults(fsys fs.FS, runner exec.CommandRunner, cfg config.Checks) []Check {
	return []Check{
		FileExists(fsys, "memory_store", "memory store not initialized", cfg.MemoryFile),
		FileContains(fsys, "instructions", cfg.InstructionsFile, cfg.InstructionsMarker),
		OutputLines(runner, "containers", ContainersCommand, cfg.MinContainers,
			"docker not active", "insufficient containers running"),
		Command(runner, "agent_processes", "pgrep -f "+cfg.AgentPattern, "no agent processes running"),
		Command(runner, "required_tool", "which "+cfg.RequiredTool, cfg.RequiredTool+" missing"),
		FileExists(fsys, "roadmap", "roadmap missing", cfg.RoadmapFile),
		patternData(cfg.PatternGlob),
		FileExists(fsys, "monitoring_scripts", "monitoring scripts missing", cfg.MonitorScripts...),
	}
}

// patternData passes when the glob matches at least one pattern file. Not a
// manifest kind; glob probing exists only for this builtin.
func patternData(glob string) Check {
	return Check{Name: "pattern_data", Run: func(ctx context.Context) (bool, string, error) {
		matches, err := filepath.Glob(glob)
		if err != nil {
			return false, "", err
		}
		if len(matches) == 0 {
			return false, "pattern data missing", nil
		}
		return true, "", nil
	}}
}
