// Package config handles loading and validation of attest configuration.
//
// Effective configuration is resolved in three layers: built-in defaults,
// then attest.json from the data dir (strict, unknown fields rejected),
// then ATTEST_* environment variables.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/caarlos0/env/v11"

	"github.com/attestkit/attest/internal/errors"
	"github.com/attestkit/attest/internal/fs"
)

// DefaultDirName is the data directory created under the user's home.
const DefaultDirName = ".attest"

// File names inside the data dir.
const (
	ConfigFile   = "attest.json"
	ClaimsFile   = "claims.json"
	PatternsFile = "patterns.json"
	ReportFile   = "check-report.json"
	StateFile    = "state.json"
	EventsFile   = "events.jsonl"
	ManifestFile = "checks.yaml"
)

// DefaultActivationPhrase switches the pattern learner into active mode
// when it appears in advisory input.
const DefaultActivationPhrase = "ich bins wieder"

// Config is the resolved attest configuration.
type Config struct {
	Version int `json:"version"`

	// ActivationPhrase is matched case-insensitively against advisory input.
	ActivationPhrase string `json:"activation_phrase"`

	Match  Match  `json:"match"`
	Checks Checks `json:"checks"`

	// DataDir is resolved from ATTEST_DATA_DIR or the home default,
	// never from the file itself.
	DataDir string `json:"-"`
}

// Match holds the parameters substituted into the demand match table.
type Match struct {
	ProcessPattern string `json:"process_pattern"`
	APIURL         string `json:"api_url"`
	KeyFile        string `json:"key_file"`
}

// Checks holds the parameters for the builtin check gate.
type Checks struct {
	MemoryFile         string   `json:"memory_file"`
	InstructionsFile   string   `json:"instructions_file"`
	InstructionsMarker string   `json:"instructions_marker"`
	MinContainers      int      `json:"min_containers"`
	AgentPattern       string   `json:"agent_pattern"`
	RequiredTool       string   `json:"required_tool"`
	RoadmapFile        string   `json:"roadmap_file"`
	PatternGlob        string   `json:"pattern_glob"`
	MonitorScripts     []string `json:"monitor_scripts"`
}

// overrides are the environment variables recognized on top of attest.json.
type overrides struct {
	DataDir          string `env:"ATTEST_DATA_DIR"`
	ProcessPattern   string `env:"ATTEST_PROCESS_PATTERN"`
	APIURL           string `env:"ATTEST_API_URL"`
	KeyFile          string `env:"ATTEST_KEY_FILE"`
	ActivationPhrase string `env:"ATTEST_ACTIVATION_PHRASE"`
	RequiredTool     string `env:"ATTEST_REQUIRED_TOOL"`
}

// Default returns the built-in configuration rooted at dataDir.
func Default(dataDir string) Config {
	return Config{
		Version:          1,
		ActivationPhrase: DefaultActivationPhrase,
		Match: Match{
			ProcessPattern: "agent",
			APIURL:         "http://localhost:8890/api/stats",
			KeyFile:        "CLAUDE.md",
		},
		Checks: Checks{
			MemoryFile:         filepath.Join(dataDir, "memory.db"),
			InstructionsFile:   "CLAUDE.md",
			InstructionsMarker: "MANDATORY",
			MinContainers:      3,
			AgentPattern:       "mcp",
			RequiredTool:       "git",
			RoadmapFile:        "ROADMAP.md",
			PatternGlob:        filepath.Join(dataDir, "*.json"),
			MonitorScripts:     []string{},
		},
		DataDir: dataDir,
	}
}

// Path helpers for the files attest owns.

func (c Config) ConfigPath() string   { return filepath.Join(c.DataDir, ConfigFile) }
func (c Config) ClaimsPath() string   { return filepath.Join(c.DataDir, ClaimsFile) }
func (c Config) PatternsPath() string { return filepath.Join(c.DataDir, PatternsFile) }
func (c Config) ReportPath() string   { return filepath.Join(c.DataDir, ReportFile) }
func (c Config) StatePath() string    { return filepath.Join(c.DataDir, StateFile) }
func (c Config) EventsPath() string   { return filepath.Join(c.DataDir, EventsFile) }
func (c Config) ManifestPath() string { return filepath.Join(c.DataDir, ManifestFile) }

// Load resolves the full configuration: data dir from the environment or
// the home default, attest.json if present, then environment overrides.
func Load(fsys fs.FS) (Config, error) {
	var ov overrides
	if err := env.Parse(&ov); err != nil {
		return Config{}, errors.Wrap(errors.EConfig, "failed to parse environment", err)
	}

	dataDir, err := resolveDataDir(ov)
	if err != nil {
		return Config{}, err
	}

	cfg, _, err := LoadAt(fsys, dataDir)
	if err != nil {
		return Config{}, err
	}
	applyOverrides(&cfg, ov)
	return cfg, nil
}

// Resolve returns the effective configuration without reading attest.json:
// defaults rooted at the resolved data dir plus environment overrides.
// Init uses this since it writes the config file rather than reading it,
// and a corrupt attest.json must not block a forced reset.
func Resolve() (Config, error) {
	var ov overrides
	if err := env.Parse(&ov); err != nil {
		return Config{}, errors.Wrap(errors.EConfig, "failed to parse environment", err)
	}

	dataDir, err := resolveDataDir(ov)
	if err != nil {
		return Config{}, err
	}

	cfg := Default(dataDir)
	applyOverrides(&cfg, ov)
	return cfg, nil
}

func resolveDataDir(ov overrides) (string, error) {
	if ov.DataDir != "" {
		return ov.DataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.EConfig, "cannot resolve home directory", err)
	}
	return filepath.Join(home, DefaultDirName), nil
}

// LoadAt reads attest.json from the given data dir.
// If the file is missing, returns defaults with found=false.
// If the file exists but is invalid, returns E_CONFIG.
func LoadAt(fsys fs.FS, dataDir string) (Config, bool, error) {
	cfg := Default(dataDir)

	data, err := fsys.ReadFile(filepath.Join(dataDir, ConfigFile))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, false, nil
		}
		return Config{}, false, errors.Wrap(errors.EConfig, "failed to read attest.json", err)
	}

	// First, unmarshal into raw map for type checking
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Config{}, false, errors.New(errors.EConfig, "invalid json: "+err.Error())
	}

	parsed, err := parseConfigStrict(raw, cfg)
	if err != nil {
		return Config{}, false, err
	}
	if err := Validate(parsed); err != nil {
		return Config{}, false, err
	}
	return parsed, true, nil
}

func applyOverrides(cfg *Config, ov overrides) {
	if ov.ProcessPattern != "" {
		cfg.Match.ProcessPattern = ov.ProcessPattern
	}
	if ov.APIURL != "" {
		cfg.Match.APIURL = ov.APIURL
	}
	if ov.KeyFile != "" {
		cfg.Match.KeyFile = ov.KeyFile
	}
	if ov.ActivationPhrase != "" {
		cfg.ActivationPhrase = ov.ActivationPhrase
	}
	if ov.RequiredTool != "" {
		cfg.Checks.RequiredTool = ov.RequiredTool
	}
}

// parseConfigStrict parses the raw JSON map with strict key and type
// checking, on top of the provided base (defaults). This catches typos and
// type mismatches that json.Unmarshal would silently accept or default.
func parseConfigStrict(raw map[string]json.RawMessage, base Config) (Config, error) {
	cfg := base
	allowedKeys := map[string]bool{
		"version":           true,
		"activation_phrase": true,
		"match":             true,
		"checks":            true,
	}
	for key := range raw {
		if !allowedKeys[key] {
			return Config{}, errors.New(errors.EConfig, "unknown field: "+key)
		}
	}

	if rawVersion, ok := raw["version"]; ok {
		version, err := parseIntField(rawVersion, "version")
		if err != nil {
			return Config{}, err
		}
		cfg.Version = version
	}

	if rawPhrase, ok := raw["activation_phrase"]; ok {
		phrase, err := parseStringField(rawPhrase, "activation_phrase")
		if err != nil {
			return Config{}, err
		}
		cfg.ActivationPhrase = phrase
	}

	if rawMatch, ok := raw["match"]; ok {
		match, err := parseMatch(rawMatch, cfg.Match)
		if err != nil {
			return Config{}, err
		}
		cfg.Match = match
	}

	if rawChecks, ok := raw["checks"]; ok {
		checks, err := parseChecks(rawChecks, cfg.Checks)
		if err != nil {
			return Config{}, err
		}
		cfg.Checks = checks
	}

	return cfg, nil
}

func parseMatch(raw json.RawMessage, base Match) (Match, error) {
	m := base

	var matchMap map[string]json.RawMessage
	if err := json.Unmarshal(raw, &matchMap); err != nil {
		return m, errors.New(errors.EConfig, "match must be an object")
	}

	allowedKeys := map[string]bool{
		"process_pattern": true,
		"api_url":         true,
		"key_file":        true,
	}
	for key := range matchMap {
		if !allowedKeys[key] {
			return m, errors.New(errors.EConfig, "match contains unknown field: "+key)
		}
	}

	for key, dst := range map[string]*string{
		"process_pattern": &m.ProcessPattern,
		"api_url":         &m.APIURL,
		"key_file":        &m.KeyFile,
	} {
		if rawVal, ok := matchMap[key]; ok {
			val, err := parseStringField(rawVal, "match."+key)
			if err != nil {
				return m, err
			}
			*dst = val
		}
	}

	return m, nil
}

func parseChecks(raw json.RawMessage, base Checks) (Checks, error) {
	c := base

	var checksMap map[string]json.RawMessage
	if err := json.Unmarshal(raw, &checksMap); err != nil {
		return c, errors.New(errors.EConfig, "checks must be an object")
	}

	allowedKeys := map[string]bool{
		"memory_file":         true,
		"instructions_file":   true,
		"instructions_marker": true,
		"min_containers":      true,
		"agent_pattern":       true,
		"required_tool":       true,
		"roadmap_file":        true,
		"pattern_glob":        true,
		"monitor_scripts":     true,
	}
	for key := range checksMap {
		if !allowedKeys[key] {
			return c, errors.New(errors.EConfig, "checks contains unknown field: "+key)
		}
	}

	for key, dst := range map[string]*string{
		"memory_file":         &c.MemoryFile,
		"instructions_file":   &c.InstructionsFile,
		"instructions_marker": &c.InstructionsMarker,
		"agent_pattern":       &c.AgentPattern,
		"required_tool":       &c.RequiredTool,
		"roadmap_file":        &c.RoadmapFile,
		"pattern_glob":        &c.PatternGlob,
	} {
		if rawVal, ok := checksMap[key]; ok {
			val, err := parseStringField(rawVal, "checks."+key)
			if err != nil {
				return c, err
			}
			*dst = val
		}
	}

	if rawMin, ok := checksMap["min_containers"]; ok {
		n, err := parseIntField(rawMin, "checks.min_containers")
		if err != nil {
			return c, err
		}
		c.MinContainers = n
	}

	if rawScripts, ok := checksMap["monitor_scripts"]; ok {
		var scripts []string
		if err := json.Unmarshal(rawScripts, &scripts); err != nil {
			return c, errors.New(errors.EConfig, "checks.monitor_scripts must be an array of strings")
		}
		c.MonitorScripts = scripts
	}

	return c, nil
}

func parseStringField(raw json.RawMessage, fieldName string) (string, error) {
	var val string
	if err := json.Unmarshal(raw, &val); err != nil {
		return "", errors.New(errors.EConfig, fieldName+" must be a string")
	}
	return val, nil
}

func parseIntField(raw json.RawMessage, fieldName string) (int, error) {
	var val int
	if err := json.Unmarshal(raw, &val); err != nil {
		// Check if it's a different type
		var floatVal float64
		if json.Unmarshal(raw, &floatVal) == nil {
			if floatVal != float64(int(floatVal)) {
				return 0, errors.New(errors.EConfig, fieldName+" must be an integer")
			}
			return int(floatVal), nil
		}
		return 0, errors.New(errors.EConfig, fieldName+" must be an integer")
	}
	return val, nil
}

// Validate checks semantic constraints and returns E_CONFIG on failure.
func Validate(cfg Config) error {
	if cfg.Version != 1 {
		return errors.New(errors.EConfig, "version must be 1")
	}
	if cfg.Checks.MinContainers < 0 {
		return errors.New(errors.EConfig, "checks.min_containers must not be negative")
	}
	for i, script := range cfg.Checks.MonitorScripts {
		if script == "" {
			return errors.NewWithDetails(errors.EConfig, "checks.monitor_scripts entries must be non-empty", map[string]string{
				"index": strconv.Itoa(i),
			})
		}
	}
	return nil
}
