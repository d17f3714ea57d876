package scaffold

import (
	"encoding/json"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/attestkit/attest/internal/config"
	"github.com/attestkit/attest/internal/fs"
	"github.com/attestkit/attest/internal/patterns"
)

// WriteConfig writes attest.json for cfg if it does not exist.
func WriteConfig(fsys fs.FS, cfg config.Config) (created bool, err error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return false, err
	}
	return writeIfAbsent(fsys, cfg.ConfigPath(), append(data, '\n'))
}

// WriteManifest writes the default checks.yaml for cfg if it does not exist.
func WriteManifest(fsys fs.FS, cfg config.Config) (created bool, err error) {
	data, err := yaml.Marshal(DefaultManifest(cfg))
	if err != nil {
		return false, err
	}
	return writeIfAbsent(fsys, cfg.ManifestPath(), data)
}

// WriteInstructions writes the instructions file if it does not exist. The
// path comes from cfg and may be relative to the working directory.
func WriteInstructions(fsys fs.FS, cfg config.Config) (created bool, err error) {
	return writeIfAbsent(fsys, cfg.Checks.InstructionsFile, []byte(InstructionsTemplate))
}

// WritePatternSeeds writes the seed pattern scores if the patterns file does
// not exist.
func WritePatternSeeds(fsys fs.FS, cfg config.Config) (created bool, err error) {
	data, err := json.MarshalIndent(patterns.SeedScores(), "", "  ")
	if err != nil {
		return false, err
	}
	return writeIfAbsent(fsys, cfg.PatternsPath(), append(data, '\n'))
}

// writeIfAbsent writes data to path unless the file already exists.
// Returns (true, nil) if the file was created.
// Returns (false, nil) if the file already exists and was left untouched.
// Returns (false, error) on any other stat or write failure.
func writeIfAbsent(fsys fs.FS, path string, data []byte) (bool, error) {
	_, err := fsys.Stat(path)
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, err
	}
	if err := fsys.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
