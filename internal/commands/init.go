// Package commands implements attest CLI commands.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/attestkit/attest/internal/config"
	"github.com/attestkit/attest/internal/errors"
	"github.com/attestkit/attest/internal/fs"
	"github.com/attestkit/attest/internal/scaffold"
)

// InitOpts holds options for the init command.
type InitOpts struct {
	// Force resets the data dir before scaffolding.
	Force bool
}

// InitResult holds the result of the init command for output formatting.
type InitResult struct {
	DataDir      string
	Reset        bool
	Config       string // "created" or "exists"
	Manifest     string
	Patterns     string
	Instructions string
}

// Init implements the `attest init` command.
// Creates the data dir and seeds attest.json, checks.yaml, the pattern
// scores and the instructions file. Existing files are never overwritten;
// --force removes the whole data dir first.
func Init(_ context.Context, fsys fs.FS, cfg config.Config, opts InitOpts, stdout, stderr io.Writer) error {
	_, err := fsys.Stat(cfg.ConfigPath())
	configExists := err == nil
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.EDataDirUnwritable, "failed to check attest.json", err)
	}
	if configExists && !opts.Force {
		return errors.New(errors.EConfigExists, "attest.json already exists; use --force to reset")
	}

	reset := false
	if opts.Force {
		if _, err := fsys.Stat(cfg.DataDir); err == nil {
			if err := fs.SafeRemoveAll(cfg.DataDir, filepath.Dir(cfg.DataDir)); err != nil {
				return errors.Wrap(errors.EDataDirUnwritable, "failed to reset data dir", err)
			}
			reset = true
		}
	}

	if err := fsys.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return errors.Wrap(errors.EDataDirUnwritable, "failed to create data dir", err)
	}

	configCreated, err := scaffold.WriteConfig(fsys, cfg)
	if err != nil {
		return errors.Wrap(errors.EDataDirUnwritable, "failed to write attest.json", err)
	}
	manifestCreated, err := scaffold.WriteManifest(fsys, cfg)
	if err != nil {
		return errors.Wrap(errors.EDataDirUnwritable, "failed to write checks.yaml", err)
	}
	patternsCreated, err := scaffold.WritePatternSeeds(fsys, cfg)
	if err != nil {
		return errors.Wrap(errors.EDataDirUnwritable, "failed to write patterns file", err)
	}
	instructionsCreated, err := scaffold.WriteInstructions(fsys, cfg)
	if err != nil {
		return errors.Wrap(errors.EDataDirUnwritable, "failed to write instructions file", err)
	}

	writeInitOutput(stdout, InitResult{
		DataDir:      cfg.DataDir,
		Reset:        reset,
		Config:       stateStr(configCreated),
		Manifest:     stateStr(manifestCreated),
		Patterns:     stateStr(patternsCreated),
		Instructions: stateStr(instructionsCreated),
	})
	return nil
}

// writeInitOutput writes the stable key: value output for init.
// All writes use explicit error ignoring since this is informational output
// where write failures cannot be meaningfully handled.
func writeInitOutput(w io.Writer, r InitResult) {
	_, _ = fmt.Fprintf(w, "data_dir: %s\n", r.DataDir)
	if r.Reset {
		_, _ = fmt.Fprintln(w, "reset: true")
	}
	_, _ = fmt.Fprintf(w, "attest_json: %s\n", r.Config)
	_, _ = fmt.Fprintf(w, "checks_yaml: %s\n", r.Manifest)
	_, _ = fmt.Fprintf(w, "patterns: %s\n", r.Patterns)
	_, _ = fmt.Fprintf(w, "instructions: %s\n", r.Instructions)
}

func stateStr(created bool) string {
	if created {
		return "created"
	}
	return "exists"
}
