// Package report builds and persists run artifacts: the check-report file
// written after every gate run and the claims summary behind attest report.
package report

import (
	"encoding/json"
	"os"
	"time"

	"github.com/attestkit/attest/internal/checks"
	"github.com/attestkit/attest/internal/errors"
	"github.com/attestkit/attest/internal/fs"
)

// CheckReport is the wire shape of one gate run. One report per run,
// overwritten at a fixed path, not versioned.
type CheckReport struct {
	Timestamp    string   `json:"timestamp"`
	ChecksPassed []string `json:"checks_passed"`
	ChecksFailed []string `json:"checks_failed"`
	Violations   []string `json:"violations"`
	Success      bool     `json:"success"`
}

// FromSummary converts a registry run into the wire report.
func FromSummary(sum checks.Summary, now time.Time) CheckReport {
	return CheckReport{
		Timestamp:    now.Format(time.RFC3339),
		ChecksPassed: orEmpty(sum.Passed),
		ChecksFailed: orEmpty(sum.Failed),
		Violations:   orEmpty(sum.Violations),
		Success:      sum.Success,
	}
}

// WriteCheckReport persists the run report at path atomically. Lists
// marshal as [], never null.
func WriteCheckReport(fsys fs.FS, path string, sum checks.Summary, now time.Time) error {
	data, err := json.MarshalIndent(FromSummary(sum, now), "", "  ")
	if err != nil {
		return errors.Wrap(errors.EStoreIO, "failed to encode check report", err)
	}
	data = append(data, '\n')
	if err := fs.WriteFileAtomic(fsys, path, data, 0o644); err != nil {
		return errors.Wrap(errors.EStoreIO, "failed to write check report", err)
	}
	return nil
}

// ReadCheckReport loads the latest run report. Returns found=false when no
// report has been written yet.
func ReadCheckReport(fsys fs.FS, path string) (CheckReport, bool, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return CheckReport{}, false, nil
		}
		return CheckReport{}, false, errors.Wrap(errors.EStoreIO, "failed to read check report", err)
	}
	var rep CheckReport
	if err := json.Unmarshal(data, &rep); err != nil {
		return CheckReport{}, false, errors.Wrap(errors.EStoreIO, "failed to decode check report", err)
	}
	return rep, true, nil
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
