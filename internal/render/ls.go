// Package render provides output formatting for attest commands.
package render

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/attestkit/attest/internal/store"
)

// Display length caps for the claims table.
const (
	ClaimMaxLen = 50
	ProofMaxLen = 40
)

// ClaimRow holds the formatted fields for a single claims-table row.
type ClaimRow struct {
	ID      string
	Status  string
	Created string
	Claim   string
	Proof   string
}

// WriteClaimsTable writes the ls output in human-readable format. Fields are
// separated by whitespace columns for easy scanning.
func WriteClaimsTable(w io.Writer, claims []store.Claim, now time.Time) error {
	if len(claims) == 0 {
		_, err := fmt.Fprintln(w, "no claims logged")
		return err
	}

	rows := make([]ClaimRow, len(claims))
	for i, c := range claims {
		rows[i] = FormatClaimRow(c, now)
	}
	widths := columnWidths(rows)

	header := formatRow(
		"ID", widths.id,
		"STATUS", widths.status,
		"CREATED", widths.created,
		"CLAIM", widths.claim,
		"PROOF",
	)
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	for _, row := range rows {
		line := formatRow(
			row.ID, widths.id,
			row.Status, widths.status,
			row.Created, widths.created,
			row.Claim, widths.claim,
			row.Proof,
		)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// FormatClaimRow converts a claim to its display row.
func FormatClaimRow(c store.Claim, now time.Time) ClaimRow {
	return ClaimRow{
		ID:      strconv.Itoa(c.ID),
		Status:  c.Status(),
		Created: formatRelativeTime(time.Unix(c.CreatedAt, 0), now),
		Claim:   TruncateForDisplay(c.Text, ClaimMaxLen),
		Proof:   TruncateForDisplay(c.ProofCommand, ProofMaxLen),
	}
}

// colWidths holds the calculated column widths.
type colWidths struct {
	id      int
	status  int
	created int
	claim   int
}

// columnWidths calculates the maximum width for each column.
func columnWidths(rows []ClaimRow) colWidths {
	widths := colWidths{
		id:      len("ID"),
		status:  len("STATUS"),
		created: len("CREATED"),
		claim:   len("CLAIM"),
	}
	for _, row := range rows {
		if len(row.ID) > widths.id {
			widths.id = len(row.ID)
		}
		if len(row.Status) > widths.status {
			widths.status = len(row.Status)
		}
		if len(row.Created) > widths.created {
			widths.created = len(row.Created)
		}
		if len(row.Claim) > widths.claim {
			widths.claim = len(row.Claim)
		}
	}
	return widths
}

// formatRow formats a row with the given column values and widths. The last
// column is unpadded.
func formatRow(id string, idW int, status string, statusW int, created string, createdW int, claim string, claimW int, proof string) string {
	return fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %s",
		idW, id,
		statusW, status,
		createdW, created,
		claimW, claim,
		proof,
	)
}

// TruncateForDisplay safely truncates a string for display, adding an
// ellipsis when it was cut. Counts runes for proper Unicode handling.
func TruncateForDisplay(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}

// formatRelativeTime formats a time as a human-friendly relative string.
func formatRelativeTime(t time.Time, now time.Time) string {
	diff := now.Sub(t)
	if diff < 0 {
		diff = -diff
	}

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 min ago"
		}
		return fmt.Sprintf("%d mins ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	case diff < 30*24*time.Hour:
		weeks := int(diff.Hours() / (24 * 7))
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	default:
		// Fall back to date format for older entries
		return t.Format("2006-01-02")
	}
}
