// Package ids provides claim reference resolution for attest commands.
package ids

import (
	"strconv"
	"strings"

	"github.com/attestkit/attest/internal/errors"
)

// LastRef selects the newest claim.
const LastRef = "last"

// ResolveClaimRef resolves a user-supplied claim reference to a claim ID.
//
// Resolution rules:
//  1. Input normalization: trim whitespace; empty after trim is E_USAGE.
//  2. "last" resolves to the newest claim (count-1); with no claims logged
//     it is E_CLAIM_NOT_FOUND.
//  3. Anything else must parse as a base-10 integer. The resolver does not
//     range-check parsed IDs; the store reports E_CLAIM_NOT_FOUND for those.
func ResolveClaimRef(input string, count int) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, errors.New(errors.EUsage, "empty claim reference")
	}
	if input == LastRef {
		if count == 0 {
			return 0, errors.New(errors.EClaimNotFound, "no claims logged yet")
		}
		return count - 1, nil
	}
	id, err := strconv.Atoi(input)
	if err != nil {
		return 0, errors.NewWithDetails(errors.EUsage,
			"claim reference must be a number or 'last'",
			map[string]string{"input": input})
	}
	return id, nil
}
