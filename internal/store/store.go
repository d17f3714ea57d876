// Package store provides persistence for the claims ledger.
// claims.json holds a single JSON array; every mutation rewrites the whole
// file atomically via temp file + rename. Single writer assumed.
package store

import (
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/attestkit/attest/internal/errors"
	"github.com/attestkit/attest/internal/fs"
)

// Store handles persistence of claim records.
type Store struct {
	FS         fs.FS            // filesystem interface for stubbing
	ClaimsPath string           // resolved path to claims.json
	Now        func() time.Time // injectable clock for deterministic tests
}

// NewStore creates a new Store with the given dependencies.
func NewStore(filesystem fs.FS, claimsPath string, now func() time.Time) *Store {
	return &Store{
		FS:         filesystem,
		ClaimsPath: claimsPath,
		Now:        now,
	}
}

// Append adds a new unverified claim and returns its ID (the array position).
func (s *Store) Append(text, proofCommand, expectedResult string) (int, error) {
	claims, err := s.load()
	if err != nil {
		return 0, err
	}

	claim := Claim{
		ID:             len(claims),
		CreatedAt:      s.Now().Unix(),
		Text:           text,
		ProofCommand:   proofCommand,
		ExpectedResult: expectedResult,
	}
	claims = append(claims, claim)

	if err := s.persist(claims); err != nil {
		return 0, err
	}
	return claim.ID, nil
}

// Get returns the claim with the given ID.
// Returns E_CLAIM_NOT_FOUND if the ID is outside [0, len).
func (s *Store) Get(id int) (Claim, error) {
	claims, err := s.load()
	if err != nil {
		return Claim{}, err
	}
	if id < 0 || id >= len(claims) {
		return Claim{}, notFound(id, len(claims))
	}
	return claims[id], nil
}

// Update applies mutate to the claim with the given ID and rewrites the
// ledger. Returns the updated claim.
func (s *Store) Update(id int, mutate func(*Claim)) (Claim, error) {
	claims, err := s.load()
	if err != nil {
		return Claim{}, err
	}
	if id < 0 || id >= len(claims) {
		return Claim{}, notFound(id, len(claims))
	}

	mutate(&claims[id])
	// IDs are positions; a mutation cannot move a claim.
	claims[id].ID = id

	if err := s.persist(claims); err != nil {
		return Claim{}, err
	}
	return claims[id], nil
}

// All returns every claim in ledger order. Absent file yields an empty
// slice, not an error.
func (s *Store) All() ([]Claim, error) {
	return s.load()
}

// Count returns the number of claims.
func (s *Store) Count() (int, error) {
	claims, err := s.load()
	if err != nil {
		return 0, err
	}
	return len(claims), nil
}

func (s *Store) load() ([]Claim, error) {
	data, err := s.FS.ReadFile(s.ClaimsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []Claim{}, nil
		}
		return nil, errors.Wrap(errors.EStoreIO, "failed to read claims file", err)
	}

	var claims []Claim
	if err := fs.UnmarshalJSON(data, &claims); err != nil {
		return nil, errors.Wrap(errors.EStoreIO, "failed to decode claims file", err)
	}
	for i := range claims {
		claims[i].ID = i
	}
	return claims, nil
}

func (s *Store) persist(claims []Claim) error {
	data, err := json.MarshalIndent(claims, "", "  ")
	if err != nil {
		return errors.Wrap(errors.EStoreIO, "failed to encode claims", err)
	}
	data = append(data, '\n')

	if err := fs.WriteFileAtomic(s.FS, s.ClaimsPath, data, 0o644); err != nil {
		return errors.Wrap(errors.EStoreIO, "failed to write claims file", err)
	}
	return nil
}

func notFound(id, count int) error {
	return errors.NewWithDetails(errors.EClaimNotFound, "invalid claim ID", map[string]string{
		"claim_id": strconv.Itoa(id),
		"count":    strconv.Itoa(count),
	})
}
