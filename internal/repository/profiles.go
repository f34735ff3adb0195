// Package repository persists generated risk profiles. The engine itself is
// stateless; the store exists so profiles can be retrieved later by ID or
// patient. Two implementations are provided: an embedded SQLite store for
// standalone operation and a PostgreSQL store for shared deployments.
package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chronic-risk-engine/internal/domain"
)

// ProfileStore is the persistence contract for risk profiles. The full
// profile document is stored as JSON; the indexed columns exist only for
// lookup and listing.
type ProfileStore interface {
	// Save persists a profile. Saving an existing ID replaces the stored
	// document.
	Save(ctx context.Context, profile *domain.RiskProfile) error

	// GetByID retrieves a profile, domain.ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (*domain.RiskProfile, error)

	// ListByPatient returns a patient's profiles, newest first.
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*domain.RiskProfile, error)

	// Delete removes a profile, domain.ErrNotFound when absent.
	Delete(ctx context.Context, id string) error
}

func encodeProfile(profile *domain.RiskProfile) ([]byte, error) {
	document, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("encoding profile: %w", err)
	}
	return document, nil
}

func decodeProfile(document []byte) (*domain.RiskProfile, error) {
	var profile domain.RiskProfile
	if err := json.Unmarshal(document, &profile); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	return &profile, nil
}
