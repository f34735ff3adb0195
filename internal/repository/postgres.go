package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/chronic-risk-engine/internal/domain"
)

// PostgresProfileStore persists risk profiles in PostgreSQL. The profile
// document lives in a JSONB column; id, patient and timestamp are promoted
// to columns for lookup.
type PostgresProfileStore struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewPostgresProfileStore creates a new PostgreSQL-backed profile store
func NewPostgresProfileStore(db *pgxpool.Pool, logger *logrus.Logger) *PostgresProfileStore {
	return &PostgresProfileStore{
		db:  db,
		log: logger,
	}
}

// Save persists a profile, replacing any existing document with the same ID
func (r *PostgresProfileStore) Save(ctx context.Context, profile *domain.RiskProfile) error {
	document, err := encodeProfile(profile)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO risk_profiles (id, patient_id, overall_band, document, generated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET patient_id = $2, overall_band = $3, document = $4, generated_at = $5`

	_, err = r.db.Exec(ctx, query,
		profile.ID,
		profile.PatientID,
		profile.OverallBand.String(),
		document,
		profile.GeneratedAt,
	)

	if err != nil {
		r.log.WithFields(logrus.Fields{
			"profile_id": profile.ID,
			"patient_id": profile.PatientID,
			"error":      err,
		}).Error("Failed to save risk profile")
		return fmt.Errorf("saving risk profile: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"profile_id":   profile.ID,
		"patient_id":   profile.PatientID,
		"overall_band": profile.OverallBand.String(),
	}).Info("Risk profile saved")

	return nil
}

// GetByID retrieves a profile by its ID
func (r *PostgresProfileStore) GetByID(ctx context.Context, id string) (*domain.RiskProfile, error) {
	query := `SELECT document FROM risk_profiles WHERE id = $1`

	var document []byte
	err := r.db.QueryRow(ctx, query, id).Scan(&document)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("risk profile %s: %w", id, domain.ErrNotFound)
		}
		r.log.WithFields(logrus.Fields{
			"profile_id": id,
			"error":      err,
		}).Error("Failed to get risk profile")
		return nil, fmt.Errorf("getting risk profile: %w", err)
	}

	return decodeProfile(document)
}

// ListByPatient returns a patient's profiles, newest first
func (r *PostgresProfileStore) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*domain.RiskProfile, error) {
	query := `
		SELECT document FROM risk_profiles
		WHERE patient_id = $1
		ORDER BY generated_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, patientID, limit, offset)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"patient_id": patientID,
			"error":      err,
		}).Error("Failed to list risk profiles")
		return nil, fmt.Errorf("listing risk profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*domain.RiskProfile
	for rows.Next() {
		var document []byte
		if err := rows.Scan(&document); err != nil {
			return nil, fmt.Errorf("scanning risk profile row: %w", err)
		}
		profile, err := decodeProfile(document)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating risk profile rows: %w", err)
	}

	return profiles, nil
}

// Delete removes a profile
func (r *PostgresProfileStore) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM risk_profiles WHERE id = $1`, id)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"profile_id": id,
			"error":      err,
		}).Error("Failed to delete risk profile")
		return fmt.Errorf("deleting risk profile: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("risk profile %s: %w", id, domain.ErrNotFound)
	}

	r.log.WithFields(logrus.Fields{
		"profile_id": id,
	}).Info("Risk profile deleted")

	return nil
}
