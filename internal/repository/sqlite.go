package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/chronic-risk-engine/internal/domain"
)

// SQLiteProfileStore persists risk profiles in an embedded SQLite database.
// It needs no external services and is the default store for standalone
// operation. The *sql.DB is injected so tests can substitute a mock.
type SQLiteProfileStore struct {
	db  *sql.DB
	log *logrus.Logger
}

const sqliteProfileSchema = `
CREATE TABLE IF NOT EXISTS risk_profiles (
	id TEXT PRIMARY KEY,
	patient_id TEXT NOT NULL,
	overall_band TEXT NOT NULL,
	document TEXT NOT NULL,
	generated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_risk_profiles_patient ON risk_profiles(patient_id, generated_at DESC);
`

// OpenSQLite opens the embedded database at the given path.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)
	return db, nil
}

// NewSQLiteProfileStore creates the store and ensures its schema exists.
func NewSQLiteProfileStore(db *sql.DB, logger *logrus.Logger) (*SQLiteProfileStore, error) {
	if _, err := db.Exec(sqliteProfileSchema); err != nil {
		return nil, fmt.Errorf("creating risk_profiles schema: %w", err)
	}
	return &SQLiteProfileStore{
		db:  db,
		log: logger,
	}, nil
}

// Save persists a profile, replacing any existing document with the same ID
func (r *SQLiteProfileStore) Save(ctx context.Context, profile *domain.RiskProfile) error {
	document, err := encodeProfile(profile)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO risk_profiles (id, patient_id, overall_band, document, generated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET patient_id = excluded.patient_id,
		    overall_band = excluded.overall_band,
		    document = excluded.document,
		    generated_at = excluded.generated_at`

	_, err = r.db.ExecContext(ctx, query,
		profile.ID,
		profile.PatientID,
		profile.OverallBand.String(),
		document,
		profile.GeneratedAt.UTC().UnixNano(),
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
func (r *SQLiteProfileStore) GetByID(ctx context.Context, id string) (*domain.RiskProfile, error) {
	var document []byte
	err := r.db.QueryRowContext(ctx, `SELECT document FROM risk_profiles WHERE id = ?`, id).Scan(&document)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
func (r *SQLiteProfileStore) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*domain.RiskProfile, error) {
	query := `
		SELECT document FROM risk_profiles
		WHERE patient_id = ?
		ORDER BY generated_at DESC
		LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, patientID, limit, offset)
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
func (r *SQLiteProfileStore) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM risk_profiles WHERE id = ?`, id)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"profile_id": id,
			"error":      err,
		}).Error("Failed to delete risk profile")
		return fmt.Errorf("deleting risk profile: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting risk profile: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("risk profile %s: %w", id, domain.ErrNotFound)
	}

	r.log.WithFields(logrus.Fields{
		"profile_id": id,
	}).Info("Risk profile deleted")

	return nil
}
