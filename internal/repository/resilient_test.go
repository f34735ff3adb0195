package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronic-risk-engine/internal/domain"
)

// flakyStore fails every call until healed.
type flakyStore struct {
	healthy  bool
	profiles map[string]*domain.RiskProfile
}

func newFlakyStore() *flakyStore {
	return &flakyStore{healthy: true, profiles: make(map[string]*domain.RiskProfile)}
}

func (s *flakyStore) Save(ctx context.Context, profile *domain.RiskProfile) error {
	if !s.healthy {
		return errors.New("connection refused")
	}
	s.profiles[profile.ID] = profile
	return nil
}

func (s *flakyStore) GetByID(ctx context.Context, id string) (*domain.RiskProfile, error) {
	if !s.healthy {
		return nil, errors.New("connection refused")
	}
	p, ok := s.profiles[id]
	if !ok {
		return nil, fmt.Errorf("risk profile %s: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

func (s *flakyStore) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*domain.RiskProfile, error) {
	if !s.healthy {
		return nil, errors.New("connection refused")
	}
	var out []*domain.RiskProfile
	for _, p := range s.profiles {
		if p.PatientID == patientID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *flakyStore) Delete(ctx context.Context, id string) error {
	if !s.healthy {
		return errors.New("connection refused")
	}
	if _, ok := s.profiles[id]; !ok {
		return fmt.Errorf("risk profile %s: %w", id, domain.ErrNotFound)
	}
	delete(s.profiles, id)
	return nil
}

func TestResilientStorePassesThrough(t *testing.T) {
	inner := newFlakyStore()
	store := NewResilientProfileStore(inner, testLogger())
	ctx := context.Background()

	profile := testProfile("patient-1", time.Now())
	require.NoError(t, store.Save(ctx, profile))

	got, err := store.GetByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, got.ID)

	profiles, err := store.ListByPatient(ctx, "patient-1", 10, 0)
	require.NoError(t, err)
	assert.Len(t, profiles, 1)

	require.NoError(t, store.Delete(ctx, profile.ID))
	assert.Equal(t, gobreaker.StateClosed, store.State())
}

func TestResilientStoreOpensAfterRepeatedFailures(t *testing.T) {
	inner := newFlakyStore()
	store := NewResilientProfileStore(inner, testLogger())
	ctx := context.Background()

	inner.healthy = false
	profile := testProfile("patient-1", time.Now())
	for i := 0; i < 5; i++ {
		assert.Error(t, store.Save(ctx, profile))
	}
	assert.Equal(t, gobreaker.StateOpen, store.State())

	// With the breaker open the backend is never touched.
	inner.healthy = true
	err := store.Save(ctx, profile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")
	assert.Empty(t, inner.profiles)
}

func TestResilientStoreNotFoundDoesNotTrip(t *testing.T) {
	inner := newFlakyStore()
	store := NewResilientProfileStore(inner, testLogger())
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := store.GetByID(ctx, "missing")
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	}
	assert.Equal(t, gobreaker.StateClosed, store.State())
}
