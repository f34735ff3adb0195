package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/chronic-risk-engine/internal/domain"
)

// ResilientProfileStore wraps a ProfileStore with a circuit breaker so a
// failing database degrades persistence without taking assessment traffic
// down with it. Reads and writes share one breaker: they hit the same
// backend.
type ResilientProfileStore struct {
	store   ProfileStore
	breaker *gobreaker.CircuitBreaker
	log     *logrus.Logger
}

// NewResilientProfileStore wraps the given store with a circuit breaker
func NewResilientProfileStore(store ProfileStore, logger *logrus.Logger) *ResilientProfileStore {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ProfileStore",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		// A missing profile is a valid answer, not a backend failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrNotFound)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	return &ResilientProfileStore{
		store:   store,
		breaker: breaker,
		log:     logger,
	}
}

// Save persists a profile through the circuit breaker
func (r *ResilientProfileStore) Save(ctx context.Context, profile *domain.RiskProfile) error {
	_, err := r.breaker.Execute(func() (interface{}, error) {
		return nil, r.store.Save(ctx, profile)
	})
	if err == gobreaker.ErrOpenState {
		return fmt.Errorf("profile store unavailable (circuit breaker open)")
	}
	return err
}

// GetByID retrieves a profile through the circuit breaker
func (r *ResilientProfileStore) GetByID(ctx context.Context, id string) (*domain.RiskProfile, error) {
	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.store.GetByID(ctx, id)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState {
			return nil, fmt.Errorf("profile store unavailable (circuit breaker open)")
		}
		return nil, err
	}
	return result.(*domain.RiskProfile), nil
}

// ListByPatient lists a patient's profiles through the circuit breaker
func (r *ResilientProfileStore) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*domain.RiskProfile, error) {
	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.store.ListByPatient(ctx, patientID, limit, offset)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState {
			return nil, fmt.Errorf("profile store unavailable (circuit breaker open)")
		}
		return nil, err
	}
	return result.([]*domain.RiskProfile), nil
}

// Delete removes a profile through the circuit breaker
func (r *ResilientProfileStore) Delete(ctx context.Context, id string) error {
	_, err := r.breaker.Execute(func() (interface{}, error) {
		return nil, r.store.Delete(ctx, id)
	})
	if err == gobreaker.ErrOpenState {
		return fmt.Errorf("profile store unavailable (circuit breaker open)")
	}
	return err
}

// State returns the current circuit breaker state
func (r *ResilientProfileStore) State() gobreaker.State {
	return r.breaker.State()
}
