package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/chronic-risk-engine/internal/domain"
)

// AssessmentRequest is the request body for the portfolio assessment
// endpoint.
type AssessmentRequest struct {
	PatientID  string               `json:"patient_id" binding:"required"`
	Patient    domain.PatientRecord `json:"patient"`
	Conditions []domain.Condition   `json:"conditions" binding:"required,min=1"`
}

// ConditionAssessmentRequest is the request body for single-condition
// assessment.
type ConditionAssessmentRequest struct {
	PatientID string               `json:"patient_id" binding:"required"`
	Patient   domain.PatientRecord `json:"patient"`
}

// handleAssess runs a multi-condition assessment and persists the resulting
// profile. Persistence is best-effort: a storage outage degrades retrieval,
// never the assessment itself.
func (s *Server) handleAssess(c *gin.Context) {
	var req AssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.NewAPIError(
			domain.ErrCodeInvalidInput,
			"Invalid assessment request",
			err.Error(),
			c.GetString("correlation_id"),
		))
		return
	}

	profile := s.assessor.Assess(c.Request.Context(), req.PatientID, &req.Patient, req.Conditions)

	if err := s.store.Save(c.Request.Context(), profile); err != nil {
		s.log.WithFields(logrus.Fields{
			"profile_id": profile.ID,
			"error":      err,
		}).Warn("Profile not persisted, returning assessment anyway")
	} else {
		s.cache.Set(c.Request.Context(), profile)
	}

	c.JSON(http.StatusOK, profile)
}

// handleAssessCondition runs a single-condition assessment without building
// a portfolio or persisting anything.
func (s *Server) handleAssessCondition(c *gin.Context) {
	condition := domain.Condition(c.Param("condition"))

	var req ConditionAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.NewAPIError(
			domain.ErrCodeInvalidInput,
			"Invalid assessment request",
			err.Error(),
			c.GetString("correlation_id"),
		))
		return
	}

	assessment, err := s.assessor.AssessCondition(c.Request.Context(), condition, &req.Patient)
	if err != nil {
		var unsupported *domain.UnsupportedConditionError
		if errors.As(err, &unsupported) {
			c.JSON(http.StatusBadRequest, domain.NewAPIError(
				domain.ErrCodeUnsupportedCondition,
				err.Error(),
				"",
				c.GetString("correlation_id"),
			))
			return
		}
		s.log.WithError(err).Error("Condition assessment failed")
		c.JSON(http.StatusInternalServerError, domain.NewAPIError(
			domain.ErrCodeInternalServer,
			"Assessment failed",
			"",
			c.GetString("correlation_id"),
		))
		return
	}

	c.JSON(http.StatusOK, assessment)
}

// handleGetProfile retrieves a stored profile, cache first.
func (s *Server) handleGetProfile(c *gin.Context) {
	id := c.Param("id")

	if profile, ok := s.cache.Get(c.Request.Context(), id); ok {
		c.JSON(http.StatusOK, profile)
		return
	}

	profile, err := s.store.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, domain.NewAPIError(
				domain.ErrCodeInvalidInput,
				"Profile not found",
				id,
				c.GetString("correlation_id"),
			))
			return
		}
		s.log.WithError(err).Error("Profile retrieval failed")
		c.JSON(http.StatusServiceUnavailable, domain.NewAPIError(
			domain.ErrCodeStorage,
			"Profile store unavailable",
			"",
			c.GetString("correlation_id"),
		))
		return
	}

	s.cache.Set(c.Request.Context(), profile)
	c.JSON(http.StatusOK, profile)
}

// handleDeleteProfile removes a stored profile.
func (s *Server) handleDeleteProfile(c *gin.Context) {
	id := c.Param("id")

	if err := s.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, domain.NewAPIError(
				domain.ErrCodeInvalidInput,
				"Profile not found",
				id,
				c.GetString("correlation_id"),
			))
			return
		}
		s.log.WithError(err).Error("Profile deletion failed")
		c.JSON(http.StatusServiceUnavailable, domain.NewAPIError(
			domain.ErrCodeStorage,
			"Profile store unavailable",
			"",
			c.GetString("correlation_id"),
		))
		return
	}

	s.cache.Invalidate(c.Request.Context(), id)
	c.Status(http.StatusNoContent)
}

// handleListProfiles lists a patient's stored profiles, newest first.
func (s *Server) handleListProfiles(c *gin.Context) {
	patientID := c.Param("id")
	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	profiles, err := s.store.ListByPatient(c.Request.Context(), patientID, limit, offset)
	if err != nil {
		s.log.WithError(err).Error("Profile listing failed")
		c.JSON(http.StatusServiceUnavailable, domain.NewAPIError(
			domain.ErrCodeStorage,
			"Profile store unavailable",
			"",
			c.GetString("correlation_id"),
		))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"patient_id": patientID,
		"profiles":   profiles,
		"count":      len(profiles),
	})
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
