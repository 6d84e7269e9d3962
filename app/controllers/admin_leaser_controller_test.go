package controllers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marlon-leasing/marlon/app/models"
)

type stubDurationLookup struct {
	duration *models.LeasingDuration
	err      error
}

func (s *stubDurationLookup) GetDurationByID(uint) (*models.LeasingDuration, error) {
	return s.duration, s.err
}

func TestCoefficientMonthsPreloadedDuration(t *testing.T) {
	tier := &models.LeaserCoefficient{
		DurationID: 2,
		Duration:   &models.LeasingDuration{ID: 2, Months: 36},
	}

	months, err := coefficientMonths(tier, &stubDurationLookup{err: errors.New("must not be called")})

	assert.NoError(t, err)
	assert.Equal(t, 36, months)
}

func TestCoefficientMonthsLookup(t *testing.T) {
	tier := &models.LeaserCoefficient{DurationID: 3}
	lookup := &stubDurationLookup{duration: &models.LeasingDuration{ID: 3, Months: 48}}

	months, err := coefficientMonths(tier, lookup)

	assert.NoError(t, err)
	assert.Equal(t, 48, months)
}

func TestCoefficientMonthsLookupFailure(t *testing.T) {
	tier := &models.LeaserCoefficient{DurationID: 3}
	lookup := &stubDurationLookup{err: errors.New("connection lost")}

	months, err := coefficientMonths(tier, lookup)

	assert.Error(t, err)
	assert.Zero(t, months)
}
