package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelErrorsAreDistinct(t *testing.T) {
	all := []error{
		ErrProfileNotFound, ErrDuplicateProfile, ErrSchemeNotFound, ErrNewsNotFound,
		ErrVersionConflict, ErrInvalidID, ErrUserNotFound, ErrEmailTaken, ErrUsernameTaken,
		ErrInvalidCredentials, ErrNotAdmin, ErrOTPInvalid, ErrOTPCooldown, ErrOTPRateLimited,
		ErrEmailNotVerified, ErrMailDelivery,
	}

	for i, a := range all {
		assert.NotEmpty(t, a.Error())
		for j, b := range all {
			if i != j {
				assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
			}
		}
	}
}

func TestSentinelErrorsSurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("create profile for %s: %w", "u-1", ErrDuplicateProfile)
	assert.True(t, errors.Is(wrapped, ErrDuplicateProfile))
}

func TestValidationError(t *testing.T) {
	var v ValidationError
	assert.NoError(t, v.Err())
	assert.Equal(t, "validation failed", v.Error())

	v.Add("pinCode", "must be a 6 digit Indian PIN code")
	v.Add("district", "is required")

	err := v.Err()
	assert.Error(t, err)
	assert.True(t, v.Has("district"))
	assert.False(t, v.Has("gender"))
	assert.Equal(t, "validation failed: pinCode: must be a 6 digit Indian PIN code; district: is required", err.Error())

	var target *ValidationError
	assert.True(t, errors.As(fmt.Errorf("update: %w", err), &target))
	assert.Len(t, target.Fields, 2)
}

func TestValidationError_Merge(t *testing.T) {
	v := NewValidationError("fullName", "is required")
	v.Merge(NewValidationError("gender", "is required"))
	v.Merge(nil)

	assert.Len(t, v.Fields, 2)
	assert.Equal(t, "gender", v.Fields[1].Field)
}

func TestValidationError_NilErr(t *testing.T) {
	var v *ValidationError
	assert.NoError(t, v.Err())
}
