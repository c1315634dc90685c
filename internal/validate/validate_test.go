package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/request-tracker/internal/api/dto"
	apperrors "github.com/spec-kit/request-tracker/pkg/util"
)

func TestStructReportsWireFieldNames(t *testing.T) {
	payload := dto.CreateRequestRequest{
		Department:       "ER",
		PainPoint:        "too short",
		CurrentWorkflow:  "paper forms",
		ExpectedTechHelp: "a calculator",
		RequestType:      "CALCULATOR",
	}

	err := Struct(payload)
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, 400, domainErr.HTTPStatus)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Contains(t, domainErr.Details, "painPoint")
	assert.Equal(t, "must be at least 10 characters", domainErr.Details["painPoint"])
}

func TestStructRejectsUnknownRequestType(t *testing.T) {
	payload := dto.CreateRequestRequest{
		Department:       "Radiology",
		PainPoint:        "manual dose calculations take too long",
		CurrentWorkflow:  "spreadsheets",
		ExpectedTechHelp: "automated tooling",
		RequestType:      "SOMETHING_ELSE",
	}

	err := Struct(payload)
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Contains(t, domainErr.Details, "requestType")
}

func TestStructValidPayload(t *testing.T) {
	payload := dto.RegisterRequest{
		Username:   "jdoe",
		Email:      "jdoe@example.com",
		Name:       "J. Doe",
		Department: "ICU",
		Password:   "correct-horse",
	}
	assert.NoError(t, Struct(payload))
}

func TestStructCollectsMultipleFields(t *testing.T) {
	payload := dto.RegisterRequest{
		Username: "ab",
		Email:    "not-an-email",
		Password: "short",
	}

	err := Struct(payload)
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Contains(t, domainErr.Details, "username")
	assert.Contains(t, domainErr.Details, "email")
	assert.Contains(t, domainErr.Details, "name")
	assert.Contains(t, domainErr.Details, "password")
	assert.Equal(t, "must be a valid email address", domainErr.Details["email"])
	assert.Equal(t, "is required", domainErr.Details["name"])
}
