package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mypostula/backend/internal/app/models/dto"
	"github.com/mypostula/backend/internal/pkg/apperrors"
)

func runHandleAPIError(t *testing.T, err error) (int, *dto.ErrorDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleAPIError(c, err)

	var resp dto.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp.Error
}

func TestHandleAPIError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"postulation not found", apperrors.ErrPostulationNotFound, 404, dto.ErrorCodeResourceNotFound},
		{"company not found", apperrors.ErrCompanyNotFound, 404, dto.ErrorCodeResourceNotFound},
		{"currency not found", apperrors.ErrCurrencyNotFound, 404, dto.ErrorCodeResourceNotFound},
		{"permission denied", apperrors.ErrPermissionDenied, 403, dto.ErrorCodeUnauthorized},
		{"invalid credentials", apperrors.ErrInvalidCredentials, 401, dto.ErrorCodeInvalidCredentials},
		{"account disabled", apperrors.ErrAccountDisabled, 403, dto.ErrorCodeUnauthorized},
		{"token expired", apperrors.ErrTokenExpired, 401, dto.ErrorCodeExpiredToken},
		{"token revoked", apperrors.ErrTokenRevoked, 401, dto.ErrorCodeInvalidToken},
		{"invalid status", apperrors.ErrInvalidStatus, 400, dto.ErrorCodeValidationFailed},
		{"company name empty", apperrors.ErrCompanyNameEmpty, 400, dto.ErrorCodeValidationFailed},
		{"email exists", apperrors.ErrEmailAlreadyExists, 409, dto.ErrorCodeResourceAlreadyExists},
		{"unexpected", errors.New("boom"), 500, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, detail := runHandleAPIError(t, tt.err)
			assert.Equal(t, tt.wantStatus, status)
			require.NotNil(t, detail)
			assert.Equal(t, tt.wantCode, detail.Code)
		})
	}
}

func TestHandleAPIError_SurfacesValidationMessage(t *testing.T) {
	err := apperrors.NewValidationError(apperrors.ErrCompanyNameEmpty.Error())

	status, detail := runHandleAPIError(t, err)

	assert.Equal(t, 400, status)
	require.NotNil(t, detail)
	assert.Equal(t, "you must select or enter a company name", detail.Message)
}

func TestHandleAPIError_WrappedSentinel(t *testing.T) {
	err := fmt.Errorf("%w: archived", apperrors.ErrInvalidStatus)

	status, detail := runHandleAPIError(t, err)

	assert.Equal(t, 400, status)
	require.NotNil(t, detail)
	assert.Contains(t, detail.Message, "archived")
}

func TestHandleAPIError_InternalErrorsAreOpaque(t *testing.T) {
	_, detail := runHandleAPIError(t, errors.New("pq: connection refused"))

	require.NotNil(t, detail)
	assert.Equal(t, "Internal server error", detail.Message)
	assert.NotContains(t, detail.Message, "connection refused")
}
