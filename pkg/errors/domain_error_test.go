package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDomainError_ErrorIncludesCause(t *testing.T) {
	err := NewDomainError(DomainValidationError, "BAD_INPUT", "input is invalid")
	require.Equal(t, "[VALIDATION_ERROR:BAD_INPUT] input is invalid", err.Error())

	wrapped := NewDomainError(DomainValidationError, "BAD_INPUT", "input is invalid").
		WithCause(errors.New("underlying cause"))
	require.Contains(t, wrapped.Error(), "underlying cause")
}

func TestDomainError_StatusCodeDefaultsByType(t *testing.T) {
	cases := map[DomainErrorType]int{
		DomainValidationError:     400,
		DomainBusinessRuleError:   422,
		DomainNotFoundError:       404,
		DomainConflictError:       409,
		DomainAuthenticationError: 401,
		DomainAuthorizationError:  403,
		DomainRateLimitError:      429,
		DomainTimeoutError:        504,
		DomainInfrastructureError: 500,
		DomainMemoryRejectionError: 422,
	}
	for errType, status := range cases {
		err := NewDomainError(errType, "CODE", "message")
		require.Equal(t, status, err.StatusCode, "type %s", errType)
	}
}

func TestDomainError_WithStatusCodeOverrides(t *testing.T) {
	err := NewDomainError(DomainValidationError, "CODE", "message").WithStatusCode(418)
	require.Equal(t, 418, err.StatusCode)
}

func TestDomainError_WithDetailAndWithDetails(t *testing.T) {
	err := NewDomainError(DomainValidationError, "CODE", "message").
		WithDetail("field", "text").
		WithDetails(map[string]interface{}{"max": 10, "min": 1})

	require.Equal(t, "text", err.Details["field"])
	require.Equal(t, 10, err.Details["max"])
	require.Equal(t, 1, err.Details["min"])
}

func TestDomainError_Is(t *testing.T) {
	a := NewDomainError(DomainValidationError, "CODE", "message")
	b := NewDomainError(DomainValidationError, "CODE", "a different message")
	c := NewDomainError(DomainValidationError, "OTHER_CODE", "message")

	require.True(t, a.Is(b))
	require.False(t, a.Is(c))
	require.False(t, a.Is(errors.New("not a domain error")))
}

func TestDomainError_UnwrapReturnsCause(t *testing.T) {
	cause := errors.New("root cause")
	err := NewDomainError(DomainValidationError, "CODE", "message").WithCause(cause)
	require.ErrorIs(t, err, cause)
}

func TestNewMemoryRejectionError_CarriesSignalsAndConfidence(t *testing.T) {
	err := NewMemoryRejectionError([]string{"high-importance-without-specifics"}, 0.55, 0.8)

	require.Equal(t, DomainMemoryRejectionError, err.Type)
	require.Equal(t, []string{"high-importance-without-specifics"}, err.Details["signals"])
	require.Equal(t, 0.55, err.Details["confidence"])
	require.Equal(t, 0.8, err.Details["adjusted_importance"])
}

func TestValidationErrors_AddAndToMap(t *testing.T) {
	v := NewValidationErrors()
	require.False(t, v.HasErrors())

	v.Add("text", "text is required")
	v.Add("text", "text is too long")
	v.Add("importance", "importance out of range")

	require.True(t, v.HasErrors())
	require.Len(t, v.Errors, 3)

	m := v.ToMap()
	require.ElementsMatch(t, []string{"text is required", "text is too long"}, m["text"])
	require.ElementsMatch(t, []string{"importance out of range"}, m["importance"])
}

func TestValidationErrors_AddErrorWithoutFieldFallsBackToGeneral(t *testing.T) {
	v := NewValidationErrors()
	v.AddError(NewDomainError(DomainValidationError, "CODE", "something failed"))

	m := v.ToMap()
	require.Equal(t, []string{"something failed"}, m["general"])
}

func TestValidationErrors_ErrorJoinsMessages(t *testing.T) {
	v := NewValidationErrors()
	require.Equal(t, "", v.Error())

	v.Add("text", "text is required")
	v.Add("importance", "importance out of range")
	require.Equal(t, "Validation failed: text is required; importance out of range", v.Error())
}

func TestNewDomainErrorResponse_CopiesFields(t *testing.T) {
	err := NewDomainError(DomainNotFoundError, "UNKNOWN_ITEM", "not found").WithRetryable(true)
	resp := NewDomainErrorResponse(err, "req-123")

	require.True(t, resp.Error)
	require.Equal(t, DomainNotFoundError, resp.Type)
	require.Equal(t, "UNKNOWN_ITEM", resp.Code)
	require.Equal(t, "req-123", resp.RequestID)
	require.True(t, resp.Retryable)
	require.NotEmpty(t, resp.Timestamp)
}

func TestFatalInvariantError_Error(t *testing.T) {
	err := NewFatalInvariantError("dangling-edge", "edge references unknown item")
	require.Equal(t, "internal invariant violated: dangling-edge: edge references unknown item", err.Error())
}
