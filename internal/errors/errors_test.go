package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		err := &NotFoundError{Entity: "election"}
		assert.Equal(t, "election not found", err.Error())
	})

	t.Run("errors.Is comparison with same entity", func(t *testing.T) {
		err1 := &NotFoundError{Entity: "election"}
		err2 := &NotFoundError{Entity: "election"}
		assert.True(t, errors.Is(err1, err2))
	})

	t.Run("errors.Is comparison with different entity", func(t *testing.T) {
		err1 := &NotFoundError{Entity: "election"}
		err2 := &NotFoundError{Entity: "role"}
		assert.False(t, errors.Is(err1, err2))
	})

	t.Run("errors.Is with predefined errors", func(t *testing.T) {
		assert.True(t, errors.Is(ErrElectionNotFound, ErrElectionNotFound))
		assert.False(t, errors.Is(ErrElectionNotFound, ErrRoleNotFound))
	})

	t.Run("IsNotFound helper", func(t *testing.T) {
		assert.True(t, IsNotFound(ErrElectionNotFound))
		assert.False(t, IsNotFound(ErrAlreadyVoted))
	})

	t.Run("IsNotFound through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("loading election: %w", ErrElectionNotFound)
		assert.True(t, IsNotFound(wrapped))
	})
}

func TestAlreadyExistsError(t *testing.T) {
	t.Run("Error message with context", func(t *testing.T) {
		err := &AlreadyExistsError{Entity: "user", Context: "with this phone number"}
		assert.Equal(t, "user already exists with this phone number", err.Error())
	})

	t.Run("Error message without context", func(t *testing.T) {
		err := &AlreadyExistsError{Entity: "role"}
		assert.Equal(t, "role already exists", err.Error())
	})

	t.Run("errors.Is comparison", func(t *testing.T) {
		err1 := &AlreadyExistsError{Entity: "role", Context: "in org"}
		err2 := &AlreadyExistsError{Entity: "role", Context: "in org"}
		assert.True(t, errors.Is(err1, err2))
	})

	t.Run("IsAlreadyExists helper", func(t *testing.T) {
		assert.True(t, IsAlreadyExists(ErrPhoneNumberExists))
		assert.False(t, IsAlreadyExists(ErrUserNotFound))
	})
}

func TestVotingError(t *testing.T) {
	t.Run("sentinels compare by message", func(t *testing.T) {
		assert.True(t, errors.Is(ErrAlreadyVoted, ErrAlreadyVoted))
		assert.False(t, errors.Is(ErrAlreadyVoted, ErrTooManyChoices))
	})

	t.Run("IsVoting helper", func(t *testing.T) {
		assert.True(t, IsVoting(ErrAlreadyVoted))
		assert.True(t, IsVoting(ErrSingleChoiceOnly))
		assert.False(t, IsVoting(ErrPermissionDenied))
	})

	t.Run("IsVoting through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("casting ballot: %w", ErrTooManyChoices)
		assert.True(t, IsVoting(wrapped))
	})
}

func TestAuthErrors(t *testing.T) {
	t.Run("IsAuthentication helper", func(t *testing.T) {
		assert.True(t, IsAuthentication(ErrInvalidCredentials))
		assert.True(t, IsAuthentication(ErrOTPExpired))
		assert.False(t, IsAuthentication(ErrPermissionDenied))
	})

	t.Run("IsAuthorization helper", func(t *testing.T) {
		assert.True(t, IsAuthorization(ErrPermissionDenied))
		assert.True(t, IsAuthorization(ErrOrganizationOutOfScope))
		assert.False(t, IsAuthorization(ErrInvalidToken))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("Error message with field", func(t *testing.T) {
		err := &ValidationError{Field: "phone_number", Message: "is required"}
		assert.Equal(t, "validation error: phone_number - is required", err.Error())
	})

	t.Run("Error message without field", func(t *testing.T) {
		assert.Equal(t, "validation error: organization scope is required", ErrMissingOrganizationScope.Error())
	})

	t.Run("IsValidation helper", func(t *testing.T) {
		assert.True(t, IsValidation(ErrMissingOrganizationScope))
		assert.True(t, IsValidation(ErrDefaultRoleDelete))
		assert.False(t, IsValidation(ErrUserNotFound))
	})
}
