package errors

import (
	"errors"
	"fmt"
)

// NotFoundError represents an error when an entity is not found. It is also
// returned when an entity exists but lies outside the caller's resolved
// organization scope, so callers cannot probe for other tenants' data.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// Is enables errors.Is() comparison for NotFoundError
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// AlreadyExistsError represents an error when an entity already exists
type AlreadyExistsError struct {
	Entity  string
	Context string // Additional context like "with this phone number"
}

func (e *AlreadyExistsError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s already exists %s", e.Entity, e.Context)
	}
	return fmt.Sprintf("%s already exists", e.Entity)
}

// Is enables errors.Is() comparison for AlreadyExistsError
func (e *AlreadyExistsError) Is(target error) bool {
	t, ok := target.(*AlreadyExistsError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// AuthenticationError represents authentication-related errors
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// AuthorizationError represents authorization-related errors
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// VotingError represents a violation of an election voting rule. Each rule
// has its own sentinel below; handlers surface the message as-is.
type VotingError struct {
	Message string
}

func (e *VotingError) Error() string {
	return e.Message
}

// Is enables errors.Is() comparison for VotingError
func (e *VotingError) Is(target error) bool {
	t, ok := target.(*VotingError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// Entity Not Found Errors
var (
	ErrOrganizationNotFound = &NotFoundError{Entity: "organization"}
	ErrRoleNotFound         = &NotFoundError{Entity: "role"}
	ErrUserNotFound         = &NotFoundError{Entity: "user"}
	ErrElectionNotFound     = &NotFoundError{Entity: "election"}
	ErrCandidateNotFound    = &NotFoundError{Entity: "candidate"}
	ErrEventNotFound        = &NotFoundError{Entity: "event"}
	ErrAnnouncementNotFound = &NotFoundError{Entity: "announcement"}
	ErrChatNotFound         = &NotFoundError{Entity: "chat"}
	ErrMessageNotFound      = &NotFoundError{Entity: "message"}
	ErrNotificationNotFound = &NotFoundError{Entity: "notification"}
	ErrIncomeNotFound       = &NotFoundError{Entity: "income"}
	ErrExpenseNotFound      = &NotFoundError{Entity: "expense"}
)

// Already Exists Errors
var (
	ErrOrganizationExists = &AlreadyExistsError{Entity: "organization", Context: "with this name"}
	ErrRoleExists         = &AlreadyExistsError{Entity: "role", Context: "with this name in the organization"}
	ErrPhoneNumberExists  = &AlreadyExistsError{Entity: "user", Context: "with this phone number"}
)

// Authentication Errors
var (
	ErrInvalidCredentials = &AuthenticationError{Message: "invalid credentials"}
	ErrInvalidToken       = &AuthenticationError{Message: "invalid or expired token"}
	ErrOTPNotRequested    = &AuthenticationError{Message: "no OTP requested for this phone number"}
	ErrOTPExpired         = &AuthenticationError{Message: "OTP has expired"}
	ErrOTPInvalid         = &AuthenticationError{Message: "invalid OTP"}
)

// Authorization Errors
var (
	ErrPermissionDenied       = &AuthorizationError{Message: "permission denied"}
	ErrOrganizationOutOfScope = &AuthorizationError{Message: "organization out of scope"}
)

// Voting Rule Errors
var (
	ErrInvalidCandidate = &VotingError{Message: "invalid candidate selection"}
	ErrElectionNotOpen  = &VotingError{Message: "election is not open for voting"}
	ErrAlreadyVoted     = &VotingError{Message: "you have already voted in this election"}
	ErrSingleChoiceOnly = &VotingError{Message: "this election only allows voting for one candidate"}
	ErrTooManyChoices   = &VotingError{Message: "too many candidates selected"}
)

// Business Logic Errors
var (
	ErrMissingOrganizationScope = &ValidationError{Message: "organization scope is required"}
	ErrInvalidStatus            = errors.New("invalid status")
	ErrInvalidTimeRange         = errors.New("invalid time range")
	ErrStatusNotPending         = errors.New("entry is no longer pending")
	ErrDefaultRoleDelete        = &ValidationError{Message: "the default role cannot be deleted"}
	ErrSuperAdminRoleDelete     = &ValidationError{Message: "the super admin role cannot be deleted"}
	ErrNoDefaultRole            = errors.New("organization has no default role")
	ErrInvalidPaginationParams  = errors.New("invalid pagination parameters")
)

// Helper Functions

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsAlreadyExists checks if an error is an AlreadyExistsError
func IsAlreadyExists(err error) bool {
	var existsErr *AlreadyExistsError
	return errors.As(err, &existsErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsAuthentication checks if an error is an AuthenticationError
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// IsAuthorization checks if an error is an AuthorizationError
func IsAuthorization(err error) bool {
	var authzErr *AuthorizationError
	return errors.As(err, &authzErr)
}

// IsVoting checks if an error is a VotingError
func IsVoting(err error) bool {
	var votingErr *VotingError
	return errors.As(err, &votingErr)
}

// NewNotFoundError creates a new NotFoundError for a custom entity
func NewNotFoundError(entity string) *NotFoundError {
	return &NotFoundError{Entity: entity}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
