package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned for an unknown username and for a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrDuplicateUsername is returned when registering a username that is already taken.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrInvalidRole is returned when a role outside admin/customer is requested.
	ErrInvalidRole = errors.New("invalid role")
	// ErrValidation marks caller input that failed presence or format checks.
	ErrValidation = errors.New("validation failed")
	// ErrProductNotFound is returned when a product id does not exist.
	ErrProductNotFound = errors.New("product not found")
	// ErrUnknownTable is returned when a table name is not one the store reports.
	ErrUnknownTable = errors.New("unknown table")
	// ErrNotLoggedIn is returned when a page needs an authenticated session.
	ErrNotLoggedIn = errors.New("login required")
	// ErrForbidden is returned when the session role may not open a page.
	ErrForbidden = errors.New("admin privileges required")
	// ErrSessionControl is reported when console input would change transaction or session state.
	ErrSessionControl = errors.New("transaction and session control statements are not supported; each console statement commits on its own")
	// ErrConfirmationRequired is returned when a mutating statement arrives without confirmation.
	ErrConfirmationRequired = errors.New("statement may modify or delete data and must be confirmed")
)

// StorageError wraps a failure of the underlying store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err with the operation that failed.
func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// Validation returns an error matching ErrValidation with a caller-facing message.
func Validation(message string) error {
	return fmt.Errorf("%w: %s", ErrValidation, message)
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var storageErr *StorageError
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrDuplicateUsername):
		return NewHTTPError(http.StatusConflict, ErrDuplicateUsername.Error(), "DUPLICATE_USERNAME")
	case errors.Is(err, ErrInvalidRole):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_ROLE")
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_FAILED")
	case errors.Is(err, ErrProductNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PRODUCT_NOT_FOUND")
	case errors.Is(err, ErrUnknownTable):
		return NewHTTPError(http.StatusNotFound, err.Error(), "UNKNOWN_TABLE")
	case errors.Is(err, ErrNotLoggedIn):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "LOGIN_REQUIRED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrConfirmationRequired):
		return NewHTTPError(http.StatusPreconditionRequired, err.Error(), "CONFIRMATION_REQUIRED")
	case errors.As(err, &storageErr):
		return NewHTTPError(http.StatusServiceUnavailable, "service temporarily unavailable", "SERVICE_UNAVAILABLE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
