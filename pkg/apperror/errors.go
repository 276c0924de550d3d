package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies a class of domain error. It is also the name surfaced to
// clients for storage failures.
type Kind string

const (
	KindInvalidCredentials Kind = "InvalidCredentials"
	KindTokenNotProvided   Kind = "TokenNotProvided"
	KindInvalidToken       Kind = "InvalidToken"
	KindTokenExpired       Kind = "TokenExpired"
	KindNotEnoughRights    Kind = "NotEnoughRights"
	KindUserNotFound       Kind = "UserNotFound"
	KindUsernameTaken      Kind = "UsernameTaken"
	KindInvalidBirthYear   Kind = "InvalidBirthYear"
	KindStorage            Kind = "StorageError"
	KindValidation         Kind = "ValidationError"
	KindInternal           Kind = "InternalError"
)

// Sentinels for errors.Is. Any *AppError of the same Kind matches.
var (
	ErrInvalidCredentials = &AppError{Kind: KindInvalidCredentials}
	ErrTokenNotProvided   = &AppError{Kind: KindTokenNotProvided}
	ErrInvalidToken       = &AppError{Kind: KindInvalidToken}
	ErrTokenExpired       = &AppError{Kind: KindTokenExpired}
	ErrNotEnoughRights    = &AppError{Kind: KindNotEnoughRights}
	ErrUserNotFound       = &AppError{Kind: KindUserNotFound}
	ErrUsernameTaken      = &AppError{Kind: KindUsernameTaken}
	ErrInvalidBirthYear   = &AppError{Kind: KindInvalidBirthYear}
	ErrStorage            = &AppError{Kind: KindStorage}
	ErrValidation         = &AppError{Kind: KindValidation}
)

// AppError is a domain error carrying its HTTP status code and the extra
// data echoed back to the client.
type AppError struct {
	Kind    Kind
	Code    int
	Message string
	Extra   map[string]any
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New creates a new AppError
func New(kind Kind, code int, message string, err error) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithExtra attaches a key to the extra data returned to the client.
func (e *AppError) WithExtra(key string, value any) *AppError {
	if e.Extra == nil {
		e.Extra = make(map[string]any)
	}
	e.Extra[key] = value
	return e
}

// InvalidCredentials never carries the submitted password.
func InvalidCredentials(username string) *AppError {
	return New(KindInvalidCredentials, http.StatusForbidden, "Username or password incorrect", nil).
		WithExtra("username", username)
}

func TokenNotProvided() *AppError {
	return New(KindTokenNotProvided, http.StatusForbidden, "Token not provided", nil)
}

func InvalidToken(token string) *AppError {
	return New(KindInvalidToken, http.StatusForbidden, fmt.Sprintf("Invalid token %s", token), nil).
		WithExtra("token", token)
}

func TokenExpired(token string) *AppError {
	return New(KindTokenExpired, http.StatusForbidden, fmt.Sprintf("Token expired: %s", token), nil).
		WithExtra("token", token)
}

func NotEnoughRights() *AppError {
	return New(KindNotEnoughRights, http.StatusForbidden, "Not enough rights", nil)
}

func UserNotFound(id uint) *AppError {
	return New(KindUserNotFound, http.StatusNotFound, fmt.Sprintf("User %d not found", id), nil).
		WithExtra("user_id", id)
}

func UsernameTaken(name string, err error) *AppError {
	return New(KindUsernameTaken, http.StatusConflict, fmt.Sprintf("User with name %s already exists", name), err).
		WithExtra("name", name)
}

func InvalidBirthYear(year, lo, hi int) *AppError {
	return New(KindInvalidBirthYear, http.StatusBadRequest,
		fmt.Sprintf("Birth year %d is out of range %d-%d", year, lo, hi), nil).
		WithExtra("birth_year", year)
}

// Storage wraps a file store failure.
func Storage(err error) *AppError {
	return New(KindStorage, http.StatusBadRequest, "", err)
}

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func Validation(fields []FieldError) *AppError {
	return New(KindValidation, http.StatusBadRequest, string(KindValidation), nil).
		WithExtra("errors", fields)
}

// MapErrorToStatus maps errors to HTTP status codes
func MapErrorToStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
