// Package apperr define la taxonomía de errores compartida por servicios, handlers y el SDK.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindNotAuthenticated Kind = "not_authenticated"
	KindInvalidInput     Kind = "invalid_input"
	KindDuplicateAccount Kind = "duplicate_account"
	KindWeakCredential   Kind = "weak_credential"
	KindBadCredential    Kind = "bad_credential"
	KindRateLimited      Kind = "rate_limited"
	KindAuthFailure      Kind = "auth_failure"
	KindPermissionDenied Kind = "permission_denied"
	KindPersistence      Kind = "persistence_error"
	KindUploadFailure    Kind = "upload_failure"
	KindNotFound         Kind = "not_found"
)

// Error es un error clasificado. Message es legible por humanos; Err es la causa original (opcional).
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is permite errors.Is(err, apperr.ErrNotFound) contra cualquier *Error del mismo Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels por kind (solo para comparar con errors.Is).
var (
	ErrNotAuthenticated = &Error{Kind: KindNotAuthenticated}
	ErrInvalidInput     = &Error{Kind: KindInvalidInput}
	ErrDuplicateAccount = &Error{Kind: KindDuplicateAccount}
	ErrWeakCredential   = &Error{Kind: KindWeakCredential}
	ErrBadCredential    = &Error{Kind: KindBadCredential}
	ErrRateLimited      = &Error{Kind: KindRateLimited}
	ErrAuthFailure      = &Error{Kind: KindAuthFailure}
	ErrPermissionDenied = &Error{Kind: KindPermissionDenied}
	ErrPersistence      = &Error{Kind: KindPersistence}
	ErrUploadFailure    = &Error{Kind: KindUploadFailure}
	ErrNotFound         = &Error{Kind: KindNotFound}
)

func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap clasifica err con kind. Si err ya está clasificado, se respeta su kind original.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf devuelve el kind de err; errores no clasificados son PersistenceError.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindPersistence
}

// Normalize garantiza que err sea un *Error. Los no reconocidos pasan como PersistenceError
// conservando su mensaje original.
func Normalize(err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Kind: KindPersistence, Message: err.Error(), Err: err}
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindNotAuthenticated, KindAuthFailure:
		return http.StatusUnauthorized
	case KindBadCredential:
		return http.StatusUnauthorized
	case KindInvalidInput, KindWeakCredential:
		return http.StatusBadRequest
	case KindDuplicateAccount:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindPermissionDenied:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindUploadFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// FromHTTP reconstruye un error clasificado a partir de la respuesta del API.
// kind vacío o desconocido se deduce del status.
func FromHTTP(status int, kind, msg string) error {
	k := Kind(kind)
	if !k.valid() {
		k = kindFromStatus(status)
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &Error{Kind: k, Message: msg}
}

func (k Kind) valid() bool {
	switch k {
	case KindNotAuthenticated, KindInvalidInput, KindDuplicateAccount, KindWeakCredential,
		KindBadCredential, KindRateLimited, KindAuthFailure, KindPermissionDenied,
		KindPersistence, KindUploadFailure, KindNotFound:
		return true
	}
	return false
}

func kindFromStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized:
		return KindNotAuthenticated
	case http.StatusBadRequest:
		return KindInvalidInput
	case http.StatusConflict:
		return KindDuplicateAccount
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusForbidden:
		return KindPermissionDenied
	case http.StatusNotFound:
		return KindNotFound
	default:
		return KindPersistence
	}
}
