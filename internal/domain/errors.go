package domain

import "errors"

// ErrorKind classifies errors surfaced to the caller
type ErrorKind string

const (
	KindExecutableNotFound    ErrorKind = "executable_not_found"
	KindAlreadyInProgress     ErrorKind = "already_in_progress"
	KindSpawnFailure          ErrorKind = "spawn_failure"
	KindNonZeroExit           ErrorKind = "non_zero_exit"
	KindMalformedOutput       ErrorKind = "malformed_output"
	KindMissingRuntime        ErrorKind = "missing_runtime"
	KindMissingPackageManager ErrorKind = "missing_package_manager"
	KindInstallCommandFailed  ErrorKind = "install_command_failed"
	KindDirectoryUnresolvable ErrorKind = "directory_unresolvable"
	KindInvalidRequest        ErrorKind = "invalid_request"
)

// Error is a caller-facing error carrying a kind and a user-facing message
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrExecutableNotFound    = &Error{Kind: KindExecutableNotFound}
	ErrAlreadyInProgress     = &Error{Kind: KindAlreadyInProgress}
	ErrSpawnFailure          = &Error{Kind: KindSpawnFailure}
	ErrNonZeroExit           = &Error{Kind: KindNonZeroExit}
	ErrMalformedOutput       = &Error{Kind: KindMalformedOutput}
	ErrMissingRuntime        = &Error{Kind: KindMissingRuntime}
	ErrMissingPackageManager = &Error{Kind: KindMissingPackageManager}
	ErrInstallCommandFailed  = &Error{Kind: KindInstallCommandFailed}
	ErrDirectoryUnresolvable = &Error{Kind: KindDirectoryUnresolvable}
	ErrInvalidRequest        = &Error{Kind: KindInvalidRequest}
)

// NewError creates an error of the given kind
func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return string(e.Kind) + ": " + e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of err, or an empty kind if err is not an *Error
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// UserMessage returns the user-facing message of err
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}
