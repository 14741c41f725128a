package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Code classifies persistence failures so callers can branch without string matching.
type Code string

const (
	// CodeNotFound is reported when a loaded aggregate does not exist.
	CodeNotFound Code = "not_found"
	// CodeOptimisticLock is reported when a conditional update matched no row.
	CodeOptimisticLock Code = "optimistic_lock_conflict"
	// CodeBatchLimit is reported when a batch insert exceeds the engine limit.
	CodeBatchLimit Code = "batch_limit_exceeded"
	// CodeFieldAccess is reported when an attribute cannot be read.
	CodeFieldAccess Code = "field_access_failure"
	// CodeNullArgument is reported when a required argument is nil.
	CodeNullArgument Code = "null_argument"
	// CodeDuplicateID is reported when a collection carries the same identity twice.
	CodeDuplicateID Code = "duplicate_identity"
	// CodeInvalidState is reported for misuse such as saving a sealed aggregate.
	CodeInvalidState Code = "invalid_state"
	// CodeInvalidArgument is reported for malformed input that is not nil.
	CodeInvalidArgument Code = "invalid_argument"
	// CodeStorage wraps failures raised by the storage engine.
	CodeStorage Code = "storage"
)

// Sentinels usable with errors.Is.
var (
	ErrNotFound        = &Error{Code: CodeNotFound}
	ErrOptimisticLock  = &Error{Code: CodeOptimisticLock}
	ErrBatchLimit      = &Error{Code: CodeBatchLimit}
	ErrFieldAccess     = &Error{Code: CodeFieldAccess}
	ErrNullArgument    = &Error{Code: CodeNullArgument}
	ErrDuplicateID     = &Error{Code: CodeDuplicateID}
	ErrInvalidState    = &Error{Code: CodeInvalidState}
	ErrInvalidArgument = &Error{Code: CodeInvalidArgument}
	ErrStorage         = &Error{Code: CodeStorage}
)

// Error is the canonical persistence error.
type Error struct {
	Code    Code
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error carrying the same code, so the sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New builds an error with explicit code and operation.
func New(code Code, op, message string) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
	}
}

// Newf is New with a formatted message.
func Newf(code Code, op, format string, args ...any) error {
	return New(code, op, fmt.Sprintf(format, args...))
}

// Wrap annotates err with a code. Errors that already carry a code keep it.
func Wrap(code Code, op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return err
	}
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: err.Error(),
		Cause:   err,
	}
}

// IsCode checks whether err (or a wrapped error) carries code.
func IsCode(err error, code Code) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}

// CodeOf extracts the code when available.
func CodeOf(err error) Code {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Code
}

// IsFatal reports configuration-class failures. These indicate a programming
// or mapping mistake and are never resolved by retrying the same call.
func IsFatal(err error) bool {
	switch CodeOf(err) {
	case CodeFieldAccess, CodeNullArgument, CodeBatchLimit, CodeInvalidState, CodeDuplicateID:
		return true
	default:
		return false
	}
}
