package domain

import (
	"errors"
	"strings"
)

// Kind 错误分类，传输层据此映射 HTTP 状态码
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindInvalidCredentials
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindInvalidCredentials:
		return "invalid_credentials"
	default:
		return "internal"
	}
}

// Error is the single error type services return. Err carries the
// underlying cause for logs and never reaches the client.
type Error struct {
	Kind    Kind
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// InvalidCredentialsMessage is shared by every login failure path.
const InvalidCredentialsMessage = "invalid email or password"

func Validation(msg string, details ...string) error {
	return &Error{Kind: KindValidation, Message: msg, Details: details}
}
func Conflict(msg string) error        { return &Error{Kind: KindConflict, Message: msg} }
func Unauthenticated(msg string) error { return &Error{Kind: KindUnauthenticated, Message: msg} }
func Forbidden(msg string) error       { return &Error{Kind: KindForbidden, Message: msg} }
func NotFound(msg string) error        { return &Error{Kind: KindNotFound, Message: msg} }
func InvalidCredentials() error {
	return &Error{Kind: KindInvalidCredentials, Message: InvalidCredentialsMessage}
}
func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns KindInternal for anything that is not a *Error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// IsKind reports whether err is a *Error of kind k.
func IsKind(err error, k Kind) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == k
}

// ErrDuplicate is returned by stores when a unique index rejects a write.
var ErrDuplicate = errors.New("duplicate key")

// ErrNotFound is returned by store updates that match no row.
var ErrNotFound = errors.New("record not found")
