package services

import (
	"errors"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindDependency
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindDependency:
		return "dependency"
	default:
		return "unknown"
	}
}

// Error is a failure the API can answer with a specific status and message.
// Message is safe to show to clients; Err is only logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// dependency wraps an unexpected store, mail or asset failure
func dependency(message string, err error) *Error {
	return &Error{Kind: KindDependency, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindDependency for anything that is not an *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindDependency
}

var (
	// Access gate
	ErrMissingFields      = newError(KindValidation, "All fields are required")
	ErrInvalidEmail       = newError(KindValidation, "Invalid email address")
	ErrPasswordTooShort   = newError(KindValidation, "Password must be at least 6 characters")
	ErrInvalidCredentials = newError(KindValidation, "Invalid credentials")
	ErrEmailTaken         = newError(KindConflict, "Email already exists")
	ErrUsernameTaken      = newError(KindConflict, "Username already exists")
	ErrUnauthenticated    = newError(KindAuthentication, "Unauthorized - No Token Provided")
	ErrInvalidToken       = newError(KindAuthentication, "Unauthorized - Invalid Token")
	ErrUnknownTokenUser   = newError(KindAuthentication, "Unauthorized - User not found")

	// Identity
	ErrInvalidID       = newError(KindValidation, "Invalid ID")
	ErrUserNotFound    = newError(KindNotFound, "User not found")
	ErrEmptyName       = newError(KindValidation, "Name cannot be empty")
	ErrEmptyUsername   = newError(KindValidation, "Username cannot be empty")
	ErrInvalidImage    = newError(KindValidation, "Image must be a data URI or an http(s) URL")
	ErrNothingToUpdate = newError(KindValidation, "No profile fields to update")

	// Connection workflow
	ErrSelfRequest         = newError(KindValidation, "You can't send a request to yourself")
	ErrAlreadyConnected    = newError(KindConflict, "You are already connected")
	ErrDuplicatePending    = newError(KindConflict, "A connection request already exists")
	ErrReversePending      = newError(KindConflict, "This user has already sent you a connection request")
	ErrRequestNotFound     = newError(KindNotFound, "Connection request not found")
	ErrNotRequestRecipient = newError(KindAuthorization, "Not authorized to respond to this request")
	ErrAlreadyProcessed    = newError(KindConflict, "This request has already been processed")
	ErrSelfRemoval         = newError(KindValidation, "You can't remove yourself")
	ErrSelfStatus          = newError(KindConflict, "You can't check the connection status with yourself")

	// Posts
	ErrPostNotFound  = newError(KindNotFound, "Post not found")
	ErrNotPostAuthor = newError(KindAuthorization, "You are not authorized to delete this post")
	ErrEmptyPost     = newError(KindValidation, "Post must have content or an image")
	ErrEmptyComment  = newError(KindValidation, "Comment content is required")

	// Notifications
	ErrNotificationNotFound = newError(KindNotFound, "Notification not found")
)
