package service

import (
	"errors"
	"strings"
)

// Sentinel errors shared by the services. Handlers map these to HTTP
// statuses; anything else is treated as an internal error.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account inactive")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrMissingToken       = errors.New("no refresh token provided")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrSelfChat           = errors.New("cannot open a chat with yourself")
	ErrNotParticipant     = errors.New("not a participant of this room")
	ErrNotOwner           = errors.New("not the owner of this pet")
)

// WeakPasswordError carries the individual policy failures so the handler
// can return field-level messages.
type WeakPasswordError struct {
	Reasons []string
}

func (e *WeakPasswordError) Error() string {
	return "weak password: " + strings.Join(e.Reasons, "; ")
}
