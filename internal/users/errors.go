package users

import "errors"

// Sentinel errors returned (wrapped) by the registry. Handlers match them with
// errors.Is and translate to HTTP status codes.
var (
	ErrNotFound  = errors.New("user not found")
	ErrConflict  = errors.New("user already exists")
	ErrInvalidID = errors.New("user_id is required")
)
