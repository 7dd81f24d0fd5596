package hospital

import "errors"

// Error taxonomy shared by every service. Services wrap these with
// fmt.Errorf("%w: detail") so callers branch with errors.Is instead of
// matching message text.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrReferenceNotFound = errors.New("referenced entity not found")
	ErrReferenceMismatch = errors.New("reference mismatch")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidState      = errors.New("invalid state")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrNotConfigured     = errors.New("service not configured")
)
