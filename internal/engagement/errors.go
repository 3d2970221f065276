package engagement

import "errors"

// Errors returned by engine operations. Callers match them with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidKind      = errors.New("invalid target kind")
	ErrAlreadyEngaged   = errors.New("already engaged")
	ErrNotEngaged       = errors.New("not engaged")
	ErrAlreadyFollowing = errors.New("already following")
	ErrNotFollowing     = errors.New("not following")
	ErrSelfFollow       = errors.New("cannot follow yourself")

	// ErrPartialState marks a like without its notification link. It is only
	// reported by consistency checks, never returned from Like.
	ErrPartialState = errors.New("partial state")
)
