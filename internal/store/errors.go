package store

import "errors"

// Validation failures: the operation was rejected and nothing changed.
var (
	ErrEmptyTitle        = errors.New("task title cannot be empty")
	ErrEmptyTagName      = errors.New("tag name cannot be empty")
	ErrDuplicateTag      = errors.New("a tag with that name already exists")
	ErrTaskNotFound      = errors.New("task not found")
	ErrTagNotFound       = errors.New("tag not found")
	ErrInvalidPreference = errors.New("invalid preference")
	ErrReorderDisabled   = errors.New("manual ordering is disabled while sorting by importance")
	ErrNotMovable        = errors.New("both tasks must be visible to reorder")
)

var validationErrors = []error{
	ErrEmptyTitle,
	ErrEmptyTagName,
	ErrDuplicateTag,
	ErrTaskNotFound,
	ErrTagNotFound,
	ErrInvalidPreference,
	ErrReorderDisabled,
	ErrNotMovable,
}

// IsValidation returns true if err is a rejected-input error rather than
// an I/O failure
func IsValidation(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
