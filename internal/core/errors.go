package core

import "errors"

// Error taxonomy shared by storage, services and the HTTP layer.
// NotFound deliberately covers both "row missing" and "row not yours" so
// the API never reveals whether somebody else's expense exists.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError reports a missing or empty required field. It is returned
// by the Validate methods before anything reaches the database.
type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
