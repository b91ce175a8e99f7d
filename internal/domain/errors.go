package domain

import "errors"

// Sentinel errors forming the failure taxonomy surfaced at the HTTP boundary.
var (
	// ErrUnauthenticated means no valid session identity was presented.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden means the caller is authenticated but is not allowed to
	// perform the operation (e.g. mutating another account's post).
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a uniqueness constraint rejected the write
	// (duplicate email, duplicate like).
	ErrConflict = errors.New("conflict")

	// ErrInvalidCredentials is returned for every credential verification
	// failure. Unknown email, wrong password, and federated-only accounts
	// all collapse to this one error so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError reports malformed or missing input with a message safe to
// return to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
