package apperrors

import "net/http"

// Predefined domain errors. Messages are part of the API contract:
// clients (and the test-suite) match on them.
var (
	// ErrEmailInUse is returned by registration for a duplicate email.
	ErrEmailInUse = New(CodeConflict, "auth", "Email in use", http.StatusConflict)

	// ErrInvalidCredentials deliberately does not say whether the email
	// or the password was wrong.
	ErrInvalidCredentials = New(CodeInvalidCredentials, "auth", "Email or password is wrong", http.StatusUnauthorized)

	// ErrNotVerified is distinct from ErrInvalidCredentials: the
	// credentials were right but the email is not confirmed yet.
	ErrNotVerified = New(CodeUnauthorized, "auth", "Please verify your email", http.StatusUnauthorized)

	// ErrEmailNotFound is returned by the verification resend flow.
	ErrEmailNotFound = New(CodeUnauthorized, "auth", "Email is wrong", http.StatusUnauthorized)

	// ErrAlreadyVerified rejects a resend for a verified account.
	ErrAlreadyVerified = New(CodeNotFound, "auth", "Verification has already been passed", http.StatusNotFound)

	// ErrVerifyTokenNotFound is returned for an unknown verification token.
	ErrVerifyTokenNotFound = New(CodeNotFound, "auth", "User not found", http.StatusNotFound)

	// ErrContactNotFound covers both true absence and ownership mismatch,
	// so callers cannot probe for other users' contacts.
	ErrContactNotFound = New(CodeNotFound, "contacts", "Not found", http.StatusNotFound)

	// ErrNoFileUploaded is returned when the avatar form field is missing.
	ErrNoFileUploaded = New(CodeValidationFailed, "upload", "Avatar not uploaded", http.StatusBadRequest)
)
