package auth

import (
	"errors"
	"net/http"
)

var (
	// ErrAuthenticationRequired is returned when no valid caller can be resolved for a request.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrAccountDeactivated is returned when the caller authenticated but the account is deactivated.
	ErrAccountDeactivated = errors.New("account is deactivated")

	// ErrInsufficientPermissions is returned when the caller holds none of the required capabilities.
	ErrInsufficientPermissions = errors.New("insufficient permissions")

	// ErrAdminRequired is returned when a route is restricted to the Admin role.
	ErrAdminRequired = errors.New("admin access required")

	// ErrEscalation is returned when a caller changes granted capabilities without user:manage_permissions.
	ErrEscalation = errors.New("insufficient permissions to update user permissions")

	// ErrSelfAction is returned when a caller attempts to delete their own account.
	ErrSelfAction = errors.New("cannot delete own account")

	// ErrInternal is returned for unexpected failures while resolving or evaluating a caller.
	// The underlying cause is logged and never sent to the client.
	ErrInternal = errors.New("internal authorization error")

	// ErrUserNotFound is returned when no account matches the sign-in mobile number.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAccountDisabled is returned when a deactivated account tries to sign in.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrInvalidPassword is returned when the sign-in password does not match.
	ErrInvalidPassword = errors.New("invalid password")
)

type boundary struct {
	status  int
	message string
}

var boundaries = []struct {
	err error
	boundary
}{
	{ErrAuthenticationRequired, boundary{http.StatusUnauthorized, "Unauthorized: Authentication required"}},
	{ErrAccountDeactivated, boundary{http.StatusForbidden, "Unauthorized: Account is deactivated"}},
	{ErrInsufficientPermissions, boundary{http.StatusForbidden, "Forbidden: Insufficient permissions"}},
	{ErrAdminRequired, boundary{http.StatusForbidden, "Forbidden: Admin access required"}},
	{ErrEscalation, boundary{http.StatusForbidden, "Insufficient permissions to update user permissions"}},
	{ErrSelfAction, boundary{http.StatusBadRequest, "You cannot delete your own account"}},
	{ErrUserNotFound, boundary{http.StatusUnauthorized, "No user found with this mobile number"}},
	{ErrUserAccountDisabled, boundary{http.StatusForbidden, "Your account has been deactivated"}},
	{ErrInvalidPassword, boundary{http.StatusUnauthorized, "Incorrect password"}},
}

var internalBoundary = boundary{http.StatusInternalServerError, "Internal server error during authorization"}

func lookup(err error) boundary {
	for _, b := range boundaries {
		if errors.Is(err, b.err) {
			return b.boundary
		}
	}

	return internalBoundary
}

// StatusCode maps an authorization error to its HTTP status.
// Errors outside the taxonomy map to 500.
func StatusCode(err error) int {
	return lookup(err).status
}

// Message maps an authorization error to the message shown to the client.
// Errors outside the taxonomy map to the generic internal message.
func Message(err error) string {
	return lookup(err).message
}
