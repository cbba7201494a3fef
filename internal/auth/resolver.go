package auth

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/fabricstock/fabricstock/internal/db/controller/account"
	"github.com/fabricstock/fabricstock/internal/web/session"
)

// SessionResolver resolves callers from the session cookie.
// The account is reloaded on every request, so role, grant and deactivation
// changes apply from the next request on.
type SessionResolver struct {
	sessions *session.Store
	db       *gorm.DB
}

// NewSessionResolver creates a resolver on a session store and the account table.
func NewSessionResolver(sessions *session.Store, db *gorm.DB) *SessionResolver {
	return &SessionResolver{sessions: sessions, db: db}
}

// ResolveCaller implements CallerResolver.
func (r *SessionResolver) ResolveCaller(c *fiber.Ctx) (*Caller, error) {
	data, err := r.sessions.Load(c)
	if errors.Is(err, session.ErrNoSession) {
		return nil, ErrAuthenticationRequired
	}

	if err != nil {
		return nil, err
	}

	a, err := account.GetByID(r.db.WithContext(c.UserContext()), data.AccountID)
	if errors.Is(err, account.ErrAccountNotFound) {
		// the account was deleted after sign-in
		return nil, ErrAuthenticationRequired
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load session account: %w", err)
	}

	return CallerFromAccount(a)
}
