// Package auth implements role and capability based access control.
//
// Every account has exactly one Role and an explicit set of granted
// capabilities. Admin is privileged and satisfies every check without
// consulting its grants; all other roles are checked against their grants
// only. IsPrivileged is the single place this bypass is defined.
//
// Guards adapt the decision functions to fiber routes:
//
//	guard := auth.NewGuard(auth.NewSessionResolver(sessions, db))
//	router.Get("/", guard.Require(auth.CapFabricView), s.list)
//	router.Delete("/:id", guard.RequireParams(s.delete, auth.CapFabricDelete))
//
// A guard refuses, in this order: requests without a valid caller (401),
// deactivated callers (403) and callers holding none of the required
// capabilities (403, listing them). Resolver failures and panics become 500.
package auth
