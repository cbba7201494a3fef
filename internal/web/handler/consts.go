package handler

const (
	// APIPath is the prefix of all JSON routes.
	APIPath = "/api"

	// RootPath is the root path the route group.
	RootPath = "/"

	// IDPath is the path of a single resource below a route group.
	IDPath = "/:id"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg, db or guard is nil"
)
