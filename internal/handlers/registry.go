package handlers

// AppHandlers bundles all HTTP handlers for route registration.
type AppHandlers struct {
	AuthHandler    *AuthHandler
	UserHandler    *UserHandler
	ContactHandler *ContactHandler
}
