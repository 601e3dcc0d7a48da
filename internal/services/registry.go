package services

// ServiceContainer bundles all services for wiring in internal/app.
type ServiceContainer struct {
	AuthService    AuthService
	UserService    UserService
	ContactService ContactService
}
