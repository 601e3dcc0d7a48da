package contextkeys

type contextKey string

const (
	// DBContextKey carries the per-request *gorm.DB handle (the shared
	// pool, or a transaction injected by tests).
	DBContextKey contextKey = "db"

	// UserContextKey carries the authenticated *models.User resolved by
	// the auth middleware.
	UserContextKey contextKey = "currentUser"
)
