package routes

import (
	"phonebook_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the whole HTTP surface. Routes live at the
// root, per the public API contract; authMiddleware is the single
// authentication point for the protected group.
func RegisterRoutes(
	router *gin.Engine,
	appHandlers *handlers.AppHandlers,
	authMiddleware gin.HandlerFunc,
	avatarDir string,
) {
	public := router.Group("")
	{
		appHandlers.AuthHandler.RegisterPublicRoutes(public)
	}

	protected := router.Group("")
	protected.Use(authMiddleware)
	{
		appHandlers.AuthHandler.RegisterProtectedRoutes(protected)
		appHandlers.UserHandler.RegisterProtectedRoutes(protected)
		appHandlers.ContactHandler.RegisterProtectedRoutes(protected)
	}

	// Processed avatars are public, immutable files.
	router.Static("/avatars", avatarDir)
}
