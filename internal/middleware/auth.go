package middleware

import (
	"errors"
	"net/http"
	"strings"

	"phonebook_backend/internal/auth"
	"phonebook_backend/internal/logger"
	"phonebook_backend/internal/models"
	"phonebook_backend/internal/repositories"
	"phonebook_backend/pkg/apperrors"
	"phonebook_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const userKey = string(contextkeys.UserContextKey)

// AuthMiddleware is the single authentication point for protected
// routes: it resolves the bearer token to a full user record and
// attaches it to the context, or aborts with 401 before any handler
// logic runs. The stored session token must match the presented one, so
// logout and re-login invalidate older tokens.
func AuthMiddleware(tokens *auth.TokenManager, userRepo repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, "Not authorized")
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.Parse(tokenStr)
		if err != nil {
			abortUnauthorized(c, "Not authorized")
			return
		}

		db, ok := c.Get(string(contextkeys.DBContextKey))
		if !ok {
			apperrors.HandleError(c, apperrors.InternalError(errors.New("db handle missing from request context")))
			c.Abort()
			return
		}

		user, err := userRepo.FindByID(db.(*gorm.DB), claims.UserID)
		if err != nil {
			abortUnauthorized(c, "Not authorized")
			return
		}

		if user.Token != tokenStr {
			abortUnauthorized(c, "Not authorized")
			return
		}

		c.Set(userKey, user)
		ctx := logger.WithUserID(c.Request.Context(), user.ID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// CurrentUser returns the user attached by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	val, exists := c.Get(userKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, apperrors.ErrorResponse{
		Error: apperrors.NewUnauthorizedError(message),
	})
}
