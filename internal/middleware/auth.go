package middleware

import (
	"anoa.com/userdirectory/internal/entity"
	authService "anoa.com/userdirectory/internal/modules/auth/service"
	"anoa.com/userdirectory/pkg/apperror"
	"anoa.com/userdirectory/pkg/response"
	"github.com/gin-gonic/gin"
)

const (
	TokenHeader = "X-Token"
	userKey     = "user"
)

type AuthMiddleware struct {
	auth authService.AuthService
}

func NewAuthMiddleware(auth authService.AuthService) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// RequireAuth resolves the X-Token header to a user and stores it on the
// context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(TokenHeader)
		if token == "" {
			response.Error(c, apperror.TokenNotProvided())
			return
		}

		user, err := m.auth.ResolveUser(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			response.Error(c, apperror.TokenNotProvided())
			return
		}
		if !user.IsAdmin {
			response.Error(c, apperror.NotEnoughRights())
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user stored by RequireAuth.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, exists := c.Get(userKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*entity.User)
	return user, ok && user != nil
}
