package handler

import (
	"net/http"

	"anoa.com/userdirectory/internal/middleware"
	"anoa.com/userdirectory/internal/modules/auth/dto"
	authService "anoa.com/userdirectory/internal/modules/auth/service"
	userService "anoa.com/userdirectory/internal/modules/user/service"
	"anoa.com/userdirectory/pkg/apperror"
	"anoa.com/userdirectory/pkg/response"
	"anoa.com/userdirectory/pkg/validator"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService authService.AuthService
	userService userService.UserService
}

func NewAuthHandler(authService authService.AuthService, userService userService.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, validator.FromBinding(err))
		return
	}

	token, err := h.authService.Authenticate(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{Token: token})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetHeader(middleware.TokenHeader)
	if token == "" {
		response.Error(c, apperror.TokenNotProvided())
		return
	}

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c)
}

// Me requires middleware.RequireAuth.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, apperror.TokenNotProvided())
		return
	}

	res, err := h.userService.Me(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
