package handler

import (
	"net/http"

	"anoa.com/userdirectory/internal/middleware"
	"anoa.com/userdirectory/internal/modules/user/dto"
	userService "anoa.com/userdirectory/internal/modules/user/service"
	"anoa.com/userdirectory/pkg/apperror"
	"anoa.com/userdirectory/pkg/response"
	"anoa.com/userdirectory/pkg/validator"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService userService.UserService
}

func NewUserHandler(userService userService.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) List(c *gin.Context) {
	res, err := h.userService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *UserHandler) Get(c *gin.Context) {
	var query dto.UserIDQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, validator.FromBinding(err))
		return
	}

	res, err := h.userService.Get(c.Request.Context(), query.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *UserHandler) Create(c *gin.Context) {
	creator, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, apperror.TokenNotProvided())
		return
	}

	var input dto.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, validator.FromBinding(err))
		return
	}

	id, err := h.userService.Create(c.Request.Context(), input, creator.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CreateUserResponse{Status: true, UserID: id})
}

func (h *UserHandler) Delete(c *gin.Context) {
	var query dto.UserIDQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, validator.FromBinding(err))
		return
	}

	if err := h.userService.Delete(c.Request.Context(), query.UserID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c)
}

// Replace overwrites the whole record; see dto.ReplaceUserInput.
func (h *UserHandler) Replace(c *gin.Context) {
	var query dto.UserIDQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, validator.FromBinding(err))
		return
	}

	var input dto.ReplaceUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, validator.FromBinding(err))
		return
	}

	if err := h.userService.Replace(c.Request.Context(), query.UserID, input); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c)
}

func (h *UserHandler) Patch(c *gin.Context) {
	var query dto.UserIDQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, validator.FromBinding(err))
		return
	}

	var input dto.PatchUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, validator.FromBinding(err))
		return
	}

	if err := h.userService.Update(c.Request.Context(), query.UserID, input); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c)
}

func (h *UserHandler) GroupByMinutes(c *gin.Context) {
	var query dto.GroupByMinutesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, validator.FromBinding(err))
		return
	}

	buckets, err := h.userService.CountByMinute(c.Request.Context(), query.Day, *query.Hour)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toCounts(buckets))
}

func (h *UserHandler) GroupByHours(c *gin.Context) {
	var query dto.GroupByHoursQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, validator.FromBinding(err))
		return
	}

	buckets, err := h.userService.CountByHour(c.Request.Context(), query.Day)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toCounts(buckets))
}

// toCounts flattens buckets into a label map. encoding/json sorts map keys,
// and zero-padded labels sort chronologically.
func toCounts(buckets []dto.TimeBucket) map[string]int64 {
	counts := make(map[string]int64, len(buckets))
	for _, b := range buckets {
		counts[b.Label] = b.Count
	}
	return counts
}
