package handler

import (
	"net/http"

	statService "anoa.com/userdirectory/internal/modules/stat/service"
	"anoa.com/userdirectory/pkg/response"
	"github.com/gin-gonic/gin"
)

type TotalUsersResponse struct {
	TotalUsers int64 `json:"total_users"`
}

type StatHandler struct {
	statService statService.StatService
}

func NewStatHandler(statService statService.StatService) *StatHandler {
	return &StatHandler{statService: statService}
}

func (h *StatHandler) GetTotalUsers(c *gin.Context) {
	count, err := h.statService.GetTotalUsers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, TotalUsersResponse{TotalUsers: count})
}
