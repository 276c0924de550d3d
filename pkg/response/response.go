package response

import (
	"errors"
	"log/slog"
	"net/http"

	"anoa.com/userdirectory/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the envelope for every failed request.
type ErrorResponse struct {
	Status    bool           `json:"status"`
	Error     string         `json:"error"`
	ExtraData map[string]any `json:"extra_data"`
}

// StatusResponse is the envelope for successful commands.
type StatusResponse struct {
	Status bool `json:"status"`
}

func OK(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{Status: true})
}

// Error writes a standardized error response
func Error(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		slog.ErrorContext(c.Request.Context(), "internal error",
			"error", err,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		c.AbortWithStatusJSON(code, ErrorResponse{
			Error: "internal server error",
			ExtraData: map[string]any{
				"type": string(apperror.KindInternal),
				"path": c.Request.URL.Path,
			},
		})
		return
	}

	extra := make(map[string]any, len(appErr.Extra)+2)
	for k, v := range appErr.Extra {
		extra[k] = v
	}
	if appErr.Kind == apperror.KindStorage {
		slog.WarnContext(c.Request.Context(), "storage error", "error", appErr.Err, "path", c.Request.URL.Path)
		extra["type"] = string(appErr.Kind)
		extra["path"] = c.Request.URL.Path
	}

	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:     appErr.Error(),
		ExtraData: extra,
	})
}
