package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/highhandantidote/community/internal/utils"
	"github.com/highhandantidote/community/pkg/logging"
)

// httpStatus maps an application error code to its HTTP status
func httpStatus(code string) int {
	switch code {
	case utils.ErrNotFound:
		return http.StatusNotFound
	case utils.ErrForbidden:
		return http.StatusForbidden
	case utils.ErrInvalidInput:
		return http.StatusBadRequest
	case utils.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError translates a typed error into an HTTP response. Unknown
// errors are reported as internal without leaking their message.
func respondError(c *gin.Context, err error) {
	code := utils.CodeOf(err)
	status := httpStatus(code)

	message := err.Error()
	if status == http.StatusInternalServerError {
		logging.GetLogger().Error("Unhandled API error",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		code = utils.ErrDatabase
		message = "internal error"
	}

	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
