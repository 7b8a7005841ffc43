package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contact-intake-api/internal/response"
	"contact-intake-api/internal/store"
)

// handleServiceError maps service-layer errors to HTTP responses. Unknown
// errors become a generic 500; their details stay in the log only.
func handleServiceError(c *gin.Context, logger *zap.Logger, err error) {
	var appErr *response.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case response.ErrCodeValidation:
			response.SendError(c, http.StatusBadRequest, appErr.Code, appErr.Message)
		case response.ErrCodeNotFound:
			response.SendError(c, http.StatusNotFound, appErr.Code, appErr.Message)
		case response.ErrCodeUnauthorized:
			response.SendError(c, http.StatusUnauthorized, appErr.Code, appErr.Message)
		case response.ErrCodeStorage:
			logger.Error("Storage dependency failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			response.SendError(c, http.StatusInternalServerError, appErr.Code, appErr.Message)
		default:
			logger.Error("Unhandled application error", zap.String("path", c.Request.URL.Path), zap.Error(err))
			response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, "サーバーエラーが発生しました")
		}
		return
	}

	if errors.Is(err, store.ErrNotFound) {
		response.SendError(c, http.StatusNotFound, response.ErrCodeNotFound, "指定されたお問い合わせが見つかりません")
		return
	}

	logger.Error("Unexpected error", zap.String("path", c.Request.URL.Path), zap.Error(err))
	response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, "サーバーエラーが発生しました")
}
