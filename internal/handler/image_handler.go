package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contact-intake-api/internal/response"
	"contact-intake-api/internal/service"
)

// ImageHandler serves the managed website image endpoints
type ImageHandler struct {
	imageService *service.ImageService
	logger       *zap.Logger
}

// NewImageHandler creates a new ImageHandler
func NewImageHandler(imageService *service.ImageService, logger *zap.Logger) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
		logger:       logger,
	}
}

// Upload handles POST /images/:category/:name with a single "file" part
func (h *ImageHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "ファイルを指定してください")
		return
	}

	f, err := header.Open()
	if err != nil {
		h.logger.Warn("Failed to open uploaded image", zap.Error(err))
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "ファイルの読み込みに失敗しました")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.logger.Warn("Failed to read uploaded image", zap.Error(err))
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "ファイルの読み込みに失敗しました")
		return
	}

	asset, err := h.imageService.Upload(
		c.Request.Context(),
		c.Param("category"),
		c.Param("name"),
		header.Filename,
		header.Header.Get("Content-Type"),
		data,
	)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, asset)
}

// Get handles GET /images/:category/:name. The name may include or omit the
// file extension; both resolve to the same image.
func (h *ImageHandler) Get(c *gin.Context) {
	asset, err := h.imageService.Get(c.Request.Context(), c.Param("category"), c.Param("name"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, asset)
}

// List handles GET /images/:category
func (h *ImageHandler) List(c *gin.Context) {
	assets, err := h.imageService.List(c.Request.Context(), c.Param("category"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{
		"images": assets,
		"count":  len(assets),
	})
}
