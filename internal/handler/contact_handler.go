package handler

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contact-intake-api/internal/domain"
	"contact-intake-api/internal/response"
	"contact-intake-api/internal/service"
	"contact-intake-api/internal/validation"
)

// ContactHandler serves the public submission endpoint
type ContactHandler struct {
	intakeService *service.IntakeService
	logger        *zap.Logger
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(intakeService *service.IntakeService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		intakeService: intakeService,
		logger:        logger,
	}
}

// Submit handles POST /contact. The body is multipart/form-data: one formType
// discriminator, the variant's fields, and optional file slots.
func (h *ContactHandler) Submit(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "リクエストの形式が正しくありません")
		return
	}

	variant, ok := domain.ParseFormVariant(formValue(form, "formType"))
	if !ok {
		response.SendFieldErrors(c, http.StatusBadRequest, map[string]string{
			"formType": "お問い合わせ種別が正しくありません",
		})
		return
	}

	in := validation.Input{
		Name:             formValue(form, "name"),
		Email:            formValue(form, "email"),
		Tel:              formValue(form, "tel"),
		Message:          formValue(form, "message"),
		Company:          formValue(form, "company"),
		PropertyLocation: formValue(form, "propertyLocation"),
		PropertyType:     propertyTypes(form),
		Budget:           formValue(form, "budget"),
		Timeline:         formValue(form, "timeline"),
		Position:         formValue(form, "position"),
		Experience:       formValue(form, "experience"),
		Motivation:       formValue(form, "motivation"),
		Purpose:          formValue(form, "purpose"),
		PrivacyConsent:   formValue(form, "privacyConsent"),
	}

	files, err := readFiles(form)
	if err != nil {
		h.logger.Warn("Failed to read uploaded file", zap.Error(err))
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "ファイルの読み込みに失敗しました")
		return
	}

	sub, fieldErrors, err := h.intakeService.Submit(c.Request.Context(), variant, in, files)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	if len(fieldErrors) > 0 {
		response.SendFieldErrors(c, http.StatusBadRequest, fieldErrors)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "お問い合わせを受け付けました",
		"submissionId": sub.ID,
		"formType":     sub.FormVariant,
	})
}

func formValue(form *multipart.Form, key string) string {
	if vs := form.Value[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// propertyTypes accepts both the repeated-key convention (propertyType[]) and
// plain repeated propertyType fields.
func propertyTypes(form *multipart.Form) []string {
	if vs := form.Value["propertyType[]"]; len(vs) > 0 {
		return vs
	}
	return form.Value["propertyType"]
}

// readFiles loads every uploaded file into memory. Accepted file sizes are
// small enough that buffering is fine.
func readFiles(form *multipart.Form) ([]service.SubmitFile, error) {
	var files []service.SubmitFile
	for field, headers := range form.File {
		for _, header := range headers {
			f, err := header.Open()
			if err != nil {
				return nil, err
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return nil, err
			}
			files = append(files, service.SubmitFile{
				FieldName:   field,
				FileName:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Size:        int64(len(data)),
				Data:        data,
			})
		}
	}
	return files, nil
}
