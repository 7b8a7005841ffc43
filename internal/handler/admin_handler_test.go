package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"contact-intake-api/internal/client"
	"contact-intake-api/internal/domain"
)

func seedSubmission(t *testing.T, st *memStore, id string) {
	t.Helper()
	sub := &domain.Submission{
		ID:          id,
		FormVariant: domain.VariantConsultation,
		Name:        "山田太郎",
		Email:       "taro@example.com",
		SubmittedAt: time.Now().UTC(),
		Status:      domain.StatusNew,
		Attachments: []domain.Attachment{
			{
				FieldName:   "attachment",
				FileName:    "doc.pdf",
				FilePath:    "contact/" + id + "/attachment_1.pdf",
				FileSize:    128,
				ContentType: "application/pdf",
			},
		},
	}
	require.NoError(t, st.Save(context.Background(), sub))
	require.NoError(t, st.PrependIndex(context.Background(), id))
}

func setupAdminRouter(st *memStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAdminHandler(newTestIntakeService(st, client.NewMockS3Client()), zap.NewNop())
	r.GET("/contact/submissions", h.ListSubmissions)
	r.GET("/contact/submission/:id", h.GetSubmission)
	return r
}

func TestListSubmissions_SanitizedOutput(t *testing.T) {
	st := newMemStore()
	seedSubmission(t, st, "contact_1_aaa")
	seedSubmission(t, st, "contact_2_bbb")
	r := setupAdminRouter(st)

	req := httptest.NewRequest(http.MethodGet, "/contact/submissions", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success     bool  `json:"success"`
		Count       int   `json:"count"`
		Total       int64 `json:"total"`
		Submissions []struct {
			ID          string `json:"id"`
			Attachments []struct {
				FileName    string `json:"fileName"`
				FilePath    string `json:"filePath"`
				DownloadURL string `json:"downloadUrl"`
			} `json:"attachments"`
		} `json:"submissions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, int64(2), resp.Total)

	// Newest first
	assert.Equal(t, "contact_2_bbb", resp.Submissions[0].ID)
	assert.Equal(t, "contact_1_aaa", resp.Submissions[1].ID)

	for _, sub := range resp.Submissions {
		for _, att := range sub.Attachments {
			assert.NotEmpty(t, att.FileName)
			assert.Empty(t, att.FilePath, "storage keys must not leak into list views")
			assert.Empty(t, att.DownloadURL)
		}
	}
}

func TestGetSubmission_DetailWithSignedURL(t *testing.T) {
	st := newMemStore()
	seedSubmission(t, st, "contact_1_aaa")
	r := setupAdminRouter(st)

	req := httptest.NewRequest(http.MethodGet, "/contact/submission/contact_1_aaa", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Submission struct {
			ID          string `json:"id"`
			Attachments []struct {
				DownloadURL string `json:"downloadUrl"`
			} `json:"attachments"`
		} `json:"submission"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "contact_1_aaa", resp.Submission.ID)
	require.Len(t, resp.Submission.Attachments, 1)
	assert.Contains(t, resp.Submission.Attachments[0].DownloadURL, "signed=true")
}

func TestGetSubmission_NotFound(t *testing.T) {
	st := newMemStore()
	r := setupAdminRouter(st)

	req := httptest.NewRequest(http.MethodGet, "/contact/submission/contact_9_zzz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Code    string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "NOT_FOUND", resp.Code)
}
