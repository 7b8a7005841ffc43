package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contact-intake-api/internal/domain"
)

func TestRenderNotificationEmail_ConsultationFields(t *testing.T) {
	sub := &domain.Submission{
		ID:               "contact_1_abc",
		FormVariant:      domain.VariantConsultation,
		Name:             "山田太郎",
		Email:            "taro@example.com",
		Tel:              "0312345678",
		Message:          "運用のご相談です。",
		Company:          "株式会社サンプル",
		PropertyLocation: "京都市",
		PropertyType:     []string{"町家", "マンション"},
		Budget:           "500万円",
		SubmittedAt:      time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	html, err := renderNotificationEmail(sub)
	require.NoError(t, err)

	assert.Contains(t, html, "事業に関するご相談")
	assert.Contains(t, html, "山田太郎")
	assert.Contains(t, html, "taro@example.com")
	assert.Contains(t, html, "株式会社サンプル")
	assert.Contains(t, html, "京都市")
	assert.Contains(t, html, "町家、マンション")
	assert.Contains(t, html, "運用のご相談です。")
}

func TestRenderNotificationEmail_CareerFields(t *testing.T) {
	sub := &domain.Submission{
		ID:          "contact_2_def",
		FormVariant: domain.VariantCareer,
		Name:        "佐藤花子",
		Email:       "hanako@example.com",
		Tel:         "09012345678",
		Position:    "運営スタッフ",
		Motivation:  "御社の事業に魅力を感じました。",
		SubmittedAt: time.Now(),
		Attachments: []domain.Attachment{
			{FieldName: "resume", FileName: "resume.pdf", ContentType: "application/pdf"},
		},
	}

	html, err := renderNotificationEmail(sub)
	require.NoError(t, err)

	assert.Contains(t, html, "採用エントリー")
	assert.Contains(t, html, "運営スタッフ")
	assert.Contains(t, html, "御社の事業に魅力を感じました。")
	assert.Contains(t, html, "resume.pdf")
}

func TestRenderNotificationEmail_EscapesUserInput(t *testing.T) {
	sub := &domain.Submission{
		ID:          "contact_3_ghi",
		FormVariant: domain.VariantDownload,
		Name:        `<script>alert("x")</script>`,
		Email:       "x@example.com",
		SubmittedAt: time.Now(),
	}

	html, err := renderNotificationEmail(sub)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>alert")
}

func TestRenderAutoReplyEmail(t *testing.T) {
	html, err := renderAutoReplyEmail("山田太郎")
	require.NoError(t, err)
	assert.Contains(t, html, "山田太郎 様")
	assert.Contains(t, html, "お問い合わせありがとうございます")
}
