package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"contact-intake-api/internal/client"
	"contact-intake-api/internal/config"
	"contact-intake-api/internal/domain"
	"contact-intake-api/internal/metrics"
	"contact-intake-api/internal/response"
	"contact-intake-api/internal/store"
	"contact-intake-api/internal/validation"
)

// SubmitFile is one uploaded file extracted from the multipart request
type SubmitFile struct {
	FieldName   string
	FileName    string
	ContentType string
	Size        int64
	Data        []byte
}

// IntakeService orchestrates the contact submission pipeline. It is the only
// component allowed to cause side effects (blob writes, record writes, email)
// as a result of a form submission.
type IntakeService struct {
	store       store.SubmissionStore
	s3Client    client.S3ClientInterface
	emailClient client.EmailClient
	chatClient  client.ChatClient
	emailCfg    config.EmailConfig
	intakeCfg   config.IntakeConfig
	logger      *zap.Logger
	metrics     *metrics.Metrics

	renderNotification func(*domain.Submission) (string, error)
	renderAutoReply    func(name string) (string, error)
}

// NewIntakeService creates a new IntakeService
func NewIntakeService(
	submissionStore store.SubmissionStore,
	s3Client client.S3ClientInterface,
	emailClient client.EmailClient,
	chatClient client.ChatClient,
	emailCfg config.EmailConfig,
	intakeCfg config.IntakeConfig,
	logger *zap.Logger,
	m *metrics.Metrics,
) *IntakeService {
	return &IntakeService{
		store:       submissionStore,
		s3Client:    s3Client,
		emailClient: emailClient,
		chatClient:  chatClient,
		emailCfg:    emailCfg,
		intakeCfg:   intakeCfg,
		logger:      logger,
		metrics:     m,

		renderNotification: renderNotificationEmail,
		renderAutoReply:    renderAutoReplyEmail,
	}
}

// Submit runs the full intake pipeline for one form submission. A non-empty
// fieldErrors map means the input was rejected before any side effect; err is
// only non-nil for dependency failures after validation passed. Notification
// failures never surface here: once the record is durably stored the
// submission has succeeded.
func (s *IntakeService) Submit(ctx context.Context, variant domain.FormVariant, in validation.Input, files []SubmitFile) (*domain.Submission, map[string]string, error) {
	// Step 1: validate everything, fields and files, before any I/O.
	fieldErrors := validation.Validate(variant, in)

	accepted := make([]SubmitFile, 0, len(files))
	for _, f := range files {
		if f.Size == 0 {
			continue
		}
		rule, ok := validation.FileRuleFor(variant, f.FieldName)
		if !ok {
			fieldErrors[f.FieldName] = "このフォームではファイルを添付できません"
			continue
		}
		if msg := validation.CheckFile(rule, f.FileName, f.Size); msg != "" {
			fieldErrors[f.FieldName] = msg
			continue
		}
		accepted = append(accepted, f)
	}

	if len(fieldErrors) > 0 {
		if s.metrics != nil {
			s.metrics.IncrementValidationFailures(string(variant))
		}
		return nil, fieldErrors, nil
	}

	submissionID := generateSubmissionID()

	// Step 2: upload accepted files. A failure here aborts the pipeline;
	// blobs already written stay behind and the cleanup job reclaims them.
	attachments := make([]domain.Attachment, 0, len(accepted))
	for i, f := range accepted {
		key := client.ContactFileKey(submissionID, f.FieldName, i, f.FileName)
		if err := s.s3Client.UploadFile(ctx, key, bytes.NewReader(f.Data), f.ContentType); err != nil {
			s.logger.Error("Failed to upload attachment",
				zap.String("submission_id", submissionID),
				zap.String("field", f.FieldName),
				zap.Error(err),
			)
			return nil, nil, response.NewStorageError("ファイルのアップロードに失敗しました", err)
		}
		attachments = append(attachments, domain.Attachment{
			FieldName:   f.FieldName,
			FileName:    f.FileName,
			FilePath:    key,
			FileSize:    f.Size,
			ContentType: f.ContentType,
		})
	}

	// Step 3: persist the record, then the index. The record is written
	// first so the index never references a missing record.
	sub := buildSubmission(submissionID, variant, in, attachments)
	if err := s.store.Save(ctx, sub); err != nil {
		s.logger.Error("Failed to store submission",
			zap.String("submission_id", submissionID),
			zap.Error(err),
		)
		return nil, nil, response.NewStorageError("お問い合わせの保存に失敗しました", err)
	}
	if err := s.store.PrependIndex(ctx, submissionID); err != nil {
		s.logger.Error("Failed to update submission index",
			zap.String("submission_id", submissionID),
			zap.Error(err),
		)
		return nil, nil, response.NewStorageError("お問い合わせの保存に失敗しました", err)
	}

	s.logger.Info("Contact form submission saved",
		zap.String("submission_id", submissionID),
		zap.String("form_type", string(variant)),
		zap.Int("attachments", len(attachments)),
	)

	// Step 4: notifications. Best-effort from here on; the record is the
	// source of truth and is already durable.
	s.sendNotifications(ctx, sub)

	if s.metrics != nil {
		s.metrics.IncrementSubmissions(string(variant))
	}

	return sub, nil, nil
}

// ListSubmissions loads up to limit most-recent records, sanitized for list
// views: attachment storage keys and URLs are stripped, only display metadata
// remains. total is the full index length, which can exceed the page.
func (s *IntakeService) ListSubmissions(ctx context.Context, limit int) ([]domain.Submission, int64, error) {
	if limit <= 0 || limit > s.intakeCfg.ListLimit {
		limit = s.intakeCfg.ListLimit
	}

	ids, err := s.store.RecentIDs(ctx, limit)
	if err != nil {
		return nil, 0, response.NewStorageError("お問い合わせデータの取得に失敗しました", err)
	}
	total, err := s.store.IndexLength(ctx)
	if err != nil {
		return nil, 0, response.NewStorageError("お問い合わせデータの取得に失敗しました", err)
	}

	submissions := make([]domain.Submission, 0, len(ids))
	for _, id := range ids {
		sub, err := s.store.Get(ctx, id)
		if err != nil {
			// Index entries always have a record; tolerate a missing one
			// rather than failing the whole listing.
			s.logger.Warn("Failed to load indexed submission",
				zap.String("submission_id", id),
				zap.Error(err),
			)
			continue
		}
		submissions = append(submissions, sub.Sanitized())
	}

	return submissions, total, nil
}

// GetSubmissionDetail loads one record and mints a fresh signed download URL
// per attachment. URLs are transient: they are never written back to the
// store, so a stale URL is never reused.
func (s *IntakeService) GetSubmissionDetail(ctx context.Context, id string) (*domain.Submission, error) {
	sub, err := s.store.Get(ctx, id)
	if err == store.ErrNotFound {
		return nil, response.NewNotFoundError("指定されたお問い合わせが見つかりません")
	}
	if err != nil {
		return nil, response.NewStorageError("お問い合わせ詳細の取得に失敗しました", err)
	}

	for i := range sub.Attachments {
		url, err := s.s3Client.GeneratePresignedDownloadURL(ctx, sub.Attachments[i].FilePath, s.intakeCfg.SignedURLTTL)
		if err != nil {
			s.logger.Warn("Failed to generate signed URL",
				zap.String("submission_id", id),
				zap.String("file_path", sub.Attachments[i].FilePath),
				zap.Error(err),
			)
			continue
		}
		sub.Attachments[i].DownloadURL = url
	}

	return sub, nil
}

// sendNotifications composes and sends the internal notification email (with
// attachment bytes fetched back from the blob store), the applicant
// auto-reply, and the career chat message. Every failure is logged and
// counted but never propagated.
func (s *IntakeService) sendNotifications(ctx context.Context, sub *domain.Submission) {
	html, err := s.renderNotification(sub)
	if err != nil {
		s.logger.Error("Failed to render notification email",
			zap.String("submission_id", sub.ID),
			zap.Error(err),
		)
		if s.metrics != nil {
			s.metrics.IncrementNotificationFailures("email")
		}
	} else {
		subject := fmt.Sprintf("【WisteriaForest】新しいお問い合わせ - %s (%s様)", sub.FormVariant.DisplayName(), sub.Name)
		emailAttachments := s.collectEmailAttachments(ctx, sub)

		if err := s.emailClient.Send(ctx, s.emailCfg.NotificationEmail, subject, html, emailAttachments); err != nil {
			s.logger.Warn("Notification email failed, submission already stored",
				zap.String("submission_id", sub.ID),
				zap.Error(err),
			)
			if s.metrics != nil {
				s.metrics.IncrementNotificationFailures("email")
			}
		}
	}

	autoReply, err := s.renderAutoReply(sub.Name)
	if err != nil {
		s.logger.Error("Failed to render auto-reply email",
			zap.String("submission_id", sub.ID),
			zap.Error(err),
		)
		if s.metrics != nil {
			s.metrics.IncrementNotificationFailures("email")
		}
	} else if err := s.emailClient.Send(ctx, sub.Email, "お問い合わせありがとうございます - WisteriaForest", autoReply, nil); err != nil {
		s.logger.Warn("Auto-reply email failed",
			zap.String("submission_id", sub.ID),
			zap.Error(err),
		)
		if s.metrics != nil {
			s.metrics.IncrementNotificationFailures("email")
		}
	}

	if sub.FormVariant == domain.VariantCareer {
		if err := s.chatClient.NotifyCareerEntry(ctx, sub.Name, sub.Position, sub.Email); err != nil {
			s.logger.Warn("Career chat notification failed",
				zap.String("submission_id", sub.ID),
				zap.Error(err),
			)
			if s.metrics != nil {
				s.metrics.IncrementNotificationFailures("chat")
			}
		}
	}
}

// collectEmailAttachments re-downloads each attachment and base64-encodes it
// for the email API. A file that cannot be fetched is skipped; the email
// still lists its metadata.
func (s *IntakeService) collectEmailAttachments(ctx context.Context, sub *domain.Submission) []client.EmailAttachment {
	var out []client.EmailAttachment
	for _, att := range sub.Attachments {
		data, err := s.s3Client.DownloadFile(ctx, att.FilePath)
		if err != nil {
			s.logger.Warn("Failed to download attachment for email",
				zap.String("submission_id", sub.ID),
				zap.String("file_path", att.FilePath),
				zap.Error(err),
			)
			continue
		}
		out = append(out, client.EmailAttachment{
			Filename: att.FileName,
			Content:  base64.StdEncoding.EncodeToString(data),
			Type:     inferMIMEType(att.FileName, att.ContentType),
		})
	}
	return out
}

func buildSubmission(id string, variant domain.FormVariant, in validation.Input, attachments []domain.Attachment) *domain.Submission {
	sub := &domain.Submission{
		ID:          id,
		FormVariant: variant,
		Name:        in.Name,
		Email:       in.Email,
		Tel:         in.Tel,
		Message:     in.Message,
		SubmittedAt: time.Now().UTC(),
		Status:      domain.StatusNew,
		Attachments: attachments,
	}

	switch variant {
	case domain.VariantConsultation, domain.VariantManagement:
		sub.Company = in.Company
		sub.PropertyLocation = in.PropertyLocation
		sub.PropertyType = in.PropertyType
		sub.Budget = in.Budget
		sub.Timeline = in.Timeline
	case domain.VariantCareer:
		sub.Position = in.Position
		sub.Experience = in.Experience
		sub.Motivation = in.Motivation
	case domain.VariantDownload:
		sub.Company = in.Company
		sub.Position = in.Position
		sub.Purpose = in.Purpose
	}

	return sub
}

// generateSubmissionID builds an id unique with overwhelming probability.
// Ids are not sequential, so no coordination between invocations is needed.
func generateSubmissionID() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
	return fmt.Sprintf("contact_%d_%s", time.Now().UnixMilli(), suffix)
}

// inferMIMEType prefers the stored content type and falls back to the file
// extension when the client sent nothing useful.
func inferMIMEType(fileName, storedType string) string {
	if storedType != "" && storedType != "application/octet-stream" {
		return storedType
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
