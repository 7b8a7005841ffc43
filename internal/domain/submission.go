package domain

import "time"

// FormVariant identifies which of the mutually-exclusive form shapes a
// submission was made through. It is fixed at creation and never changes.
type FormVariant string

const (
	VariantConsultation FormVariant = "consultation"
	VariantManagement   FormVariant = "management"
	VariantCareer       FormVariant = "career"
	VariantDownload     FormVariant = "download"
)

// ParseFormVariant validates a raw formType value
func ParseFormVariant(s string) (FormVariant, bool) {
	switch FormVariant(s) {
	case VariantConsultation, VariantManagement, VariantCareer, VariantDownload:
		return FormVariant(s), true
	}
	return "", false
}

// DisplayName returns the Japanese label used in notification subjects
func (v FormVariant) DisplayName() string {
	switch v {
	case VariantConsultation:
		return "事業に関するご相談"
	case VariantManagement:
		return "運営受託のご相談"
	case VariantCareer:
		return "採用エントリー"
	case VariantDownload:
		return "資料ダウンロード"
	}
	return string(v)
}

// SubmissionStatus is a free-text lifecycle tag. Records are created with
// StatusNew and no automated transition exists.
const StatusNew = "new"

// Attachment is one uploaded file tied to a submission. FilePath is the blob
// store key, namespaced under the owning submission id. DownloadURL is never
// persisted; it is minted on demand for detail views only.
type Attachment struct {
	FieldName   string `json:"fieldName"`
	FileName    string `json:"fileName"`
	FilePath    string `json:"filePath,omitempty"`
	FileSize    int64  `json:"fileSize"`
	ContentType string `json:"contentType"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}

// Submission is the persisted unit of work. Variant-specific fields are
// meaningful only for the matching FormVariant and omitted otherwise.
type Submission struct {
	ID          string      `json:"id"`
	FormVariant FormVariant `json:"formType"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Tel         string      `json:"tel,omitempty"`
	Message     string      `json:"message,omitempty"`
	SubmittedAt time.Time   `json:"submittedAt"`
	Status      string      `json:"status"`

	// consultation / management
	Company          string   `json:"company,omitempty"`
	PropertyLocation string   `json:"propertyLocation,omitempty"`
	PropertyType     []string `json:"propertyType,omitempty"`
	Budget           string   `json:"budget,omitempty"`
	Timeline         string   `json:"timeline,omitempty"`

	// career
	Position   string `json:"position,omitempty"`
	Experience string `json:"experience,omitempty"`
	Motivation string `json:"motivation,omitempty"`

	// download
	Purpose string `json:"purpose,omitempty"`

	Attachments []Attachment `json:"attachments"`
}

// Sanitized returns a copy with attachment storage keys and URLs stripped,
// leaving only display metadata. Used for list views.
func (s Submission) Sanitized() Submission {
	out := s
	out.Attachments = make([]Attachment, len(s.Attachments))
	for i, att := range s.Attachments {
		out.Attachments[i] = Attachment{
			FieldName:   att.FieldName,
			FileName:    att.FileName,
			FileSize:    att.FileSize,
			ContentType: att.ContentType,
		}
	}
	return out
}
