// Package validation holds the per-variant field contracts for contact form
// submissions. Validation is a pure function of the input; it performs no I/O
// and must pass before any side effect happens in the intake pipeline.
package validation

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"contact-intake-api/internal/domain"
)

// Field length bounds. One canonical ruleset is applied to every entry point.
const (
	MaxNameLength       = 100
	MaxMessageLength    = 500
	MaxMotivationLength = 1000
)

// File slot limits. Sizes are inclusive: a file of exactly MaxAttachmentSize
// bytes is accepted, one byte more is rejected.
const (
	MaxAttachmentSize = 5 * 1024 * 1024
	MaxResumeSize     = 10 * 1024 * 1024
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Domestic numbers only, area code first, no separators
	telPattern = regexp.MustCompile(`^0\d{9,10}$`)
)

// Input is the raw field set extracted from a multipart form, before any
// variant-specific interpretation.
type Input struct {
	Name             string
	Email            string
	Tel              string
	Message          string
	Company          string
	PropertyLocation string
	PropertyType     []string
	Budget           string
	Timeline         string
	Position         string
	Experience       string
	Motivation       string
	Purpose          string
	PrivacyConsent   string
}

// FileRule bounds one file slot
type FileRule struct {
	MaxSize     int64
	AllowedExts []string
}

// Validate checks in against the contract for variant and returns per-field
// messages. An empty map means the input is valid.
func Validate(variant domain.FormVariant, in Input) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "名前を入力してください"
	} else if len([]rune(in.Name)) > MaxNameLength {
		errs["name"] = fmt.Sprintf("名前は%d文字以内で入力してください", MaxNameLength)
	}

	if strings.TrimSpace(in.Email) == "" {
		errs["email"] = "メールアドレスを入力してください"
	} else if !emailPattern.MatchString(in.Email) {
		errs["email"] = "有効なメールアドレスを入力してください"
	}

	if in.Tel != "" && !telPattern.MatchString(in.Tel) {
		errs["tel"] = "電話番号は市外局番から入力してください（例：0312345678）"
	}

	if !consentGiven(in.PrivacyConsent) {
		errs["privacyConsent"] = "プライバシーポリシーへの同意が必要です"
	}

	switch variant {
	case domain.VariantConsultation, domain.VariantManagement:
		if strings.TrimSpace(in.Message) == "" {
			errs["message"] = "メッセージを入力してください"
		} else if len([]rune(in.Message)) > MaxMessageLength {
			errs["message"] = fmt.Sprintf("メッセージは%d文字以内で入力してください", MaxMessageLength)
		}
		if variant == domain.VariantManagement && len(in.PropertyType) == 0 {
			errs["propertyType"] = "物件種別を1つ以上選択してください"
		}

	case domain.VariantCareer:
		if strings.TrimSpace(in.Tel) == "" {
			errs["tel"] = "電話番号を入力してください"
		}
		if strings.TrimSpace(in.Position) == "" {
			errs["position"] = "希望職種を選択してください"
		}
		if strings.TrimSpace(in.Motivation) == "" {
			errs["motivation"] = "志望動機を入力してください"
		} else if len([]rune(in.Motivation)) > MaxMotivationLength {
			errs["motivation"] = fmt.Sprintf("志望動機は%d文字以内で入力してください", MaxMotivationLength)
		}
		if in.Message != "" && len([]rune(in.Message)) > MaxMessageLength {
			errs["message"] = fmt.Sprintf("メッセージは%d文字以内で入力してください", MaxMessageLength)
		}

	case domain.VariantDownload:
		// name, email and consent only; remaining fields are optional
	}

	return errs
}

// FileRuleFor returns the rule for a file slot of the given variant, or false
// when the variant does not accept that slot at all.
func FileRuleFor(variant domain.FormVariant, field string) (FileRule, bool) {
	switch {
	case field == "attachment" && (variant == domain.VariantConsultation || variant == domain.VariantManagement):
		return FileRule{
			MaxSize:     MaxAttachmentSize,
			AllowedExts: []string{".pdf", ".jpg", ".jpeg", ".png"},
		}, true
	case field == "resume" && variant == domain.VariantCareer:
		return FileRule{
			MaxSize:     MaxResumeSize,
			AllowedExts: []string{".pdf", ".doc", ".docx"},
		}, true
	}
	return FileRule{}, false
}

// CheckFile validates one uploaded file against its slot rule. It returns a
// user-facing message, or "" when the file is acceptable.
func CheckFile(rule FileRule, fileName string, size int64) string {
	if size > rule.MaxSize {
		return fmt.Sprintf("ファイルサイズは%dMB以下にしてください", rule.MaxSize/(1024*1024))
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, allowed := range rule.AllowedExts {
		if ext == allowed {
			return ""
		}
	}
	return fmt.Sprintf("アップロード可能なファイル形式は %s です", strings.Join(rule.AllowedExts, ", "))
}

func consentGiven(v string) bool {
	switch strings.ToLower(v) {
	case "true", "on", "1", "yes":
		return true
	}
	return false
}
