package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contact-intake-api/internal/domain"
)

func validInput() Input {
	return Input{
		Name:           "山田太郎",
		Email:          "taro@example.com",
		Tel:            "0312345678",
		Message:        "ご相談です。",
		PrivacyConsent: "true",
	}
}

func TestValidate_ConsultationValid(t *testing.T) {
	errs := Validate(domain.VariantConsultation, validInput())
	assert.Empty(t, errs)
}

func TestValidate_RequiredFields(t *testing.T) {
	errs := Validate(domain.VariantConsultation, Input{})
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "message")
	assert.Contains(t, errs, "privacyConsent")
}

func TestValidate_EmailFormats(t *testing.T) {
	valid := []string{"a@b.co", "user.name+tag@example.co.jp", "x@sub.domain.example"}
	invalid := []string{"plain", "missing@tld", "@nouser.com", "two@@example.com", "spa ce@example.com"}

	for _, email := range valid {
		in := validInput()
		in.Email = email
		errs := Validate(domain.VariantConsultation, in)
		assert.NotContains(t, errs, "email", "expected %q to be accepted", email)
	}
	for _, email := range invalid {
		in := validInput()
		in.Email = email
		errs := Validate(domain.VariantConsultation, in)
		assert.Contains(t, errs, "email", "expected %q to be rejected", email)
	}
}

func TestValidate_TelFormats(t *testing.T) {
	valid := []string{"0312345678", "09012345678"}
	invalid := []string{"1234567890", "03-1234-5678", "031234567890", "abc"}

	for _, tel := range valid {
		in := validInput()
		in.Tel = tel
		errs := Validate(domain.VariantConsultation, in)
		assert.NotContains(t, errs, "tel", "expected %q to be accepted", tel)
	}
	for _, tel := range invalid {
		in := validInput()
		in.Tel = tel
		errs := Validate(domain.VariantConsultation, in)
		assert.Contains(t, errs, "tel", "expected %q to be rejected", tel)
	}

	// tel is optional for consultation
	in := validInput()
	in.Tel = ""
	errs := Validate(domain.VariantConsultation, in)
	assert.NotContains(t, errs, "tel")
}

func TestValidate_NameLengthBoundary(t *testing.T) {
	in := validInput()
	in.Name = strings.Repeat("あ", MaxNameLength)
	assert.NotContains(t, Validate(domain.VariantConsultation, in), "name")

	in.Name = strings.Repeat("あ", MaxNameLength+1)
	assert.Contains(t, Validate(domain.VariantConsultation, in), "name")
}

func TestValidate_MessageLengthBoundary(t *testing.T) {
	in := validInput()
	in.Message = strings.Repeat("あ", MaxMessageLength)
	assert.NotContains(t, Validate(domain.VariantManagement, in), "message")

	in.Message = strings.Repeat("あ", MaxMessageLength+1)
	assert.Contains(t, Validate(domain.VariantManagement, in), "message")
}

func TestValidate_ManagementRequiresPropertyType(t *testing.T) {
	in := validInput()
	errs := Validate(domain.VariantManagement, in)
	assert.Contains(t, errs, "propertyType")

	in.PropertyType = []string{"町家"}
	errs = Validate(domain.VariantManagement, in)
	assert.NotContains(t, errs, "propertyType")
}

func TestValidate_CareerRequirements(t *testing.T) {
	in := Input{
		Name:           "佐藤花子",
		Email:          "hanako@example.com",
		PrivacyConsent: "true",
	}
	errs := Validate(domain.VariantCareer, in)
	assert.Contains(t, errs, "tel")
	assert.Contains(t, errs, "position")
	assert.Contains(t, errs, "motivation")

	in.Tel = "09012345678"
	in.Position = "運営スタッフ"
	in.Motivation = "志望動機です。"
	errs = Validate(domain.VariantCareer, in)
	assert.Empty(t, errs)

	in.Motivation = strings.Repeat("あ", MaxMotivationLength+1)
	errs = Validate(domain.VariantCareer, in)
	assert.Contains(t, errs, "motivation")
}

func TestValidate_DownloadMinimalFields(t *testing.T) {
	in := Input{
		Name:           "山田太郎",
		Email:          "taro@example.com",
		PrivacyConsent: "true",
	}
	errs := Validate(domain.VariantDownload, in)
	assert.Empty(t, errs)
}

func TestValidate_ConsentValues(t *testing.T) {
	accepted := []string{"true", "on", "1", "yes", "TRUE", "On"}
	rejected := []string{"", "false", "0", "no", "maybe"}

	for _, v := range accepted {
		in := validInput()
		in.PrivacyConsent = v
		assert.NotContains(t, Validate(domain.VariantConsultation, in), "privacyConsent", "value %q", v)
	}
	for _, v := range rejected {
		in := validInput()
		in.PrivacyConsent = v
		assert.Contains(t, Validate(domain.VariantConsultation, in), "privacyConsent", "value %q", v)
	}
}

func TestFileRuleFor(t *testing.T) {
	rule, ok := FileRuleFor(domain.VariantConsultation, "attachment")
	require.True(t, ok)
	assert.Equal(t, int64(MaxAttachmentSize), rule.MaxSize)

	rule, ok = FileRuleFor(domain.VariantCareer, "resume")
	require.True(t, ok)
	assert.Equal(t, int64(MaxResumeSize), rule.MaxSize)

	_, ok = FileRuleFor(domain.VariantDownload, "attachment")
	assert.False(t, ok)

	_, ok = FileRuleFor(domain.VariantConsultation, "resume")
	assert.False(t, ok)
}

func TestCheckFile(t *testing.T) {
	rule, _ := FileRuleFor(domain.VariantConsultation, "attachment")

	assert.Empty(t, CheckFile(rule, "scan.pdf", 1024))
	assert.Empty(t, CheckFile(rule, "PHOTO.JPG", 1024), "extension matching is case-insensitive")
	assert.Empty(t, CheckFile(rule, "exact.png", MaxAttachmentSize))

	assert.NotEmpty(t, CheckFile(rule, "over.pdf", MaxAttachmentSize+1))
	assert.NotEmpty(t, CheckFile(rule, "malware.exe", 10))
	assert.NotEmpty(t, CheckFile(rule, "noextension", 10))
}
