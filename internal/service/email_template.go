package service

import (
	"bytes"
	"fmt"
	"html/template"

	"contact-intake-api/internal/domain"
)

// notificationRow is one label/value line in the notification email table
type notificationRow struct {
	Label string
	Value string
}

type notificationData struct {
	VariantName string
	SubmittedAt string
	Rows        []notificationRow
	Message     string
	Attachments []domain.Attachment
}

var notificationTmpl = template.Must(template.New("notification").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: 'Hiragino Sans', 'Meiryo', sans-serif; color: #333; margin: 0; padding: 20px; background-color: #f5f5f5;">
  <div style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; overflow: hidden;">
    <div style="background-color: #2c5f2d; color: #ffffff; padding: 20px 30px;">
      <h1 style="margin: 0; font-size: 18px;">新しいお問い合わせが届きました</h1>
      <p style="margin: 8px 0 0; font-size: 14px;">種別: {{.VariantName}}</p>
    </div>
    <div style="padding: 30px;">
      <table style="width: 100%; border-collapse: collapse;">
        {{- range .Rows}}
        <tr>
          <td style="padding: 10px 12px; border-bottom: 1px solid #e0e0e0; font-weight: bold; width: 140px; vertical-align: top;">{{.Label}}</td>
          <td style="padding: 10px 12px; border-bottom: 1px solid #e0e0e0;">{{.Value}}</td>
        </tr>
        {{- end}}
      </table>
      {{- if .Message}}
      <div style="margin-top: 20px;">
        <p style="font-weight: bold; margin: 0 0 8px;">お問い合わせ内容</p>
        <div style="background-color: #f8f8f8; border-radius: 4px; padding: 16px; white-space: pre-wrap;">{{.Message}}</div>
      </div>
      {{- end}}
      {{- if .Attachments}}
      <div style="margin-top: 20px;">
        <p style="font-weight: bold; margin: 0 0 8px;">添付ファイル</p>
        <ul style="margin: 0; padding-left: 20px;">
          {{- range .Attachments}}
          <li>{{.FileName}} ({{.ContentType}})</li>
          {{- end}}
        </ul>
      </div>
      {{- end}}
      <p style="margin-top: 24px; font-size: 12px; color: #888;">受信日時: {{.SubmittedAt}}</p>
    </div>
  </div>
</body>
</html>`))

var autoReplyTmpl = template.Must(template.New("autoReply").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: 'Hiragino Sans', 'Meiryo', sans-serif; color: #333; margin: 0; padding: 20px; background-color: #f5f5f5;">
  <div style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; overflow: hidden;">
    <div style="background-color: #2c5f2d; color: #ffffff; padding: 20px 30px;">
      <h1 style="margin: 0; font-size: 18px;">お問い合わせありがとうございます</h1>
    </div>
    <div style="padding: 30px; line-height: 1.8;">
      <p>{{.Name}} 様</p>
      <p>この度はWisteriaForestへお問い合わせいただき、誠にありがとうございます。</p>
      <p>内容を確認のうえ、担当者より2営業日以内にご連絡いたします。<br>
      今しばらくお待ちくださいますようお願い申し上げます。</p>
      <p style="margin-top: 24px; font-size: 12px; color: #888;">※ このメールは自動送信されています。本メールへの返信には回答できません。</p>
    </div>
  </div>
</body>
</html>`))

// renderNotificationEmail builds the internal notification email body. Every
// value comes from user input and is escaped by html/template.
func renderNotificationEmail(sub *domain.Submission) (string, error) {
	data := notificationData{
		VariantName: sub.FormVariant.DisplayName(),
		SubmittedAt: sub.SubmittedAt.Format("2006-01-02 15:04:05 MST"),
		Message:     sub.Message,
		Attachments: sub.Attachments,
	}

	data.Rows = append(data.Rows,
		notificationRow{Label: "お名前", Value: sub.Name},
		notificationRow{Label: "メールアドレス", Value: sub.Email},
	)
	if sub.Tel != "" {
		data.Rows = append(data.Rows, notificationRow{Label: "電話番号", Value: sub.Tel})
	}

	switch sub.FormVariant {
	case domain.VariantConsultation, domain.VariantManagement:
		appendRow(&data.Rows, "会社名", sub.Company)
		appendRow(&data.Rows, "物件所在地", sub.PropertyLocation)
		if len(sub.PropertyType) > 0 {
			appendRow(&data.Rows, "物件種別", joinValues(sub.PropertyType))
		}
		appendRow(&data.Rows, "ご予算", sub.Budget)
		appendRow(&data.Rows, "希望時期", sub.Timeline)
	case domain.VariantCareer:
		appendRow(&data.Rows, "希望職種", sub.Position)
		appendRow(&data.Rows, "職務経験", sub.Experience)
		appendRow(&data.Rows, "志望動機", sub.Motivation)
	case domain.VariantDownload:
		appendRow(&data.Rows, "会社名", sub.Company)
		appendRow(&data.Rows, "役職", sub.Position)
		appendRow(&data.Rows, "利用目的", sub.Purpose)
	}

	var buf bytes.Buffer
	if err := notificationTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render notification email: %w", err)
	}
	return buf.String(), nil
}

// renderAutoReplyEmail builds the confirmation email sent back to the submitter
func renderAutoReplyEmail(name string) (string, error) {
	var buf bytes.Buffer
	if err := autoReplyTmpl.Execute(&buf, struct{ Name string }{Name: name}); err != nil {
		return "", fmt.Errorf("failed to render auto-reply email: %w", err)
	}
	return buf.String(), nil
}

func appendRow(rows *[]notificationRow, label, value string) {
	if value == "" {
		return
	}
	*rows = append(*rows, notificationRow{Label: label, Value: value})
}

func joinValues(values []string) string {
	out := ""
	for i, v := range values {
		if i > 0 {
			out += "、"
		}
		out += v
	}
	return out
}
