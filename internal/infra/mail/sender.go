package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/lead-ledger/internal/entity"
)

//go:embed templates/*.html
var templates embed.FS

var reportTemplate = template.Must(template.New("report.html").Funcs(template.FuncMap{
	"date":  func(t time.Time) string { return t.Format(entity.DateLayout) },
	"money": func(v decimal.Decimal) string { return "R " + v.StringFixed(entity.AmountScale) },
}).ParseFS(templates, "templates/report.html"))

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	// Transport overrides SMTP delivery; nil dials Host on every send.
	Transport gomail.Sender
}

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

// SendReport mails the rendered snapshot to every recipient in one message.
func (s *EmailSender) SendReport(report *entity.ReportSnapshot, recipients []string) error {
	if len(recipients) == 0 {
		return fmt.Errorf("no report recipients")
	}

	body, err := RenderReport(report)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", recipients...)
	m.SetHeader("Subject", fmt.Sprintf("Lead report %s: %d leads, %s converted",
		report.ReportDate.Format(entity.DateLayout), report.TotalLeads, report.ConversionRate))
	m.SetBody("text/html", body)

	if s.Transport != nil {
		if err := gomail.Send(s.Transport, m); err != nil {
			return fmt.Errorf("send report: %w", err)
		}
		return nil
	}

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send report via smtp: %w", err)
	}
	return nil
}

func RenderReport(report *entity.ReportSnapshot) (string, error) {
	var body bytes.Buffer
	if err := reportTemplate.Execute(&body, report); err != nil {
		return "", fmt.Errorf("render report template: %w", err)
	}
	return body.String(), nil
}
