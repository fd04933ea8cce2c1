// Package mailer is the outbound email gateway. Sends are fire-and-forget:
// failures are logged, never surfaced, and never roll back the lifecycle
// operation that triggered them.
package mailer

import (
	"bytes"
	"fmt"
	"log"
	"net/smtp"
	"text/template"
)

// Template names known to the gateway.
const (
	TemplateSubmitted = "complaint_submitted"
	TemplateStatus    = "status_updated"
	TemplateResolved  = "complaint_resolved"
	TemplateAssigned  = "complaint_assigned"
)

// Gateway sends one templated email to one recipient.
type Gateway interface {
	Send(templateName, recipient string, params map[string]string) error
}

var templates = map[string]*template.Template{
	TemplateSubmitted: template.Must(template.New(TemplateSubmitted).Parse(
		"Subject: Complaint received\r\n\r\n" +
			"Hi {{.Name}},\r\n\r\nWe received your complaint \"{{.Title}}\" and will triage it shortly.\r\n")),
	TemplateStatus: template.Must(template.New(TemplateStatus).Parse(
		"Subject: Complaint update\r\n\r\n" +
			"Hi {{.Name}},\r\n\r\nYour complaint \"{{.Title}}\" is now {{.Status}}.\r\n")),
	TemplateResolved: template.Must(template.New(TemplateResolved).Parse(
		"Subject: Complaint resolved\r\n\r\n" +
			"Hi {{.Name}},\r\n\r\nYour complaint \"{{.Title}}\" was resolved: {{.Comment}}\r\n" +
			"Please approve or reject the resolution.\r\n")),
	TemplateAssigned: template.Must(template.New(TemplateAssigned).Parse(
		"Subject: Complaint assigned to you\r\n\r\n" +
			"Hi {{.Name}},\r\n\r\nComplaint \"{{.Title}}\" was assigned to you.\r\n")),
}

// SMTPGateway delivers via a plain SMTP relay.
type SMTPGateway struct {
	Addr string
	From string
}

func NewSMTPGateway(addr, from string) *SMTPGateway {
	return &SMTPGateway{Addr: addr, From: from}
}

func (g *SMTPGateway) Send(templateName, recipient string, params map[string]string) error {
	tmpl, ok := templates[templateName]
	if !ok {
		return fmt.Errorf("unknown email template %q", templateName)
	}
	var body bytes.Buffer
	if err := tmpl.Execute(&body, params); err != nil {
		return fmt.Errorf("render email template %q: %w", templateName, err)
	}
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\n%s", g.From, recipient, body.String()))
	return smtp.SendMail(g.Addr, nil, g.From, []string{recipient}, msg)
}

// LogGateway is used when no SMTP relay is configured (local development).
type LogGateway struct{}

func (LogGateway) Send(templateName, recipient string, params map[string]string) error {
	log.Printf("mailer: would send %q to %s (%v)", templateName, recipient, params)
	return nil
}
