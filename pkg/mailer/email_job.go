package mailer

import (
	"errors"
	"strings"

	mailtpl "github.com/oksasatya/task-manager-api/pkg/mailer/templates"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template+Data or Subject with Text/HTML must be set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "welcome" or "farewell"
	Data     map[string]any `json:"data,omitempty"`
}

var ErrNoRecipient = errors.New("email job has no recipient")

// NewTemplateJob builds a job rendered by the worker from one of the embedded templates.
func NewTemplateJob(to, template string, data mailtpl.EmailData) EmailJob {
	return EmailJob{To: to, Template: template, Data: mailtpl.ToMap(data)}
}

// Render resolves the final subject and bodies.
func (j EmailJob) Render() (subject, text, html string, err error) {
	if strings.TrimSpace(j.To) == "" {
		return "", "", "", ErrNoRecipient
	}
	if j.Template == "" {
		return j.Subject, j.Text, j.HTML, nil
	}
	return mailtpl.Render(j.Template, j.Data)
}
