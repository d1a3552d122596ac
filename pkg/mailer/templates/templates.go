package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	"strings"
	texttpl "text/template"
	"time"
)

//go:embed files/*.tmpl
var FS embed.FS

// Template names.
const (
	Welcome  = "welcome"
	Farewell = "farewell"
)

// EmailData defines standard fields for email templates.
type EmailData struct {
	Name    string    `json:"Name"`
	Email   string    `json:"Email"`
	AppName string    `json:"AppName"`
	Time    string    `json:"Time"`
	TimeAt  time.Time `json:"TimeAt"`
}

// ToMap converts EmailData to a map[string]any for EmailJob.Data
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// orDefault backs {{ .Value | default "Fallback" }}; nil and blank strings fall back.
func orDefault(fallback, value any) any {
	if value == nil {
		return fallback
	}
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return fallback
	}
	return value
}

var funcs = map[string]any{
	"upper":   strings.ToUpper,
	"default": orDefault,
}

// Both sets are parsed once; each template is addressed by its file name,
// e.g. "welcome.subject.tmpl".
var (
	textSet = texttpl.Must(texttpl.New("text").Funcs(funcs).ParseFS(FS, "files/*.subject.tmpl", "files/*.text.tmpl"))
	htmlSet = htmpl.Must(htmpl.New("html").Funcs(funcs).ParseFS(FS, "files/*.html.tmpl"))
)

type executor interface {
	Execute(w *bytes.Buffer, data any) error
}

type textExec struct{ t *texttpl.Template }

func (e textExec) Execute(w *bytes.Buffer, data any) error { return e.t.Execute(w, data) }

type htmlExec struct{ t *htmpl.Template }

func (e htmlExec) Execute(w *bytes.Buffer, data any) error { return e.t.Execute(w, data) }

func lookup(file string) (executor, error) {
	if strings.HasSuffix(file, ".html.tmpl") {
		if t := htmlSet.Lookup(file); t != nil {
			return htmlExec{t}, nil
		}
	} else if t := textSet.Lookup(file); t != nil {
		return textExec{t}, nil
	}
	return nil, fmt.Errorf("template %q not found", file)
}

func execute(file string, data any) (string, error) {
	tpl, err := lookup(file)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", file, err)
	}
	return buf.String(), nil
}

// Render produces the subject, plain text and HTML bodies for the named template.
// Expects: <name>.subject.tmpl, <name>.text.tmpl, <name>.html.tmpl
func Render(name string, data any) (subject, text, html string, err error) {
	if subject, err = execute(name+".subject.tmpl", data); err != nil {
		return "", "", "", err
	}
	if text, err = execute(name+".text.tmpl", data); err != nil {
		return "", "", "", err
	}
	if html, err = execute(name+".html.tmpl", data); err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}
