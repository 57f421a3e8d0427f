package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// EmailData carries the fields the recovery templates render.
type EmailData struct {
	Name          string    `json:"Name"`
	AppName       string    `json:"AppName"`
	ResetURL      string    `json:"ResetURL"`
	Code          string    `json:"Code"`
	ExpiresAt     time.Time `json:"ExpiresAt"`
	ExpiresAtText string    `json:"ExpiresAtText"`
	SupportURL    string    `json:"SupportURL"`
}

// ToMap converts EmailData into the loose map an EmailJob carries.
func ToMap(d EmailData) map[string]any {
	if d.ExpiresAtText == "" && !d.ExpiresAt.IsZero() {
		d.ExpiresAtText = d.ExpiresAt.UTC().Format("02 January 2006, 15:04 UTC")
	}
	return map[string]any{
		"Name":          d.Name,
		"AppName":       d.AppName,
		"ResetURL":      d.ResetURL,
		"Code":          d.Code,
		"ExpiresAtText": d.ExpiresAtText,
		"SupportURL":    d.SupportURL,
	}
}

// Subject returns the subject line for a known template.
func Subject(name string) string {
	switch name {
	case "reset_link":
		return "Reset your password"
	case "reset_code":
		return "Your password reset code"
	default:
		return "Notification"
	}
}

// RenderHTML renders the named template with the given data.
func RenderHTML(name string, data map[string]any) (string, error) {
	t, err := htmpl.ParseFS(FS, name+".tmpl")
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name+".tmpl", data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), nil
}
