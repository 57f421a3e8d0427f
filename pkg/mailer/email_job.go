package mailer

// Template names the worker knows how to render.
const (
	TemplateResetLink = "reset_link"
	TemplateResetCode = "reset_code"
)

// EmailJob is the JSON payload placed on the RabbitMQ queue. Either Template
// with Data is set, or a raw Subject with Text/HTML bodies.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}
