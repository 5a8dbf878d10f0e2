// internal/notification/templates.go

package notification

import (
	"bytes"
	"fmt"
	"text/template"
)

type messageTemplate struct {
	subject *template.Template
	body    *template.Template
}

type templateData struct {
	Name string
}

var templates = map[Type]messageTemplate{
	TypeLike:    newTemplate("Someone likes you", "{{.Name}} liked your profile"),
	TypeView:    newTemplate("Profile view", "{{.Name}} viewed your profile"),
	TypeMessage: newTemplate("New message", "{{.Name}} sent you a message"),
	TypeMatch:   newTemplate("It's a match!", "You and {{.Name}} liked each other. Say hello!"),
	TypeUnlike:  newTemplate("Connection ended", "{{.Name}} is no longer connected with you"),
	TypeEvent:   newTemplate("New event", "{{.Name}} invited you to an event"),
}

func newTemplate(subject, body string) messageTemplate {
	return messageTemplate{
		subject: template.Must(template.New("subject").Parse(subject)),
		body:    template.Must(template.New("body").Parse(body)),
	}
}

// Render returns the subject and body for a notification type
func Render(t Type, actorName string) (subject, body string, err error) {
	tmpl, ok := templates[t]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidType, t)
	}

	data := templateData{Name: actorName}

	var buf bytes.Buffer
	if err := tmpl.subject.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("failed to render subject: %w", err)
	}
	subject = buf.String()

	buf.Reset()
	if err := tmpl.body.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("failed to render body: %w", err)
	}
	return subject, buf.String(), nil
}
