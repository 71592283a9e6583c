package sendemail

import (
	"bytes"
	"fmt"
	"html/template"
)

var registrationHTML = template.Must(template.New("registration").Parse(
	`<p>Hi {{.Founder}},</p>
<p>Your application for <strong>{{.Startup}}</strong> has been received and is awaiting review.</p>
<p>You can sign in with the email and password you registered with.</p>`))

var decisionHTML = template.Must(template.New("decision").Parse(
	`<p>Hi {{.Founder}},</p>
{{if .Approved}}<p>Good news: <strong>{{.Startup}}</strong> has been approved.</p>
{{else}}<p>We are sorry to let you know that <strong>{{.Startup}}</strong> was not approved.</p>
{{end}}`))

type emailData struct {
	Founder  string
	Startup  string
	Approved bool
}

func render(t *template.Template, data emailData) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return ""
	}
	return buf.String()
}

func registrationEmail(founder, startup string) (subject, text, html string) {
	subject = "Registration received"
	text = fmt.Sprintf("Hi %s, your application for %s has been received and is awaiting review.", founder, startup)
	html = render(registrationHTML, emailData{Founder: founder, Startup: startup})
	return subject, text, html
}

func decisionEmail(founder, startup string, approved bool) (subject, text, html string) {
	if approved {
		subject = "Your startup has been approved"
		text = fmt.Sprintf("Hi %s, %s has been approved.", founder, startup)
	} else {
		subject = "Update on your application"
		text = fmt.Sprintf("Hi %s, %s was not approved.", founder, startup)
	}
	html = render(decisionHTML, emailData{Founder: founder, Startup: startup, Approved: approved})
	return subject, text, html
}
