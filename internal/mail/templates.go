package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

var contactAdminTmpl = template.Must(template.New("contact_admin").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2933;">
  <h2>New contact message</h2>
  <p><strong>Reference:</strong> {{.Ref}}</p>
  <table cellpadding="6">
    <tr><td><strong>Name</strong></td><td>{{.Name}}</td></tr>
    <tr><td><strong>Email</strong></td><td>{{.Email}}</td></tr>
    <tr><td><strong>Subject</strong></td><td>{{.Subject}}</td></tr>
  </table>
  <h3>Message</h3>
  <p>{{.Message}}</p>
</body>
</html>`))

var requestAdminTmpl = template.Must(template.New("request_admin").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2933;">
  <h2>New support request</h2>
  <p><strong>Reference:</strong> {{.Ref}}</p>
  <table cellpadding="6">
    <tr><td><strong>Name</strong></td><td>{{.Name}}</td></tr>
    <tr><td><strong>Email</strong></td><td>{{.Email}}</td></tr>
    <tr><td><strong>Contact</strong></td><td>{{.Contact}}</td></tr>
    <tr><td><strong>Request type</strong></td><td>{{.RequestType}}</td></tr>
    <tr><td><strong>Device type</strong></td><td>{{.DeviceType}}</td></tr>
  </table>
  <h3>Details</h3>
  <p>{{.Message}}</p>
</body>
</html>`))

var requestCustomerTmpl = template.Must(template.New("request_customer").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2933;">
  <h2>We received your request</h2>
  <p>Hi {{.Name}},</p>
  <p>Thanks for reaching out. Your {{.RequestType}} request for your
  {{.DeviceType}} is in our queue and a technician will contact you shortly.</p>
  <p>Your reference number is <strong>{{.Ref}}</strong>. Keep it handy if you
  need to follow up.</p>
  <p>Remote Support Team</p>
</body>
</html>`))

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
