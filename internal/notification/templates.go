package notification

import (
	"bytes"
	"html/template"
)

const clientConfirmationHTML = `<!DOCTYPE html>
<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
  .container { max-width: 600px; margin: 0 auto; padding: 20px; }
  .header { background: linear-gradient(135deg, #00f0ff, #a000ff); padding: 30px; text-align: center; }
  .header h1 { color: #000; margin: 0; }
  .content { background: #f9f9f9; padding: 30px; }
  .info-box { background: white; padding: 20px; margin: 20px 0; border-left: 4px solid #00f0ff; }
  .footer { text-align: center; padding: 20px; color: #666; font-size: 14px; }
</style>
</head>
<body>
<div class="container">
  <div class="header"><h1>{{.Brand}}</h1></div>
  <div class="content">
    <h2>Hello {{.FirstName}} {{.Surname}}!</h2>
    <p>Thank you for your appointment request. We've received your information and will review it shortly.</p>
    <div class="info-box">
      <h3>Your Request Details:</h3>
      <p><strong>Appointment ID:</strong> #{{.AppointmentID}}</p>
      <p><strong>Service:</strong> {{.WorkType}}</p>
      <p><strong>Package:</strong> {{.Package}}</p>
    </div>
    <p>We typically respond within 24 hours. If you have any urgent questions, feel free to contact us directly:</p>
    <ul>
      <li>Email: {{.ContactEmail}}</li>
      <li>WhatsApp: {{.WhatsApp}}</li>
      <li>Phone: {{.Phone}}</li>
    </ul>
  </div>
  <div class="footer"><p>&copy; {{.Year}} {{.Brand}} | All Rights Reserved</p></div>
</div>
</body>
</html>`

const adminAlertHTML = `<h2>New Appointment Request</h2>
<p><strong>ID:</strong> #{{.AppointmentID}}</p>
<p><strong>Client:</strong> {{.FirstName}} {{.Surname}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Phone:</strong> {{.Phone}}</p>
<p><strong>Service:</strong> {{.WorkType}}</p>
<p><strong>Package:</strong> {{.Package}}</p>
<p><strong>Description:</strong></p>
<p>{{.Description}}</p>`

const statusUpdateHTML = `<h2>Appointment Status Update</h2>
<p>Hello {{.FirstName}}!</p>
<p>{{.Body}}</p>
<p>If you have any questions, please contact us.</p>`

const contactMessageHTML = `<h2>New Contact Form Submission</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<p><strong>Message:</strong></p>
<p>{{.Message}}</p>`

const welcomeHTML = `<h2>Thank You for Subscribing!</h2>
<p>You'll now receive our latest updates and news from {{.Brand}}.</p>
<p>Stay tuned for amazing content!</p>`

var templates = template.Must(template.New("client_confirmation").Parse(clientConfirmationHTML))

func init() {
	template.Must(templates.New("admin_alert").Parse(adminAlertHTML))
	template.Must(templates.New("status_update").Parse(statusUpdateHTML))
	template.Must(templates.New("contact_message").Parse(contactMessageHTML))
	template.Must(templates.New("welcome").Parse(welcomeHTML))
}

func render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
