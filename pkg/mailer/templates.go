package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// SubmissionData holds a validated contact submission plus the request
// metadata echoed into the notification email.
type SubmissionData struct {
	Name       string
	Email      string
	Subject    string
	Message    string
	ReceivedAt time.Time
	ClientIP   string
	UserAgent  string
	SiteName   string
	SiteURL    string
}

// maxUserAgentLen bounds the user-agent string echoed into the notification
const maxUserAgentLen = 100

// notificationTemplate is the HTML template for the owner notification
const notificationTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Contact Form Submission</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0066cc; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .field { margin-bottom: 15px; }
        .label { font-weight: bold; color: #555; }
        .value { margin-top: 5px; }
        .message-box { background: white; padding: 15px; border-left: 4px solid #0066cc; margin-top: 10px; }
        .metadata { margin-top: 20px; padding-top: 15px; border-top: 1px solid #ddd; font-size: 13px; color: #666; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>New Contact Form Submission</h1>
        </div>
        <div class="content">
            <div class="field">
                <div class="label">From:</div>
                <div class="value">{{.Name}} ({{.Email}})</div>
            </div>
            <div class="field">
                <div class="label">Subject:</div>
                <div class="value">{{.Subject}}</div>
            </div>
            <div class="field">
                <div class="label">Message:</div>
                <div class="message-box">{{.Message}}</div>
            </div>
            <div class="metadata">
                <p>Received: {{.ReceivedAt.Format "2006-01-02 15:04:05 MST"}}</p>
                <p>IP: {{.ClientIP}}</p>
                <p>User Agent: {{.UserAgent}}</p>
            </div>
        </div>
        <div class="footer">
            <p>This email was sent from the {{.SiteName}} contact form.</p>
            <p>To reply, send an email to: {{.Email}}</p>
        </div>
    </div>
</body>
</html>`

// autoReplyTemplate is the HTML template for the submitter auto-reply
const autoReplyTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Thank You for Your Message</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0066cc; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .quote-box { background: white; padding: 15px; border-left: 4px solid #0066cc; margin: 15px 0; font-style: italic; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Thanks for reaching out!</h1>
        </div>
        <div class="content">
            <p>Hi <strong>{{.Name}}</strong>,</p>
            <p>Thank you for your message about "<strong>{{.Subject}}</strong>". I've received your inquiry and will get back to you as soon as possible, typically within 24-48 hours.</p>
            <div class="quote-box">{{.Message}}</div>
            <p>In the meantime, feel free to browse my projects at <a href="{{.SiteURL}}">{{.SiteURL}}</a>.</p>
            <p>Best regards,<br><strong>{{.SiteName}}</strong></p>
        </div>
        <div class="footer">
            <p>This is an automated response. Please do not reply to this email.</p>
        </div>
    </div>
</body>
</html>`

// ComposeNotification builds the email sent to the site owner (or the
// configured override recipient) for a submission.
func ComposeNotification(from, to string, data SubmissionData) (Message, error) {
	if len(data.UserAgent) > maxUserAgentLen {
		data.UserAgent = data.UserAgent[:maxUserAgentLen]
	}
	html, err := render("notification", notificationTemplate, data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		From:    from,
		To:      to,
		ReplyTo: data.Email,
		Subject: fmt.Sprintf("Portfolio Contact: %s", data.Subject),
		HTML:    html,
	}, nil
}

// ComposeAutoReply builds the thank-you email sent back to the submitter,
// echoing their subject and message.
func ComposeAutoReply(from string, data SubmissionData) (Message, error) {
	html, err := render("autoreply", autoReplyTemplate, data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		From:    from,
		To:      data.Email,
		Subject: fmt.Sprintf("Thank you for contacting %s!", data.SiteName),
		HTML:    html,
	}, nil
}

func render(name, tmpl string, data SubmissionData) (string, error) {
	t, err := template.New(name).Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse email template: %w", err)
	}
	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return body.String(), nil
}
