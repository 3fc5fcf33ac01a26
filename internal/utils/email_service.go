package utils

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

// EmailService provides email delivery functionality over SMTP.
type EmailService struct {
	smtpHost     string
	smtpPort     int
	smtpUsername string
	smtpPassword string
	senderEmail  string
}

// NewEmailService creates a new EmailService.
func NewEmailService(smtpHost string, smtpPort int, smtpUsername, smtpPassword, senderEmail string) *EmailService {
	return &EmailService{
		smtpHost:     smtpHost,
		smtpPort:     smtpPort,
		smtpUsername: smtpUsername,
		smtpPassword: smtpPassword,
		senderEmail:  senderEmail,
	}
}

// SendEmail sends an HTML email.
func (s *EmailService) SendEmail(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, "SchemaHub"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.smtpHost, s.smtpPort, s.smtpUsername, s.smtpPassword)

	return d.DialAndSend(m)
}

// SendWorkspaceInvite sends an invitation notification to a newly added
// workspace member.
func (s *EmailService) SendWorkspaceInvite(toEmail, toUsername, workspaceName, inviterUsername string) error {
	subject := fmt.Sprintf("You've been added to %s", workspaceName)
	body := workspaceInviteHTML(toUsername, workspaceName, inviterUsername)
	return s.SendEmail(toEmail, subject, body)
}

// workspaceInviteHTML renders the invitation email with inline styles for
// mail-client compatibility.
func workspaceInviteHTML(username, workspaceName, inviter string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
	<meta name="viewport" content="width=device-width, initial-scale=1.0" />
	<title>Workspace invitation</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, 'Segoe UI', Helvetica, Arial, sans-serif; background-color: #f7f9fc;">
	<table border="0" cellpadding="0" cellspacing="0" width="100%%" style="border-collapse: collapse;">
		<tr>
			<td style="padding: 40px 0;">
				<table align="center" border="0" cellpadding="0" cellspacing="0" width="600" style="border-collapse: collapse; background-color: #5271ff; border-radius: 8px 8px 0 0;">
					<tr>
						<td align="center" style="padding: 30px 0; color: #ffffff;">
							<h1 style="margin: 0; font-size: 28px; font-weight: 700;">You're in!</h1>
						</td>
					</tr>
				</table>
				<table align="center" border="0" cellpadding="0" cellspacing="0" width="600" style="border-collapse: collapse; background-color: #ffffff; border-radius: 0 0 8px 8px;">
					<tr>
						<td style="padding: 30px 40px; color: #333333; font-size: 16px; line-height: 1.6;">
							<p style="margin: 0 0 16px;">Hi %s,</p>
							<p style="margin: 0 0 16px;"><strong>%s</strong> added you to the workspace <strong>%s</strong>.</p>
							<p style="margin: 0;">Sign in to start designing schemas together.</p>
						</td>
					</tr>
				</table>
			</td>
		</tr>
	</table>
</body>
</html>`,
		html.EscapeString(username),
		html.EscapeString(inviter),
		html.EscapeString(workspaceName),
	)
}
