package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"edemy/config"
)

// SendEmail sends an HTML email through the configured SMTP account
func SendEmail(cfg *config.Config, to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := cfg.EmailSender
	password := cfg.EmailPassword
	if from == "" || password == "" {
		return fmt.Errorf("email sender is not configured")
	}

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Edemy <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	if err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg)); err != nil {
		log.Printf("Error sending email to %v: %v", to, err)
		return err
	}
	return nil
}

// SendEnrollmentEmail sends an email notification when a user is enrolled in
// a course after a successful payment. Best effort; callers only log
// failures.
func SendEnrollmentEmail(cfg *config.Config, email, userName, courseTitle string) error {
	if email == "" {
		return fmt.Errorf("user has no email address")
	}

	subject := "Course Enrollment Confirmation - Edemy"
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 500px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px; box-shadow: 0 2px 8px rgba(0, 0, 0, 0.1);">
					<h2 style="color: #333333; text-align: center;">Enrollment Confirmed</h2>
					<p style="font-size: 16px; color: #555555;">Hi %s,</p>
					<p style="font-size: 16px; color: #555555;">Your payment was received and you are now enrolled in:</p>
					<h3 style="text-align: center; color: #4CAF50; margin: 20px 0;">%s</h3>
					<p style="font-size: 14px; color: #999999;">You can find the course under My Enrollments.</p>
					<p style="text-align: center; font-size: 12px; color: #bbbbbb; margin-top: 30px;">Thank you for learning with Edemy.</p>
				</div>
			</body>
		</html>
	`, userName, courseTitle)

	return SendEmail(cfg, []string{email}, subject, body)
}
