package utils

import (
	"fmt"
	"lms/config"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Generic Send Email
func SendEmail(to string, subject string, htmlBody string) error {
	apiKey := config.AppConfig.SendGridKey
	if apiKey == "" {
		log.Printf("SENDGRID_API_KEY not set, skipping email %q to %s", subject, to)
		return nil
	}

	from := mail.NewEmail("LearnHub", config.AppConfig.EmailSender)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, "", htmlBody)

	client := sendgrid.NewSendClient(apiKey)
	response, err := client.Send(message)
	if err != nil {
		log.Println("Error sending email:", err)
		return err
	}
	if response.StatusCode >= 400 {
		log.Printf("SendGrid rejected email %q to %s: %d %s", subject, to, response.StatusCode, response.Body)
		return fmt.Errorf("sendgrid returned status %d", response.StatusCode)
	}
	return nil
}

// HTML wrapper shared by all outgoing mail
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1A237E; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #212121; line-height: 1.6; }
			.content h2 { color: #1A237E; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #1A237E; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>LEARNHUB</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 LearnHub. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Welcome / Signup
func SendWelcomeEmail(email, name string) {
	subject := "Welcome to LearnHub"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>LearnHub</strong>! Your account has been created successfully.</p>
		<p>Browse the course catalog and enroll in your first course to get started.</p>
	`, name)

	go SendEmail(email, subject, getEmailTemplate("Welcome Onboard!", body))
}

// 2. Enrollment Confirmation
func SendEnrollmentEmail(email, name, courseTitle string) {
	subject := "Enrollment Confirmed: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You are now enrolled in <strong>%s</strong>.</p>
		<div class="info-box">
			<strong>Next Steps:</strong> Head to your dashboard and start with the first video. Your progress is tracked automatically.
		</div>
	`, name, courseTitle)

	go SendEmail(email, subject, getEmailTemplate("Enrollment Successful", body))
}
