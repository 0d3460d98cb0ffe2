package mailer

import (
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/config"
)

// Mailer relays booking requests and contact messages over SMTP. Nothing is
// persisted; a failed send surfaces as an error to the caller.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func New(cfg *config.Config) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.GmailUser, cfg.GmailPass),
		from:   cfg.GmailUser,
	}
}

func (m *Mailer) send(to, replyTo, subject, plain, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	if replyTo != "" {
		msg.SetHeader("Reply-To", replyTo)
	}
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", plain)
	msg.AddAlternative("text/html", htmlBody)

	return m.dialer.DialAndSend(msg)
}

type BookingRequest struct {
	Name      string
	Email     string
	Date      string
	StartTime string
	EndTime   string
	Message   string
}

func (m *Mailer) SendBookingRequest(to, studioName string, req BookingRequest) error {
	message := req.Message
	if message == "" {
		message = "None"
	}

	htmlBody := fmt.Sprintf(`
		<h2>New Booking Request</h2>
		<p><strong>Customer Name:</strong> %s</p>
		<p><strong>Email:</strong> %s</p>
		<p><strong>Date:</strong> %s</p>
		<p><strong>Time:</strong> %s - %s</p>
		<p><strong>Special Requirements:</strong> %s</p>`,
		html.EscapeString(req.Name),
		html.EscapeString(req.Email),
		html.EscapeString(req.Date),
		html.EscapeString(req.StartTime),
		html.EscapeString(req.EndTime),
		html.EscapeString(message),
	)

	plain := fmt.Sprintf(
		"New booking request\n\nCustomer: %s (%s)\nDate: %s\nTime: %s - %s\nSpecial requirements: %s\n",
		req.Name, req.Email, req.Date, req.StartTime, req.EndTime, message,
	)

	subject := fmt.Sprintf("New Booking Request for %s", studioName)
	return m.send(to, req.Email, subject, plain, htmlBody)
}

func (m *Mailer) SendMusicianContact(to, name, email, message string) error {
	htmlBody := fmt.Sprintf(
		"<p>You have received a new message from <b>%s</b> (%s):</p><p>%s</p>",
		html.EscapeString(name),
		html.EscapeString(email),
		strings.ReplaceAll(html.EscapeString(message), "\n", "<br>"),
	)
	plain := fmt.Sprintf("You have received a new message from %s (%s):\n\n%s", name, email, message)

	return m.send(to, email, "New message from HarmoniX user", plain, htmlBody)
}

// SendSiteContact delivers the public contact form to the site inbox.
func (m *Mailer) SendSiteContact(firstName, lastName, email, message string) error {
	name := strings.TrimSpace(firstName + " " + lastName)

	htmlBody := fmt.Sprintf(`
		<h2>New Contact Message</h2>
		<p><strong>Name:</strong> %s</p>
		<p><strong>Email:</strong> <a href="mailto:%s">%s</a></p>
		<p><strong>Message:</strong></p>
		<p>%s</p>
		<p>Sent via the HarmoniX contact form.</p>`,
		html.EscapeString(name),
		html.EscapeString(email),
		html.EscapeString(email),
		strings.ReplaceAll(html.EscapeString(message), "\n", "<br>"),
	)

	plain := fmt.Sprintf(
		"NEW CONTACT MESSAGE\n===================\n\nFROM: %s\nEMAIL: %s\n\nMESSAGE:\n%s\n\nSent via HarmoniX contact form.",
		name, email, message,
	)

	subject := fmt.Sprintf("Contact from %s", name)
	return m.send(m.from, email, subject, plain, htmlBody)
}
