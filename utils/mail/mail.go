package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/joy095/fixitnow/logger"
	"github.com/joy095/fixitnow/utils/events"
	gomail "gopkg.in/gomail.v2"
)

// Sender delivers prepared messages. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// notifyKeys are the events worth an email to the operations inbox.
var notifyKeys = map[string]string{
	events.BookingCreated:   "New booking received",
	events.BookingCancelled: "Booking cancelled",
	events.BookingCompleted: "Booking completed",
}

var notifyTemplate = template.Must(template.New("notify").Parse(`<h3>{{.Subject}}</h3>
<p>Event <b>{{.Event.Key}}</b> at {{.Event.OccurredAt.Format "2006-01-02 15:04:05 MST"}}</p>
<table>
{{range $k, $v := .Event.Payload}}<tr><td>{{$k}}</td><td>{{$v}}</td></tr>
{{end}}</table>
`))

// Notifier is an events.Publisher that mails selected booking events.
type Notifier struct {
	sender Sender
	from   string
	to     string
}

func NewNotifier(sender Sender, from, to string) *Notifier {
	return &Notifier{sender: sender, from: from, to: to}
}

// NewDialer builds the SMTP sender.
func NewDialer(host string, port int, user, password string) *gomail.Dialer {
	return gomail.NewDialer(host, port, user, password)
}

func (n *Notifier) Publish(_ context.Context, e events.Event) error {
	subject, ok := notifyKeys[e.Key]
	if !ok {
		return nil
	}

	var body bytes.Buffer
	if err := notifyTemplate.Execute(&body, map[string]any{"Subject": subject, "Event": e}); err != nil {
		logger.ErrorLogger.Errorf("Failed to execute email template for %s: %v", e.Key, err)
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	mailer := gomail.NewMessage()
	mailer.SetHeader("From", n.from)
	mailer.SetHeader("To", n.to)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body.String())

	if err := n.sender.DialAndSend(mailer); err != nil {
		logger.ErrorLogger.Errorf("Failed to send email to %s: %v", n.to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	logger.InfoLogger.Infof("Notification email for %s sent to %s", e.Key, n.to)
	return nil
}
