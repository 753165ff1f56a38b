package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/trailpost/campground-service/internal/platform/logger"
)

// Mailer sends notification emails over SMTP.
type Mailer struct {
	host     string
	port     int
	from     string
	password string
	logger   *logger.Logger
}

func New(host string, port int, from, password string, log *logger.Logger) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		from:     from,
		password: password,
		logger:   log.Named("Mailer"),
	}
}

// SendReviewReceivedEmail notifies a campground's author that a review was
// posted on their campground.
func (m *Mailer) SendReviewReceivedEmail(toEmail, campgroundTitle string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "New Review on Your Campground")
	msg.SetBody("text/plain", fmt.Sprintf("Your campground %q has received a new review.", campgroundTitle))

	d := gomail.NewDialer(m.host, m.port, m.from, m.password)
	return d.DialAndSend(msg)
}
