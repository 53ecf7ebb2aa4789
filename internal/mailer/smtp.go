package mailer

import (
	"bytes"
	"fmt"
	"net/http"
	"text/template"
	"time"

	gomail "gopkg.in/mail.v2"
)

type smtpClient struct {
	fromEmail string
	host      string
	port      int
	username  string
	password  string
}

func NewSMTPClient(host string, port int, username, password, fromEmail string) (Client, error) {
	if host == "" || fromEmail == "" {
		return nil, fmt.Errorf("smtp host and from email are required")
	}

	return &smtpClient{
		fromEmail: fromEmail,
		host:      host,
		port:      port,
		username:  username,
		password:  password,
	}, nil
}

// Send renders the named embedded template (subject + body blocks) and
// delivers it, retrying a few times before giving up.
func (c *smtpClient) Send(templateFile, username, email string, data any) (int, error) {
	tmpl, err := template.ParseFS(FS, "templates/"+templateFile)
	if err != nil {
		return -1, err
	}

	subject := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(subject, "subject", data); err != nil {
		return -1, err
	}

	body := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(body, "body", data); err != nil {
		return -1, err
	}

	message := gomail.NewMessage()
	message.SetHeader("From", c.fromEmail)
	message.SetHeader("To", email)
	message.SetHeader("Subject", subject.String())
	message.SetBody("text/html", body.String())

	dialer := gomail.NewDialer(c.host, c.port, c.username, c.password)

	var retryErr error
	for i := 0; i < maxRetries; i++ {
		retryErr = dialer.DialAndSend(message)
		if retryErr == nil {
			return http.StatusOK, nil
		}
		time.Sleep(time.Second * time.Duration(i+1))
	}

	return -1, fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, retryErr)
}
