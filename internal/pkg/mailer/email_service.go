package mailer

import (
	"fmt"
	"io"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendExportArtifact(toEmail, documentName, attachmentName string, artifact []byte) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)
	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

// SendExportArtifact mails the exported analysis snapshot as a JSON
// attachment.
func (s *emailService) SendExportArtifact(toEmail, documentName, attachmentName string, artifact []byte) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Contract risk analysis: %s", documentName))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Contract Risk Analysis</h2>
			<p>The analysis snapshot for <strong>%s</strong> is attached.</p>
			<p>The attachment contains the document metadata, the risk summary and every classified clause.</p>
		</div>
	`, documentName)
	m.SetBody("text/html", body)

	m.Attach(attachmentName, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(artifact)
		return err
	}))

	return s.dialer.DialAndSend(m)
}
