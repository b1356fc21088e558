package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		From:   from,
		Dialer: gomail.NewDialer(host, port, user, password),
	}
}

// SendNewEnquiry avisa o vendedor de um novo lead. O contato do comprador
// nunca vai no e-mail.
func (s *EmailSender) SendNewEnquiry(to, sellerName, listingTitle, message, dashboardURL string) error {
	data := NewEnquiryEmailData{
		SellerName:   sellerName,
		ListingTitle: listingTitle,
		Message:      message,
		DashboardURL: dashboardURL,
	}
	subject := fmt.Sprintf("Novo interessado em %s 📩", listingTitle)
	return s.send(to, subject, "new_enquiry.html", data)
}

func (s *EmailSender) SendCreditsReceipt(to, sellerName string, credits, balance int) error {
	data := CreditsReceiptEmailData{
		SellerName: sellerName,
		Credits:    credits,
		Balance:    balance,
	}
	subject := fmt.Sprintf("Pagamento confirmado: %d créditos adicionados ✅", credits)
	return s.send(to, subject, "credits_receipt.html", data)
}

func (s *EmailSender) send(to, subject, tmpl string, data any) error {
	body, err := render(tmpl, data)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.Dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}

func render(tmpl string, data any) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, tmpl, data); err != nil {
		return "", fmt.Errorf("erro ao processar template: %w", err)
	}
	return body.String(), nil
}
