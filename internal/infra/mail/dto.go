package mail

import "gopkg.in/gomail.v2"

type NewEnquiryEmailData struct {
	SellerName   string
	ListingTitle string
	Message      string
	DashboardURL string
}

type CreditsReceiptEmailData struct {
	SellerName string
	Credits    int
	Balance    int
}

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	From   string
	Dialer Dialer
}
