package asaas

type CreateCustomerInput struct {
	Name        string
	Email       string
	CpfCnpj     string
	MobilePhone string
	// ExternalReference is our seller id
	ExternalReference string
}

type PixChargeInput struct {
	CustomerID  string
	AmountCents int
	Description string
	// ExternalReference is our purchase id; it comes back on the payment webhook
	ExternalReference string
	DueDate           string
}

type PixCharge struct {
	PaymentID    string
	Status       string
	PixCode      string
	PixQRCodeURL string
	ExpiresAt    string
}

// --- PAYLOADS: O que o Client manda para o Asaas (Interno) ---

type createCustomerRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	CpfCnpj              string `json:"cpfCnpj,omitempty"`
	MobilePhone          string `json:"mobilePhone,omitempty"`
	ExternalReference    string `json:"externalReference,omitempty"`
	NotificationDisabled bool   `json:"notificationDisabled"`
}

type createPaymentRequest struct {
	Customer          string  `json:"customer"`
	BillingType       string  `json:"billingType"`
	Value             float64 `json:"value"`
	DueDate           string  `json:"dueDate"`
	Description       string  `json:"description"`
	ExternalReference string  `json:"externalReference"`
}

// --- RESPONSE: O que o Asaas devolve ---

type customerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type paymentResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type pixQRCodeResponse struct {
	EncodedImage   string `json:"encodedImage"`
	Payload        string `json:"payload"`
	ExpirationDate string `json:"expirationDate"`
}

// WebhookPayment is the payment object inside a webhook notification.
type WebhookPayment struct {
	ID                string  `json:"id"`
	Customer          string  `json:"customer"`
	Value             float64 `json:"value"`
	Status            string  `json:"status"`
	BillingType       string  `json:"billingType"`
	ExternalReference string  `json:"externalReference"`
	Subscription      string  `json:"subscription"`
}

type WebhookSubscription struct {
	ID                string `json:"id"`
	Customer          string `json:"customer"`
	Description       string `json:"description"`
	Status            string `json:"status"`
	ExternalReference string `json:"externalReference"`
}

// WebhookEvent is the body Asaas posts to the billing webhook.
type WebhookEvent struct {
	ID           string               `json:"id"`
	Event        string               `json:"event"`
	DateCreated  string               `json:"dateCreated"`
	Payment      *WebhookPayment      `json:"payment,omitempty"`
	Subscription *WebhookSubscription `json:"subscription,omitempty"`
}
