package usecase

import (
	"context"

	"github.com/xavierca1/marketplace-leads/internal/infra/integration/asaas"
	"github.com/xavierca1/marketplace-leads/internal/infra/queue"
)

type PaymentGateway interface {
	CreateCustomer(ctx context.Context, input asaas.CreateCustomerInput) (string, error)
	CreatePixCharge(ctx context.Context, input asaas.PixChargeInput) (*asaas.PixCharge, error)
}

type LeadEventPublisher interface {
	PublishEnquiryCreated(ctx context.Context, payload queue.EnquiryCreatedPayload) error
	PublishEnquiryUnlocked(ctx context.Context, payload queue.EnquiryUnlockedPayload) error
}

type EmailService interface {
	SendNewEnquiry(to, sellerName, listingTitle, message, dashboardURL string) error
	SendCreditsReceipt(to, sellerName string, credits, balance int) error
}
