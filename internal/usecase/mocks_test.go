package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/marketplace-leads/internal/entity"
	"github.com/xavierca1/marketplace-leads/internal/infra/integration/asaas"
	"github.com/xavierca1/marketplace-leads/internal/infra/queue"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishEnquiryCreated(ctx context.Context, payload queue.EnquiryCreatedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func (m *MockPublisher) PublishEnquiryUnlocked(ctx context.Context, payload queue.EnquiryUnlockedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendNewEnquiry(to, sellerName, listingTitle, message, dashboardURL string) error {
	args := m.Called(to, sellerName, listingTitle, message, dashboardURL)
	return args.Error(0)
}

func (m *MockEmailService) SendCreditsReceipt(to, sellerName string, credits, balance int) error {
	args := m.Called(to, sellerName, credits, balance)
	return args.Error(0)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateCustomer(ctx context.Context, input asaas.CreateCustomerInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) CreatePixCharge(ctx context.Context, input asaas.PixChargeInput) (*asaas.PixCharge, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asaas.PixCharge), args.Error(1)
}

type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) Create(ctx context.Context, p *entity.CreditPurchase) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPurchaseRepository) UpdateStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockPurchaseRepository) SetGatewayPaymentID(ctx context.Context, id, paymentID string) error {
	args := m.Called(ctx, id, paymentID)
	return args.Error(0)
}

func (m *MockPurchaseRepository) ExpireStale(ctx context.Context, createdBefore time.Time) ([]*entity.CreditPurchase, error) {
	args := m.Called(ctx, createdBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.CreditPurchase), args.Error(1)
}

type fakeListings map[string]*entity.Listing

func (f fakeListings) FindByID(_ context.Context, id string) (*entity.Listing, error) {
	l, ok := f[id]
	if !ok {
		return nil, entity.ErrListingNotFound
	}
	return l, nil
}

type fakeLedgerRepo struct {
	store *memStore
}

func (f fakeLedgerRepo) ListBySeller(_ context.Context, sellerID string, limit int) ([]*entity.CreditLedgerEntry, error) {
	var out []*entity.CreditLedgerEntry
	entries := f.store.ledgerEntries()
	for i := len(entries) - 1; i >= 0 && len(out) < limit; i-- {
		if entries[i].SellerID == sellerID {
			e := entries[i]
			out = append(out, &e)
		}
	}
	return out, nil
}
