package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/xavierca1/marketplace-leads/internal/entity"
)

// memStore is an in-memory ledger. RunInTx serializes transactions and works
// on a copy that is only published on success, like a row-locking database
// would look from the outside.
type memStore struct {
	mu        sync.Mutex
	txMu      sync.Mutex
	enquiries map[string]entity.Enquiry
	profiles  map[string]entity.SellerProfile
	purchases map[string]entity.CreditPurchase
	events    map[string]bool
	ledger    []entity.CreditLedgerEntry

	// failOn makes the named LedgerTx method fail inside the transaction.
	failOn  string
	failErr error
	txCount int
}

var errInjected = errors.New("connection reset by peer")

func newMemStore() *memStore {
	return &memStore{
		enquiries: map[string]entity.Enquiry{},
		profiles:  map[string]entity.SellerProfile{},
		purchases: map[string]entity.CreditPurchase{},
		events:    map[string]bool{},
	}
}

func (s *memStore) putEnquiry(e entity.Enquiry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enquiries[e.ID] = e
}

func (s *memStore) putProfile(p entity.SellerProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.SellerID] = p
}

func (s *memStore) putPurchase(p entity.CreditPurchase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purchases[p.ID] = p
}

func (s *memStore) enquiry(id string) entity.Enquiry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enquiries[id]
}

func (s *memStore) profile(id string) (entity.SellerProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	return p, ok
}

func (s *memStore) purchase(id string) entity.CreditPurchase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.purchases[id]
}

func (s *memStore) ledgerEntries() []entity.CreditLedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.CreditLedgerEntry(nil), s.ledger...)
}

// EnquiryRepositoryInterface

func (s *memStore) Create(_ context.Context, e *entity.Enquiry) error {
	s.putEnquiry(*e)
	return nil
}

func (s *memStore) FindByID(_ context.Context, id string) (*entity.Enquiry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.enquiries[id]
	if !ok {
		return nil, entity.ErrEnquiryNotFound
	}
	return &e, nil
}

func (s *memStore) ListBySeller(_ context.Context, sellerID string) ([]*entity.Enquiry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Enquiry
	for _, e := range s.enquiries {
		if e.SellerID == sellerID {
			e := e
			out = append(out, &e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SellerProfileRepositoryInterface

func (s *memStore) FindBySellerID(_ context.Context, sellerID string) (*entity.SellerProfile, error) {
	p, ok := s.profile(sellerID)
	if !ok {
		return nil, entity.ErrSellerProfileNotFound
	}
	return &p, nil
}

func (s *memStore) SetGatewayCustomerID(_ context.Context, sellerID, gatewayCustomerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[sellerID]
	if !ok {
		return entity.ErrSellerProfileNotFound
	}
	p.GatewayCustomerID = gatewayCustomerID
	s.profiles[sellerID] = p
	return nil
}

// TxRunner

func (s *memStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx entity.LedgerTx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	s.txCount++
	tx := &memTx{store: s, enquiries: map[string]entity.Enquiry{}, profiles: map[string]entity.SellerProfile{}, purchases: map[string]entity.CreditPurchase{}, events: map[string]bool{}}
	for k, v := range s.enquiries {
		tx.enquiries[k] = v
	}
	for k, v := range s.profiles {
		tx.profiles[k] = v
	}
	for k, v := range s.purchases {
		tx.purchases[k] = v
	}
	for k, v := range s.events {
		tx.events[k] = v
	}
	s.mu.Unlock()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.failOn == "commit" {
		return s.injected()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.enquiries = tx.enquiries
	s.profiles = tx.profiles
	s.purchases = tx.purchases
	s.events = tx.events
	s.ledger = append(s.ledger, tx.ledger...)
	return nil
}

func (s *memStore) injected() error {
	if s.failErr != nil {
		return s.failErr
	}
	return errInjected
}

type memTx struct {
	store     *memStore
	enquiries map[string]entity.Enquiry
	profiles  map[string]entity.SellerProfile
	purchases map[string]entity.CreditPurchase
	events    map[string]bool
	ledger    []entity.CreditLedgerEntry
}

func (t *memTx) fail(op string) error {
	if t.store.failOn == op {
		return t.store.injected()
	}
	return nil
}

func (t *memTx) MarkEnquiryUnlocked(_ context.Context, enquiryID, sellerID string, at time.Time) (bool, error) {
	if err := t.fail("MarkEnquiryUnlocked"); err != nil {
		return false, err
	}
	e, ok := t.enquiries[enquiryID]
	if !ok || e.SellerID != sellerID || e.Unlocked {
		return false, nil
	}
	e.Unlocked = true
	e.UnlockedAt = &at
	e.UnlockedBy = &sellerID
	t.enquiries[enquiryID] = e
	return true, nil
}

func (t *memTx) LockSellerProfile(_ context.Context, sellerID string) (*entity.SellerProfile, error) {
	if err := t.fail("LockSellerProfile"); err != nil {
		return nil, err
	}
	p, ok := t.profiles[sellerID]
	if !ok {
		return nil, entity.ErrSellerProfileNotFound
	}
	return &p, nil
}

func (t *memTx) SaveFunding(_ context.Context, sellerID string, d entity.FundingDecision) (*entity.SellerProfile, error) {
	if err := t.fail("SaveFunding"); err != nil {
		return nil, err
	}
	p, ok := t.profiles[sellerID]
	if !ok {
		return nil, entity.ErrInsufficientCredits
	}
	if d.ChargeCredit {
		if p.Credits <= 0 {
			return nil, entity.ErrInsufficientCredits
		}
		p.Credits--
	}
	p.FreeLeadsUsed = d.FreeLeadsUsed
	p.FreeLeadsMonth = d.FreeLeadsMonth
	t.profiles[sellerID] = p
	return &p, nil
}

func (t *memTx) AppendLedger(_ context.Context, e *entity.CreditLedgerEntry) error {
	if err := t.fail("AppendLedger"); err != nil {
		return err
	}
	t.ledger = append(t.ledger, *e)
	return nil
}

func (t *memTx) RecordWebhookEvent(_ context.Context, ev *entity.BillingWebhookEvent) error {
	if err := t.fail("RecordWebhookEvent"); err != nil {
		return err
	}
	key := ev.Provider + "/" + ev.ProviderEventID
	if t.events[key] {
		return entity.ErrDuplicateWebhookEvent
	}
	t.events[key] = true
	return nil
}

func (t *memTx) MarkPurchasePaid(_ context.Context, purchaseID, gatewayPaymentID string, at time.Time) (*entity.CreditPurchase, bool, error) {
	if err := t.fail("MarkPurchasePaid"); err != nil {
		return nil, false, err
	}
	p, ok := t.purchases[purchaseID]
	if !ok {
		return nil, false, entity.ErrCreditPurchaseNotFound
	}
	if p.Status == entity.PurchasePaid {
		return &p, false, nil
	}
	p.Status = entity.PurchasePaid
	p.PaidAt = &at
	if gatewayPaymentID != "" {
		p.GatewayPaymentID = gatewayPaymentID
	}
	t.purchases[purchaseID] = p
	return &p, true, nil
}

func (t *memTx) AddCredits(_ context.Context, sellerID string, credits int) (int, error) {
	if err := t.fail("AddCredits"); err != nil {
		return 0, err
	}
	p, ok := t.profiles[sellerID]
	if !ok {
		p = *entity.DefaultSellerProfile(sellerID)
	}
	p.Credits += credits
	t.profiles[sellerID] = p
	return p.Credits, nil
}

func (t *memTx) SetPlan(_ context.Context, sellerID string, plan entity.Plan) error {
	if err := t.fail("SetPlan"); err != nil {
		return err
	}
	p, ok := t.profiles[sellerID]
	if !ok {
		p = *entity.DefaultSellerProfile(sellerID)
	}
	p.Plan = plan
	t.profiles[sellerID] = p
	return nil
}
