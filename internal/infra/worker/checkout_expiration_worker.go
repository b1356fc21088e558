package worker

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/marketplace-leads/internal/entity"
)

type PurchaseExpirer interface {
	ExpireStale(ctx context.Context, createdBefore time.Time) ([]*entity.CreditPurchase, error)
}

// CheckoutExpirationWorker marks unpaid PIX checkouts as EXPIRED. A payment
// that arrives later is still credited by the billing webhook.
type CheckoutExpirationWorker struct {
	purchases        PurchaseExpirer
	expirationWindow time.Duration
	tickInterval     time.Duration
	now              func() time.Time
}

func NewCheckoutExpirationWorker(purchases PurchaseExpirer, expirationWindow time.Duration) *CheckoutExpirationWorker {
	if expirationWindow <= 0 {
		expirationWindow = 30 * time.Minute
	}
	return &CheckoutExpirationWorker{
		purchases:        purchases,
		expirationWindow: expirationWindow,
		tickInterval:     1 * time.Minute,
		now:              time.Now,
	}
}

func (w *CheckoutExpirationWorker) Start(ctx context.Context) {
	log.Printf("🕒 Checkout Expiration Worker iniciado (janela de %s)", w.expirationWindow)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.expireOldCheckouts(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Checkout Expiration Worker encerrado")
			return
		case <-ticker.C:
			w.expireOldCheckouts(ctx)
		}
	}
}

func (w *CheckoutExpirationWorker) expireOldCheckouts(ctx context.Context) int {
	expired, err := w.purchases.ExpireStale(ctx, w.now().Add(-w.expirationWindow))
	if err != nil {
		log.Printf("❌ Erro ao expirar checkouts: %v", err)
		return 0
	}

	for _, p := range expired {
		log.Printf("⏱️ Checkout expirado: purchase=%s seller=%s pack=%s elapsed=%s",
			p.ID, p.SellerID, p.PackID, w.now().Sub(p.CreatedAt).Round(time.Minute))
	}
	if len(expired) > 0 {
		log.Printf("✅ %d checkout(s) marcados como EXPIRED", len(expired))
	}
	return len(expired)
}
