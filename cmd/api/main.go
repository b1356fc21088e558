package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xavierca1/marketplace-leads/internal/config"
	"github.com/xavierca1/marketplace-leads/internal/infra/database"
	"github.com/xavierca1/marketplace-leads/internal/infra/http/handlers"
	"github.com/xavierca1/marketplace-leads/internal/infra/http/middleware"
	"github.com/xavierca1/marketplace-leads/internal/infra/integration/asaas"
	"github.com/xavierca1/marketplace-leads/internal/infra/mail"
	"github.com/xavierca1/marketplace-leads/internal/infra/obs"
	"github.com/xavierca1/marketplace-leads/internal/infra/queue"
	"github.com/xavierca1/marketplace-leads/internal/infra/worker"
	"github.com/xavierca1/marketplace-leads/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config inválida: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, "marketplace-leads", cfg.OTLPEndpoint, cfg.Env)
	if err != nil {
		log.Fatalf("❌ Tracing: %v", err)
	}
	defer shutdownTracer(context.Background())

	db, err := database.NewDBConnection(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	migrations, err := database.MigrationsFS(cfg.MigrationsDir)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.RunMigrations(ctx, db, migrations); err != nil {
		log.Fatalf("❌ Migrations: %v", err)
	}

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("❌ RabbitMQ: %v", err)
	}
	defer rabbitMQ.Close()

	// 1. Repositórios
	enquiryRepo := database.NewEnquiryRepository(db)
	listingRepo := database.NewListingRepository(db)
	profileRepo := database.NewSellerProfileRepository(db)
	purchaseRepo := database.NewCreditPurchaseRepository(db)
	ledgerRepo := database.NewCreditLedgerRepository(db)
	txRunner := database.NewTxRunner(db)

	// 2. Gateways e Adapters
	gateway := asaas.NewClient(cfg.AsaasAPIKey, cfg.AsaasURL)
	producer := queue.NewProducer(rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)

	// 3. UseCases
	unlockUC := usecase.NewUnlockEnquiryUseCase(enquiryRepo, profileRepo, txRunner, producer)
	listUC := usecase.NewListEnquiriesUseCase(enquiryRepo, profileRepo)
	createEnquiryUC := usecase.NewCreateEnquiryUseCase(listingRepo, enquiryRepo, producer)
	notifyUC := usecase.NewNotifyNewEnquiryUseCase(profileRepo, listingRepo, mailSender, cfg.EnquiriesDashboardURL())
	getCreditsUC := usecase.NewGetCreditsUseCase(profileRepo, ledgerRepo)
	checkoutUC := usecase.NewStartCheckoutUseCase(profileRepo, purchaseRepo, gateway)
	billingUC := usecase.NewApplyBillingEventUseCase(txRunner, profileRepo, mailSender)

	// 4. Workers
	go func() {
		if err := queue.NewWorker(rabbitMQ.Ch, notifyUC).Start(ctx, queue.QueueName); err != nil {
			log.Printf("❌ Worker de notificações parou: %v", err)
		}
	}()
	go worker.NewCheckoutExpirationWorker(purchaseRepo, cfg.CheckoutExpiration).Start(ctx)

	limiter := middleware.NewRateLimiter(cfg.EnquiryRateLimit, cfg.EnquiryRateBurst)
	go limiter.Cleanup(ctx, 10*time.Minute)

	// 5. Handlers
	router := newRouter(routerDeps{
		Config:  cfg,
		Enquiry: handlers.NewEnquiryHandler(listUC, unlockUC, createEnquiryUC, cfg.UnlockRetryAttempts, cfg.PublicBaseURL),
		Credit:  handlers.NewCreditHandler(getCreditsUC, checkoutUC),
		Webhook: handlers.NewWebhookHandler(billingUC, cfg.AsaasWebhookSecret),
		Health:  handlers.NewHealthHandler(db, rabbitMQ),
		Limiter: limiter,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("🔥 Marketplace Leads rodando em %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Servidor HTTP: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Encerrando...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Shutdown HTTP: %v", err)
	}
}
