package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "kobolend-backend/internal/adapter/http"
	"kobolend-backend/internal/adapter/middleware"
	"kobolend-backend/internal/adapter/repository/mysql"
	"kobolend-backend/internal/config"
	"kobolend-backend/internal/gateway/crc"
	"kobolend-backend/internal/gateway/firstcentral"
	"kobolend-backend/internal/gateway/switchclient"
	"kobolend-backend/internal/infrastructure/cache"
	"kobolend-backend/internal/infrastructure/db"
	"kobolend-backend/internal/notify"
	"kobolend-backend/internal/queue"
	accountuc "kobolend-backend/internal/usecase/account"
	"kobolend-backend/internal/usecase/bureaucheck"
	eliguc "kobolend-backend/internal/usecase/eligibility"
	loanuc "kobolend-backend/internal/usecase/loan"
	paymentuc "kobolend-backend/internal/usecase/payment"
)

const sweepInterval = time.Hour

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		log.Fatal(err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	// repositories
	customers := mysql.NewCustomerRepository(gdb)
	blacklists := mysql.NewBlacklistRepository(gdb)
	whitelists := mysql.NewWhitelistRepository(gdb)
	offers := mysql.NewOfferRepository(gdb)
	fees := mysql.NewFeeRepository(gdb)
	loanOffers := mysql.NewLoanOfferRepository(gdb)
	loans := mysql.NewLoanRepository(gdb)
	transactions := mysql.NewTransactionRepository(gdb)
	reports := mysql.NewBureauRepository(gdb)
	settings := mysql.NewSettingRepository(gdb)
	uow := mysql.NewGormUoW(gdb)

	// gateways
	switchc := switchclient.NewHTTPClient(cfg.SwitchBaseURL, cfg.SwitchAPIKey, cfg.SwitchTimeout)
	crcGw := crc.New(cfg.CRCBaseURL, cfg.CRCUsername, cfg.CRCPassword, cfg.SwitchTimeout)
	fcGw := firstcentral.New(cfg.FirstCentralBaseURL, cfg.FirstCentralUsername, cfg.FirstCentralPassword, cfg.SwitchTimeout)

	// queue
	q := queue.NewRedisQueue(rdb)
	worker := queue.NewWorker(q, cfg.WorkerPollInterval)
	notifier := notify.NewQueueDispatcher(q)
	sms := notify.NewSMSSender(cfg.SMSBaseURL, cfg.SMSAPIKey, cfg.SwitchTimeout)

	// usecases
	bureau := bureaucheck.NewUsecase(whitelists, reports, uow, crcGw, fcGw)
	eligibility := eliguc.NewUsecase(customers, blacklists, whitelists, offers, fees, loanOffers, loans, settings, switchc, uow)
	loanUC := loanuc.NewUsecase(settings, bureau, switchc, loans, uow)
	payments := paymentuc.NewUsecase(switchc, loanUC, q, notifier, uow, loanOffers, transactions,
		cfg.DebitRequeryDelay, cfg.CreditRequeryDelay)
	accounts := accountuc.NewUsecase(customers, switchc)

	// background tasks
	worker.Register(queue.TaskRequeryTransaction, payments.HandleRequeryTask)
	worker.Register(queue.TaskSendSMS, sms.HandleSendTask)
	worker.Register(queue.TaskOverdueSweep, func(ctx context.Context, _ []byte) error {
		if err := loanUC.SweepOverdue(ctx); err != nil {
			log.Printf("overdue sweep: %v", err)
		}
		return q.Schedule(ctx, queue.TaskOverdueSweep, nil, sweepInterval)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := q.Schedule(ctx, queue.TaskOverdueSweep, nil, 0); err != nil {
		log.Fatal(err)
	}
	go worker.Run(ctx)

	// http
	h := httpadp.NewHandler()
	loanH := httpadp.NewLoanHandler(eligibility, loanUC, payments)
	paymentH := httpadp.NewPaymentHandler(payments)
	customerH := httpadp.NewCustomerHandler(accounts)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	idemp := middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	e.GET("/health", h.Health)
	e.POST("/loans/offers", loanH.Offers, idemp)
	e.POST("/loans/offers/:loan_offer_id/accept", loanH.Accept, idemp)
	e.POST("/loans/:loan_offer_id/debit", loanH.Debit, idemp)
	e.POST("/loans/:loan_offer_id/refund", loanH.Refund, idemp)
	e.POST("/loans/:loan_offer_id/manual-payment", loanH.ManualPayment, idemp)
	e.POST("/payments/notification", paymentH.Notification)
	e.POST("/customers/resolve-account", customerH.ResolveAccount)
	e.POST("/customers/virtual-account", customerH.VirtualAccount)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
