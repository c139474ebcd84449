package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"saletech/config"
	"saletech/database"
	"saletech/handler"
	"saletech/logger"
	"saletech/realtime"
	"saletech/repository"
	"saletech/router"
	"saletech/scheduler"
	"saletech/service"
	"saletech/vnpay"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Log); err != nil {
		logger.Error("init logger", "error", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	var broker realtime.Broker = realtime.NewLocalBroker()
	var locker scheduler.Locker = scheduler.NoopLocker{}
	if cfg.Redis.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := realtime.NewRedisClient(ctx, cfg.Redis)
		cancel()
		if err != nil {
			logger.Error("redis unavailable", "addr", cfg.Redis.Addr, "error", err)
			os.Exit(1)
		}
		defer client.Close()
		broker = realtime.NewRedisBroker(client)
		locker = scheduler.NewRedisLocker(client)
	} else {
		logger.Warn("REDIS_ADDR not set, using in-process events and no sweep lock")
	}

	clock := service.SystemClock{}
	gateway := vnpay.New(cfg.VNPay)

	processors, err := service.SelectProcessors(cfg.Payment.Methods,
		service.NewCashProcessor(clock),
		service.NewVNPayProcessor(clock, cfg.Payment.Timeout),
	)
	if err != nil {
		logger.Error("payment processors", "error", err)
		os.Exit(1)
	}

	tx := repository.NewTxManagerGorm(db)
	payments := repository.NewPaymentGormRepository(db)
	orderService := service.NewOrderService(tx, repository.NewOrderGormRepository(db),
		service.NewPaymentService(processors...), gateway, broker, clock)
	processing := service.NewPaymentProcessingService(tx, broker, clock)

	h := &handler.Handler{
		Orders:   orderService,
		Payments: processing,
		VNPay:    gateway,
		Carts:    service.NewCartService(tx),
		Auth:     service.NewAuthService(repository.NewUserGormRepository(db), cfg.JWT),
		Broker:   broker,
	}

	sweep := scheduler.NewPaymentTimeoutJob(payments, processing, locker, cfg.Payment.SweepInterval)
	sched, err := scheduler.StartPaymentTimeout(sweep, cfg.Payment.SweepInterval)
	if err != nil {
		logger.Error("start payment timeout scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: handler.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowCredentials: true,
		ExposeHeaders:    "Set-Cookie",
		MaxAge:           600,
	}))
	router.SetupRoutes(app, h, cfg.JWT.Secret)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Server.Port)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		logger.Error("server stopped", "error", err)
	}
}
