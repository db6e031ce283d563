package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookly-api/core/cache"
	"bookly-api/core/config"
	"bookly-api/core/database"
	"bookly-api/core/logger"
	"bookly-api/core/middleware"
	"bookly-api/core/queue"
	"bookly-api/modules/auth"
	"bookly-api/modules/availability"
	"bookly-api/modules/booking"
	"bookly-api/modules/calendar"
	"bookly-api/modules/eventtype"
	"bookly-api/modules/notification"
	"bookly-api/modules/payment"
	"bookly-api/modules/waitlist"
	"bookly-api/modules/workflow"
	"bookly-api/worker"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Run wires every module and serves HTTP until the process is signalled.
// The background worker runs in the same process.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	db, err := database.InitDB(database.DatabaseConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
	})
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	c, err := cache.NewRedisCache(cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.QueueDB,
	}
	q := queue.NewClient(redisOpt)
	defer q.Close()

	mw := middleware.NewMiddleware(c)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
	}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(ctx echo.Context, v echomw.RequestLoggerValues) error {
			logger.Info("Request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
			)
			return nil
		},
	}))

	e.GET("/health", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	availabilitySvc := availability.Init(e, db, mw)
	auth.Init(e, db, c, availabilitySvc, mw)
	eventtype.Init(e, db, mw)
	notificationSvc := notification.Init(e, db, mw)
	workflowSvc := workflow.Init(e, db, q, mw)
	waitlistSvc := waitlist.Init(e, db, q, mw)
	calendarSvc := calendar.Init(e, db, mw)

	// Payment and booking reference each other: the payment webhook confirms
	// bookings, and booking creation opens checkout sessions. The service is
	// built first, handed to booking, and its routes registered last with the
	// booking service as confirmer.
	paymentSvc := payment.InitService(db)
	bookingSvc := booking.Init(e, db, c, q, availabilitySvc, mw, booking.Deps{
		Payments:      paymentSvc,
		Calendar:      calendarSvc,
		Workflows:     workflowSvc,
		Waitlist:      waitlistSvc,
		Notifications: notificationSvc,
	})
	payment.Setup(e, paymentSvc, bookingSvc, mw)

	w := worker.New(redisOpt, db, q, bookingSvc)
	w.Start()

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		logger.Info("Server:Run: listening", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Run: server stopped", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Server:Run: shutting down")

	w.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
