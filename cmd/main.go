package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	acceptTermsHandler "github.com/qhomebase/QH-BookingService/internal/api/handlers/accept_terms"
	approveBookingHandler "github.com/qhomebase/QH-BookingService/internal/api/handlers/approve_booking"
	bookingItemsHandler "github.com/qhomebase/QH-BookingService/internal/api/handlers/booking_items"
	cancelBookingHandler "github.com/qhomebase/QH-BookingService/internal/api/handlers/cancel_booking"
	completeBookingHandler "github.com/qhomebase/QH-BookingService/internal/api/handlers/complete_booking"
	createBookingHandler "github.com/qhomebase/QH-BookingService/internal/api/handlers/create_booking"
	getBookingHandler "github.com/qhomebase/QH-BookingService/internal/api/handlers/get_booking"
	getUserBookingsHandler "github.com/qhomebase/QH-BookingService/internal/api/handlers/get_user_bookings"
	initiatePaymentHandler "github.com/qhomebase/QH-BookingService/internal/api/handlers/initiate_payment"
	paymentCallbackHandler "github.com/qhomebase/QH-BookingService/internal/api/handlers/payment_callback"
	rejectBookingHandler "github.com/qhomebase/QH-BookingService/internal/api/handlers/reject_booking"
	resolveSlotsHandler "github.com/qhomebase/QH-BookingService/internal/api/handlers/resolve_slots"
	searchBookingsHandler "github.com/qhomebase/QH-BookingService/internal/api/handlers/search_bookings"
	updateBookingSlotsHandler "github.com/qhomebase/QH-BookingService/internal/api/handlers/update_booking_slots"
	updatePaymentHandler "github.com/qhomebase/QH-BookingService/internal/api/handlers/update_payment"
	"github.com/qhomebase/QH-BookingService/internal/api/middleware"
	"github.com/qhomebase/QH-BookingService/internal/config"
	bookingRepo "github.com/qhomebase/QH-BookingService/internal/infra/storage/booking"
	paymentRepo "github.com/qhomebase/QH-BookingService/internal/infra/storage/payment"
	catalogClient "github.com/qhomebase/QH-BookingService/internal/integrations/catalog"
	"github.com/qhomebase/QH-BookingService/internal/integrations/notify"
	vnpayClient "github.com/qhomebase/QH-BookingService/internal/integrations/vnpay"
	bookingsService "github.com/qhomebase/QH-BookingService/internal/service/bookings"
	"github.com/qhomebase/QH-BookingService/internal/service/conflict"
	createBookingUC "github.com/qhomebase/QH-BookingService/internal/usecase/create_booking"
	paymentCallbackUC "github.com/qhomebase/QH-BookingService/internal/usecase/handle_payment_callback"
	initiatePaymentUC "github.com/qhomebase/QH-BookingService/internal/usecase/initiate_payment"
	resolveSlotsUC "github.com/qhomebase/QH-BookingService/internal/usecase/resolve_slots"
	updateBookingSlotsUC "github.com/qhomebase/QH-BookingService/internal/usecase/update_booking_slots"
	"github.com/qhomebase/QH-BookingService/pkg/dbmetrics"
	"github.com/qhomebase/QH-BookingService/pkg/logger"
	"github.com/qhomebase/QH-BookingService/pkg/metrics"
	"github.com/qhomebase/QH-BookingService/pkg/simpletxmanager"
	"github.com/qhomebase/QH-BookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting QH-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	catalog := catalogClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	vnpay := vnpayClient.NewClient(cfg.Vnpay.PayURL, cfg.Vnpay.TmnCode, cfg.Vnpay.HashSecret, log)
	log.Info("Integration clients initialized (CatalogService=%s timeout=%ds, VNPAY=%s)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout, cfg.Vnpay.PayURL)

	// Публикация событий в RabbitMQ (опционально)
	type eventPublisher interface {
		Publish(ctx context.Context, key string, event interface{})
		Close() error
	}
	var notifier eventPublisher
	if cfg.Rabbit.Enabled {
		publisher, err := notify.NewPublisher(cfg.Rabbit.URL, cfg.Rabbit.Exchange, log)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		notifier = publisher
		log.Info("Event publisher connected (exchange=%s)", cfg.Rabbit.Exchange)
	} else {
		notifier = notify.NewNopPublisher()
		log.Info("Event publisher disabled")
	}
	defer notifier.Close()

	// Интерфейс для transaction manager (используется в сервисах и usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		paymentRepository *paymentRepo.Repository
		txMgr             TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		paymentRepository = paymentRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		paymentRepository = paymentRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	detector := conflict.NewDetector()
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		catalog,
		notifier,
		txMgr,
		log,
	)

	// Инициализируем use cases
	resolveSlotsUseCase := resolveSlotsUC.NewUseCase(
		bookingRepository,
		catalog,
		detector,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		catalog,
		detector,
		notifier,
		txMgr,
		log,
	)
	updateBookingSlotsUseCase := updateBookingSlotsUC.NewUseCase(
		bookingRepository,
		catalog,
		detector,
		txMgr,
		log,
	)
	initiatePaymentUseCase := initiatePaymentUC.NewUseCase(
		bookingRepository,
		paymentRepository,
		vnpay,
		txMgr,
		cfg.Vnpay.ReturnURL,
		log,
	)
	paymentCallbackUseCase := paymentCallbackUC.NewUseCase(
		paymentRepository,
		bookingRepository,
		vnpay,
		notifier,
		txMgr,
		log,
	)

	// Инициализируем handlers
	resolveSlots := resolveSlotsHandler.NewHandler(resolveSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	acceptTerms := acceptTermsHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingSlots := updateBookingSlotsHandler.NewHandler(updateBookingSlotsUseCase, log)
	bookingItems := bookingItemsHandler.NewHandler(bookingSvc, log)
	searchBookings := searchBookingsHandler.NewHandler(bookingSvc, log)
	approveBooking := approveBookingHandler.NewHandler(bookingSvc, log)
	rejectBooking := rejectBookingHandler.NewHandler(bookingSvc, log)
	completeBooking := completeBookingHandler.NewHandler(bookingSvc, log)
	updatePayment := updatePaymentHandler.NewHandler(bookingSvc, log)
	initiatePayment := initiatePaymentHandler.NewHandler(initiatePaymentUseCase, log)
	paymentCallback := paymentCallbackHandler.NewHandler(paymentCallbackUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Подбор доступных слотов услуги
	api.HandleFunc("/services/{serviceId}/slots", resolveSlots.Handle).Methods(http.MethodGet)

	// Callback платёжного шлюза VNPAY
	api.HandleFunc("/payments/vnpay/callback", paymentCallback.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Принятие условий бронирования
	protected.HandleFunc("/bookings/{bookingId}/accept-terms", acceptTerms.Handle).Methods(http.MethodPost)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Полная замена слотов бронирования
	protected.HandleFunc("/bookings/{bookingId}/slots", updateBookingSlots.Handle).Methods(http.MethodPut)

	// --- Позиции бронирования ---
	protected.HandleFunc("/bookings/{bookingId}/items", bookingItems.HandleAdd).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/items/{itemId}", bookingItems.HandleUpdate).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/items/{itemId}", bookingItems.HandleDelete).Methods(http.MethodDelete)

	// --- Оплата ---
	// Инициация оплаты через VNPAY
	protected.HandleFunc("/bookings/{bookingId}/payment", initiatePayment.Handle).Methods(http.MethodPost)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Административные операции ---
	protected.HandleFunc("/admin/bookings", searchBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/admin/bookings/{bookingId}/approve", approveBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/admin/bookings/{bookingId}/reject", rejectBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/admin/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/admin/bookings/{bookingId}/payment", updatePayment.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
