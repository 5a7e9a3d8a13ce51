package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/m04kA/appointweb-booking/internal/api/handlers"
	cancelAppointmentHandler "github.com/m04kA/appointweb-booking/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/appointweb-booking/internal/api/handlers/create_appointment"
	createServiceHandler "github.com/m04kA/appointweb-booking/internal/api/handlers/create_service"
	deleteAppointmentHandler "github.com/m04kA/appointweb-booking/internal/api/handlers/delete_appointment"
	deleteServiceHandler "github.com/m04kA/appointweb-booking/internal/api/handlers/delete_service"
	getAppointmentHandler "github.com/m04kA/appointweb-booking/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/appointweb-booking/internal/api/handlers/get_available_slots"
	getBusinessHandler "github.com/m04kA/appointweb-booking/internal/api/handlers/get_business"
	getWorkingHoursHandler "github.com/m04kA/appointweb-booking/internal/api/handlers/get_working_hours"
	listAppointmentsHandler "github.com/m04kA/appointweb-booking/internal/api/handlers/list_appointments"
	registerBusinessHandler "github.com/m04kA/appointweb-booking/internal/api/handlers/register_business"
	updateBookingFormHandler "github.com/m04kA/appointweb-booking/internal/api/handlers/update_booking_form"
	updateCustomURLHandler "github.com/m04kA/appointweb-booking/internal/api/handlers/update_custom_url"
	updateServiceHandler "github.com/m04kA/appointweb-booking/internal/api/handlers/update_service"
	updateWorkingHoursHandler "github.com/m04kA/appointweb-booking/internal/api/handlers/update_working_hours"
	"github.com/m04kA/appointweb-booking/internal/api/middleware"
	"github.com/m04kA/appointweb-booking/internal/config"
	"github.com/m04kA/appointweb-booking/internal/domain"
	"github.com/m04kA/appointweb-booking/internal/infra/cache/schedule"
	appointmentRepo "github.com/m04kA/appointweb-booking/internal/infra/storage/appointment"
	businessRepo "github.com/m04kA/appointweb-booking/internal/infra/storage/business"
	"github.com/m04kA/appointweb-booking/internal/integrations/events"
	appointmentsService "github.com/m04kA/appointweb-booking/internal/service/appointments"
	businessService "github.com/m04kA/appointweb-booking/internal/service/business"
	createBookingUC "github.com/m04kA/appointweb-booking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/appointweb-booking/internal/usecase/get_available_slots"
	"github.com/m04kA/appointweb-booking/pkg/dbmetrics"
	"github.com/m04kA/appointweb-booking/pkg/logger"
	"github.com/m04kA/appointweb-booking/pkg/metrics"
	"github.com/m04kA/appointweb-booking/pkg/tracing"
	"github.com/m04kA/appointweb-booking/pkg/txmanager"
)

// appointmentPublisher издатель событий записей: Kafka или заглушка
type appointmentPublisher interface {
	PublishAppointmentCreated(ctx context.Context, appt *domain.Appointment) error
	PublishAppointmentCancelled(ctx context.Context, appt *domain.Appointment) error
	Close() error
}

// profileCache кэш профиля бизнеса: Redis или прямое чтение из БД
type profileCache interface {
	GetByID(ctx context.Context, id string) (*domain.Business, error)
	Invalidate(ctx context.Context, id string) error
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	logOpts := []logger.Option{logger.WithField("service", cfg.Metrics.ServiceName)}
	if strings.EqualFold(cfg.Logs.Format, "console") {
		logOpts = append(logOpts, logger.WithConsoleFormat())
	}
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level, logOpts...)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting appointweb-booking...")
	log.Info("Configuration loaded from config.toml")

	// Трейсинг: пропагаторы ставятся всегда, экспорт только если включен
	shutdownTracing, err := tracing.Setup(context.Background(), tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to setup tracing: %v", err)
	}
	if cfg.Tracing.Enabled {
		log.Info("Tracing enabled, exporting to %s", cfg.Tracing.OTLPEndpoint)
	}

	// Инициализируем метрики (если включены).
	// nil-коллектор безопасен: все потребители его проверяют.
	var metricsCollector *metrics.Metrics
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

	// Обёртка нужна и без метрик: через неё transaction manager
	// передаёт транзакцию репозиториям
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	// Репозитории и transaction manager
	businessRepository := businessRepo.NewRepository(wrappedDB)
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Кэш профиля бизнеса
	var cache profileCache = schedule.Passthrough{Source: businessRepository}
	if cfg.Redis.Enabled {
		redisClient := schedule.NewRedisClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		defer redisClient.Close()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		err := schedule.Ping(pingCtx, redisClient)
		cancelPing()
		if err != nil {
			log.Fatal("Failed to connect to Redis: %v", err)
		}

		cache = schedule.New(
			redisClient,
			businessRepository,
			time.Duration(cfg.Redis.CacheTTLSeconds)*time.Second,
			log,
			metricsCollector,
		)
		log.Info("Redis cache enabled (address=%s, ttl=%ds)", cfg.Redis.Address, cfg.Redis.CacheTTLSeconds)
	}

	// Издатель событий
	var publisher appointmentPublisher = events.NoopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = events.NewPublisher(events.NewKafkaWriter(cfg.Kafka.Brokers), log, metricsCollector)
		log.Info("Kafka publisher enabled (brokers=%v)", cfg.Kafka.Brokers)
	}

	policy := domain.BookingPolicy{
		AdvanceBookingDays: cfg.Booking.AdvanceBookingDays,
		MinNoticeMinutes:   cfg.Booking.MinNoticeMinutes,
	}

	// Инициализируем сервисы
	businessSvc := businessService.NewService(businessRepository, cache, log)
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		businessRepository,
		publisher,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		businessRepository,
		appointmentRepository,
		publisher,
		txMgr,
		policy,
		metricsCollector,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		cache,
		appointmentRepository,
		policy,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	getBusiness := getBusinessHandler.NewHandler(businessSvc, log)
	getWorkingHours := getWorkingHoursHandler.NewHandler(businessSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createBookingUseCase, log)
	registerBusiness := registerBusinessHandler.NewHandler(businessSvc, log)
	updateWorkingHours := updateWorkingHoursHandler.NewHandler(businessSvc, log)
	createService := createServiceHandler.NewHandler(businessSvc, log)
	updateBookingForm := updateBookingFormHandler.NewHandler(businessSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	updateService := updateServiceHandler.NewHandler(businessSvc, log)
	deleteService := deleteServiceHandler.NewHandler(businessSvc, log)
	updateCustomURL := updateCustomURLHandler.NewHandler(businessSvc, log)
	deleteAppointment := deleteAppointmentHandler.NewHandler(appointmentsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Middleware уровня сервера оборачивают роутер снаружи,
	// иначе ответы 404/405 проходят мимо них
	var handler http.Handler = r
	if cfg.Metrics.Enabled {
		r.Use(middleware.RouteLabel)
		handler = middleware.MetricsMiddleware(metricsCollector)(handler)
		log.Info("HTTP metrics middleware enabled")
	}
	handler = middleware.AccessLog(log)(handler)
	handler = middleware.RequestID(handler)

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Health check
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			log.Error("Health check failed: %v", err)
			handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Профиль бизнеса и его расписание
	api.HandleFunc("/businesses/{businessId}", getBusiness.Handle).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}/working-hours", getWorkingHours.Handle).Methods(http.MethodGet)

	// Слоты и запись клиента ограничены по частоте на IP
	limiter, err := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.TrustedProxies)
	if err != nil {
		log.Fatal("Failed to create rate limiter: %v", err)
	}
	stopLimiterCh := make(chan struct{})
	go limiter.RunCleanup(time.Minute, time.Duration(cfg.RateLimit.ClientIdleSeconds)*time.Second, stopLimiterCh)
	log.Info("Rate limit %.2f rps (burst=%d, trusted_proxies=%v)",
		cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.TrustedProxies)
	limited := api.PathPrefix("").Subrouter()
	limited.Use(limiter.Middleware)

	// Получение доступных слотов для записи
	limited.HandleFunc("/businesses/{businessId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание записи клиентом
	limited.HandleFunc("/businesses/{businessId}/appointments",
		createAppointment.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Управление бизнесом (для владельца) ---
	// Регистрация бизнеса
	protected.HandleFunc("/businesses", registerBusiness.Handle).Methods(http.MethodPost)

	// Рабочие часы
	protected.HandleFunc("/businesses/{businessId}/working-hours", updateWorkingHours.Handle).Methods(http.MethodPut)

	// Услуги
	protected.HandleFunc("/businesses/{businessId}/services", createService.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/businesses/{businessId}/services/{serviceId}", updateService.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/services/{serviceId}", deleteService.Handle).Methods(http.MethodDelete)

	// Адрес страницы записи
	protected.HandleFunc("/businesses/{businessId}/custom-url", updateCustomURL.Handle).Methods(http.MethodPut)

	// Форма бронирования
	protected.HandleFunc("/businesses/{businessId}/booking-form", updateBookingForm.Handle).Methods(http.MethodPut)

	// --- Записи бизнеса ---
	// Список предстоящих записей
	protected.HandleFunc("/businesses/{businessId}/appointments", listAppointments.Handle).Methods(http.MethodGet)

	// Получение записи по ID
	protected.HandleFunc("/businesses/{businessId}/appointments/{appointmentId}",
		getAppointment.Handle).Methods(http.MethodGet)

	// Отмена записи
	protected.HandleFunc("/businesses/{businessId}/appointments/{appointmentId}/cancel",
		cancelAppointment.Handle).Methods(http.MethodPatch)

	// Удаление записи
	protected.HandleFunc("/businesses/{businessId}/appointments/{appointmentId}",
		deleteAppointment.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      otelhttp.NewHandler(handler, cfg.Metrics.ServiceName),
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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	close(stopLimiterCh)

	// Дожидаемся отправки буфера событий
	if err := publisher.Close(); err != nil {
		log.Error("Failed to close event publisher: %v", err)
	}

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to shutdown tracing: %v", err)
	}

	log.Info("Server stopped gracefully")
}
