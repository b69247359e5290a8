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
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	adminCreateHandler "github.com/m04kA/ClinicBookingService/internal/api/handlers/admin_create_appointment"
	cancelAppointmentHandler "github.com/m04kA/ClinicBookingService/internal/api/handlers/cancel_appointment"
	checkOverlapHandler "github.com/m04kA/ClinicBookingService/internal/api/handlers/check_overlap"
	checkStaffHandler "github.com/m04kA/ClinicBookingService/internal/api/handlers/check_staff_availability"
	checkTimeHandler "github.com/m04kA/ClinicBookingService/internal/api/handlers/check_time_availability"
	completeAppointmentHandler "github.com/m04kA/ClinicBookingService/internal/api/handlers/complete_appointment"
	confirmAppointmentHandler "github.com/m04kA/ClinicBookingService/internal/api/handlers/confirm_appointment"
	createBookingHandler "github.com/m04kA/ClinicBookingService/internal/api/handlers/create_booking"
	deleteAppointmentHandler "github.com/m04kA/ClinicBookingService/internal/api/handlers/delete_appointment"
	getAppointmentHandler "github.com/m04kA/ClinicBookingService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/ClinicBookingService/internal/api/handlers/get_available_slots"
	getServicePolicyHandler "github.com/m04kA/ClinicBookingService/internal/api/handlers/get_service_policy"
	getUserAppointmentsHandler "github.com/m04kA/ClinicBookingService/internal/api/handlers/get_user_appointments"
	listAppointmentsHandler "github.com/m04kA/ClinicBookingService/internal/api/handlers/list_appointments"
	updateAppointmentHandler "github.com/m04kA/ClinicBookingService/internal/api/handlers/update_appointment"
	validateFlexibleTimeHandler "github.com/m04kA/ClinicBookingService/internal/api/handlers/validate_flexible_time"
	"github.com/m04kA/ClinicBookingService/internal/api/middleware"
	"github.com/m04kA/ClinicBookingService/internal/config"
	"github.com/m04kA/ClinicBookingService/internal/infra/events"
	appointmentRepo "github.com/m04kA/ClinicBookingService/internal/infra/storage/appointment"
	categoryRepo "github.com/m04kA/ClinicBookingService/internal/infra/storage/category"
	couponRepo "github.com/m04kA/ClinicBookingService/internal/infra/storage/coupon"
	serviceRepo "github.com/m04kA/ClinicBookingService/internal/infra/storage/service"
	staffServiceClient "github.com/m04kA/ClinicBookingService/internal/integrations/staffservice"
	appointmentsService "github.com/m04kA/ClinicBookingService/internal/service/appointments"
	availabilityService "github.com/m04kA/ClinicBookingService/internal/service/availability"
	couponsService "github.com/m04kA/ClinicBookingService/internal/service/coupons"
	adminCreateUC "github.com/m04kA/ClinicBookingService/internal/usecase/admin_create_appointment"
	confirmAppointmentUC "github.com/m04kA/ClinicBookingService/internal/usecase/confirm_appointment"
	createBookingUC "github.com/m04kA/ClinicBookingService/internal/usecase/create_booking"
	updateAppointmentUC "github.com/m04kA/ClinicBookingService/internal/usecase/update_appointment"
	"github.com/m04kA/ClinicBookingService/pkg/clinictime"
	"github.com/m04kA/ClinicBookingService/pkg/dbmetrics"
	"github.com/m04kA/ClinicBookingService/pkg/logger"
	"github.com/m04kA/ClinicBookingService/pkg/metrics"
	"github.com/m04kA/ClinicBookingService/pkg/tracing"
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

	log.Info("Starting ClinicBookingService...")
	log.Info("Configuration loaded from config.toml")

	// Трейсинг (выключен по умолчанию)
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

	// Инициализируем метрики (если включены). nil *Metrics - все вызовы no-op.
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

	var executor dbmetrics.DBExecutor = db
	if cfg.Metrics.Enabled {
		executor = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	}

	// Репозитории
	appointmentRepository := appointmentRepo.NewRepository(executor)
	categoryRepository := categoryRepo.NewRepository(executor)
	serviceRepository := serviceRepo.NewRepository(executor)
	couponRepository := couponRepo.NewRepository(executor)

	// Интеграции
	staffClient := staffServiceClient.NewClient(
		cfg.StaffService.URL,
		time.Duration(cfg.StaffService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (StaffService=%s timeout=%ds)",
		cfg.StaffService.URL, cfg.StaffService.Timeout)

	dispatcher := events.NewDispatcher(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.BufferSize, log)

	// Значения по умолчанию для категорий
	defaults, err := cfg.Scheduling.Defaults()
	if err != nil {
		log.Fatal("Invalid scheduling defaults: %v", err)
	}
	clock := clinictime.NewClock(cfg.Clinic.Location())
	log.Info("Clinic timezone: %s", cfg.Clinic.Location())

	// Инициализируем сервисы
	availabilitySvc := availabilityService.NewService(
		appointmentRepository,
		categoryRepository,
		serviceRepository,
		defaults,
		availabilityService.Grid{
			StartHour: cfg.Scheduling.FlexibleGridStartHour,
			EndHour:   cfg.Scheduling.FlexibleGridEndHour,
			Step:      cfg.Scheduling.FlexibleGridStep,
		},
		clock,
		metricsCollector,
		log,
	)
	appointmentsSvc := appointmentsService.NewService(appointmentRepository, dispatcher, log)
	couponsSvc := couponsService.NewService(couponRepository, clock, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		appointmentRepository,
		availabilitySvc,
		couponsSvc,
		staffClient,
		dispatcher,
		clock,
		log,
	)
	adminCreateUseCase := adminCreateUC.NewUseCase(
		appointmentRepository,
		availabilitySvc,
		staffClient,
		dispatcher,
		clock,
		log,
	)
	updateAppointmentUseCase := updateAppointmentUC.NewUseCase(
		appointmentRepository,
		availabilitySvc,
		staffClient,
		dispatcher,
		log,
	)
	confirmAppointmentUseCase := confirmAppointmentUC.NewUseCase(
		appointmentRepository,
		availabilitySvc,
		staffClient,
		dispatcher,
		clock,
		log,
	)

	// Инициализируем handlers
	checkTime := checkTimeHandler.NewHandler(availabilitySvc, log)
	checkOverlap := checkOverlapHandler.NewHandler(availabilitySvc, log)
	checkStaff := checkStaffHandler.NewHandler(availabilitySvc, log)
	validateFlexibleTime := validateFlexibleTimeHandler.NewHandler(availabilitySvc, log)
	getServicePolicy := getServicePolicyHandler.NewHandler(availabilitySvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(availabilitySvc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	getUserAppointments := getUserAppointmentsHandler.NewHandler(appointmentsSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, log)
	adminCreate := adminCreateHandler.NewHandler(adminCreateUseCase, log)
	updateAppointment := updateAppointmentHandler.NewHandler(updateAppointmentUseCase, log)
	confirmAppointment := confirmAppointmentHandler.NewHandler(confirmAppointmentUseCase, log)
	completeAppointment := completeAppointmentHandler.NewHandler(appointmentsSvc, log)
	deleteAppointment := deleteAppointmentHandler.NewHandler(appointmentsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// Rate limit на публичные и клиентские ручки (если настроен Redis)
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		limiter := middleware.NewRedisRateLimiter(
			rdb,
			cfg.Redis.RateLimit,
			time.Duration(cfg.Redis.RateWindow)*time.Second,
			cfg.Redis.KeyPrefix,
			cfg.Redis.FailOpen,
			metricsCollector,
			log,
		)
		api.Use(limiter.Middleware())
		log.Info("Redis rate limiter enabled (addr=%s, limit=%d per %ds, fail_open=%t)",
			cfg.Redis.Addr, cfg.Redis.RateLimit, cfg.Redis.RateWindow, cfg.Redis.FailOpen)
	}

	// ============================================================
	// PUBLIC ROUTES (роль учитывается, если заголовки есть)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	public.Use(middleware.OptionalAuth)

	public.HandleFunc("/availability/time", checkTime.Handle).Methods(http.MethodGet)
	public.HandleFunc("/categories/{categoryId}/overlap", checkOverlap.Handle).Methods(http.MethodGet)
	public.HandleFunc("/staff/{staffId}/availability", checkStaff.Handle).Methods(http.MethodGet)
	public.HandleFunc("/services/{serviceId}/flexible-time", validateFlexibleTime.Handle).Methods(http.MethodGet)
	public.HandleFunc("/services/{serviceId}/policy", getServicePolicy.Handle).Methods(http.MethodGet)
	public.HandleFunc("/services/{serviceId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи клиента ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/users/{userId}/appointments", getUserAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// --- Админка (X-User-Role: admin) ---
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin)

	admin.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/appointments", adminCreate.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/appointments/{appointmentId}", updateAppointment.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/appointments/{appointmentId}", deleteAppointment.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/appointments/{appointmentId}/confirm", confirmAppointment.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/appointments/{appointmentId}/complete", completeAppointment.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      otelhttp.NewHandler(r, cfg.Metrics.ServiceName),
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

	// События, оставшиеся в очереди, дописываются в Kafka до закрытия
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Error("Failed to flush events: %v", err)
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to shutdown tracing: %v", err)
	}

	log.Info("Server stopped gracefully")
}
