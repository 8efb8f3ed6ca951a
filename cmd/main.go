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
	_ "time/tzdata"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"

	cancelBookingHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/cancel_booking"
	changePasswordHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/change_password"
	createBookingHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/get_booking"
	getMeHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/get_me"
	getVenueHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/get_venue"
	getVenueSettingsHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/get_venue_settings"
	listRulesHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/list_availability_rules"
	listBookingsHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/list_bookings"
	listServicesHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/list_services"
	listVenuesHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/list_venues"
	loginHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/login"
	logoutHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/logout"
	updateRuleHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/update_availability_rule"
	updateStatusHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/update_booking_status"
	updateServiceHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/update_service"
	updateVenueSettingsHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/update_venue_settings"
	"github.com/m04kA/SMC-VenueBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-VenueBookingService/internal/config"
	"github.com/m04kA/SMC-VenueBookingService/internal/infra/cache/slots"
	adminRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/admin"
	availabilityRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/catalog"
	venueRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/venue"
	"github.com/m04kA/SMC-VenueBookingService/internal/integrations/notifier"
	authService "github.com/m04kA/SMC-VenueBookingService/internal/service/auth"
	bookingsService "github.com/m04kA/SMC-VenueBookingService/internal/service/bookings"
	catalogService "github.com/m04kA/SMC-VenueBookingService/internal/service/catalog"
	policyService "github.com/m04kA/SMC-VenueBookingService/internal/service/policy"
	createBookingUC "github.com/m04kA/SMC-VenueBookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-VenueBookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-VenueBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-VenueBookingService/pkg/logger"
	"github.com/m04kA/SMC-VenueBookingService/pkg/metrics"
	"github.com/m04kA/SMC-VenueBookingService/pkg/txmanager"
)

// slotCache общий интерфейс redis кэша и заглушки
type slotCache interface {
	createBookingUC.SlotCache
	getAvailableSlotsUC.SlotCache
	policyService.SlotCache
}

func main() {
	configPath := "config.toml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-VenueBookingService...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Venue.Location()
	if err != nil {
		log.Fatal("Invalid venue timezone: %v", err)
	}

	// Суммы в JSON отдаются числами
	decimal.MarshalJSONWithoutQuotes = true

	// Инициализируем метрики (если включены)
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

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без метрик обёртка работает как прозрачный прокси
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Кэш доступности слотов
	var cache slotCache = slots.NopCache{}
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}
		cancel()

		cache = slots.New(redisClient, cfg.Redis.SlotsTTL())
		log.Info("Slots cache enabled (redis=%s, ttl=%s)", cfg.Redis.Addr, cfg.Redis.SlotsTTL())
	} else {
		log.Info("Slots cache disabled")
	}

	// Уведомления о бронированиях
	notifierClient := notifier.NewClient(
		cfg.Notifications.WebhookURL,
		time.Duration(cfg.Notifications.Timeout)*time.Second,
		log,
	)
	if notifierClient.Enabled() {
		log.Info("Booking notifications enabled (timeout=%ds)", cfg.Notifications.Timeout)
	}

	// Инициализируем репозитории
	venueRepository := venueRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	ruleRepository := availabilityRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	adminRepository := adminRepo.NewRepository(wrappedDB)

	// Инициализируем сервисы
	policySvc := policyService.NewService(venueRepository, cache, log)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		policySvc,
		cache,
		notifierClient,
		metricsCollector,
		bookingsService.RealTimeProvider{},
		location,
		log,
	)
	catalogSvc := catalogService.NewService(
		venueRepository,
		catalogRepository,
		ruleRepository,
		bookingRepository,
		txMgr,
		cache,
		bookingsService.RealTimeProvider{},
		location,
		log,
	)
	authSvc := authService.NewService(
		adminRepository,
		cfg.Auth.JWTSecret,
		cfg.Auth.Issuer,
		cfg.Auth.TokenTTL(),
		bookingsService.RealTimeProvider{},
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		venueRepository,
		catalogRepository,
		ruleRepository,
		bookingRepository,
		txMgr,
		cache,
		notifierClient,
		metricsCollector,
		&createBookingUC.RealTimeProvider{},
		location,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		venueRepository,
		catalogRepository,
		ruleRepository,
		bookingRepository,
		cache,
		metricsCollector,
		&getAvailableSlotsUC.RealTimeProvider{},
		location,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	updateStatus := updateStatusHandler.NewHandler(bookingSvc, log)
	listVenues := listVenuesHandler.NewHandler(catalogSvc, log)
	getVenue := getVenueHandler.NewHandler(catalogSvc, log)
	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	updateService := updateServiceHandler.NewHandler(catalogSvc, log)
	listRules := listRulesHandler.NewHandler(catalogSvc, log)
	updateRule := updateRuleHandler.NewHandler(catalogSvc, log)
	getVenueSettings := getVenueSettingsHandler.NewHandler(policySvc, log)
	updateVenueSettings := updateVenueSettingsHandler.NewHandler(policySvc, log)
	login := loginHandler.NewHandler(authSvc, log)
	getMe := getMeHandler.NewHandler(authSvc, log)
	logout := logoutHandler.NewHandler(log)
	changePassword := changePasswordHandler.NewHandler(authSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Лимит на публичные эндпоинты записи
	limited := func(h http.HandlerFunc) http.Handler { return h }
	if cfg.RateLimit.Enabled {
		trustedProxies, err := cfg.RateLimit.TrustedProxyPrefixes()
		if err != nil {
			log.Fatal("Invalid rate limit trusted proxies: %v", err)
		}
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, trustedProxies)
		limit := limiter.Middleware(log)
		limited = func(h http.HandlerFunc) http.Handler { return limit(h) }
		log.Info("Rate limit enabled (rps=%.2f, burst=%d, trusted_proxies=%d)",
			cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, len(trustedProxies))
	}

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/venues", listVenues.Handle).Methods(http.MethodGet)
	api.HandleFunc("/venues/{venueId}", getVenue.Handle).Methods(http.MethodGet)
	api.HandleFunc("/availability/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	api.Handle("/bookings", limited(createBooking.Handle)).Methods(http.MethodPost)
	api.HandleFunc("/bookings/manage/{token}", getBooking.Handle).Methods(http.MethodGet)
	api.Handle("/bookings/manage/{token}/cancel", limited(cancelBooking.Handle)).Methods(http.MethodPost)

	api.Handle("/auth/login", limited(login.Handle)).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", logout.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (Authorization: Bearer <jwt>)
	// ============================================================

	authMiddleware := middleware.Auth(authSvc, log)

	me := api.PathPrefix("/auth").Subrouter()
	me.Use(authMiddleware)
	me.HandleFunc("/me", getMe.Handle).Methods(http.MethodGet)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(authMiddleware)

	// --- Учетная запись ---
	admin.HandleFunc("/me/password", changePassword.Handle).Methods(http.MethodPatch)

	// --- Бронирования площадки ---
	admin.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings", createBooking.HandleManual).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{bookingId}/status", updateStatus.Handle).Methods(http.MethodPatch)

	// --- Каталог и рабочее время ---
	admin.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/services/{serviceId}", updateService.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/availability", listRules.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/availability/{ruleId}", updateRule.Handle).Methods(http.MethodPatch)

	// --- Политика бронирования ---
	admin.HandleFunc("/venue/settings", getVenueSettings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/venue/settings", updateVenueSettings.Handle).Methods(http.MethodPatch)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      corsHandler.Handler(r),
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

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
