package main

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/cancel_booking"
	completeBookingHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/complete_booking"
	createBookingHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/create_booking"
	createServiceHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/create_service"
	deleteServiceHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/delete_service"
	getAvailableSlotsHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_booking"
	getProfileHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_profile"
	getProviderBookingsHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_provider_bookings"
	getScheduleHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_schedule"
	getUserBookingsHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_user_bookings"
	listChatMessagesHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/list_chat_messages"
	listChatsHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/list_chats"
	listProvidersHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/list_providers"
	listServicesHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/list_services"
	markChatReadHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/mark_chat_read"
	openChatHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/open_chat"
	sendMessageHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/send_message"
	streamChatMessagesHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/stream_chat_messages"
	streamProviderBookingsHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/stream_provider_bookings"
	updateScheduleHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/update_schedule"
	updateServiceHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/update_service"
	upsertProfileHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/upsert_profile"
	"github.com/m04kA/SMC-BarberBooking/internal/api/middleware"
	"github.com/m04kA/SMC-BarberBooking/internal/config"
	"github.com/m04kA/SMC-BarberBooking/internal/infra/events"
	"github.com/m04kA/SMC-BarberBooking/internal/infra/events/kafkabus"
	"github.com/m04kA/SMC-BarberBooking/internal/infra/events/redisbus"
	bookingRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/catalog"
	chatRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/chat"
	scheduleRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/schedule"
	userRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/user"
	bookingsService "github.com/m04kA/SMC-BarberBooking/internal/service/bookings"
	catalogService "github.com/m04kA/SMC-BarberBooking/internal/service/catalog"
	chatsService "github.com/m04kA/SMC-BarberBooking/internal/service/chats"
	scheduleService "github.com/m04kA/SMC-BarberBooking/internal/service/schedule"
	usersService "github.com/m04kA/SMC-BarberBooking/internal/service/users"
	createBookingUC "github.com/m04kA/SMC-BarberBooking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-BarberBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-BarberBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
	"github.com/m04kA/SMC-BarberBooking/pkg/metrics"
	"github.com/m04kA/SMC-BarberBooking/pkg/txmanager"
)

const (
	rateLimitWindow      = time.Minute
	rateLimitPrefix      = "ratelimit"
	rateLimitCleanup     = 5 * time.Minute
	rateLimitIdleTimeout = 10 * time.Minute
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

	log.Info("Starting SMC-BarberBooking...")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

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

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.PingContext(ctx); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// С метриками все запросы идут через обёртку, без них напрямую в *sql.DB
	var executor dbmetrics.DBExecutor = db
	if cfg.Metrics.Enabled {
		executor = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	}

	bookingRepository := bookingRepo.NewRepository(executor)
	scheduleRepository := scheduleRepo.NewRepository(executor)
	catalogRepository := catalogRepo.NewRepository(executor)
	userRepository := userRepo.NewRepository(executor)
	chatRepository := chatRepo.NewRepository(executor)
	txMgr := txmanager.NewTransactionManager(executor)

	// Шина событий: Redis (live-обновления) и Kafka (внешние потребители)
	var (
		publishers     []events.Publisher
		subscriber     bookingsService.EventSubscriber
		chatPublisher  chatsService.EventPublisher
		chatSubscriber chatsService.EventSubscriber
		redisClient    *redis.Client
	)

	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		bus := redisbus.New(redisClient, cfg.Redis.Channel, log)
		if err := bus.Ping(ctx); err != nil {
			log.Warn("Redis is unreachable, live updates may be delayed: %v", err)
		}
		publishers = append(publishers, bus)
		subscriber = bus
		chatPublisher = bus
		chatSubscriber = bus
		log.Info("Redis event bus enabled (addr=%s, channel=%s)", cfg.Redis.Addr, cfg.Redis.Channel)
	}

	if cfg.Kafka.Enabled {
		kafkaPublisher := kafkabus.New(kafkabus.Config{
			Brokers:      cfg.Kafka.BrokerList(),
			Topic:        cfg.Kafka.Topic,
			WriteTimeout: time.Duration(cfg.Kafka.WriteTimeout) * time.Second,
		})
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				log.Error("Failed to close kafka publisher: %v", err)
			}
		}()
		publishers = append(publishers, kafkaPublisher)
		log.Info("Kafka publisher enabled (brokers=%s, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	publisher := events.NewFanout(publishers...)

	// Инициализируем сервисы
	userSvc := usersService.NewService(userRepository, log)
	scheduleSvc := scheduleService.NewService(scheduleRepository, userRepository, log)
	catalogSvc := catalogService.NewService(catalogRepository, userRepository, txMgr, log)
	chatSvc := chatsService.NewService(
		chatRepository,
		userRepository,
		txMgr,
		chatPublisher,
		chatSubscriber,
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		publisher,
		subscriber,
		metricsCollector,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		catalogSvc,
		publisher,
		metricsCollector,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		txMgr,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	completeBooking := completeBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getProviderBookings := getProviderBookingsHandler.NewHandler(bookingSvc, log)
	streamProviderBookings := streamProviderBookingsHandler.NewHandler(bookingSvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(scheduleSvc, log)
	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	createService := createServiceHandler.NewHandler(catalogSvc, log)
	updateService := updateServiceHandler.NewHandler(catalogSvc, log)
	deleteService := deleteServiceHandler.NewHandler(catalogSvc, log)
	listProviders := listProvidersHandler.NewHandler(userSvc, log)
	getProfile := getProfileHandler.NewHandler(userSvc, log)
	upsertProfile := upsertProfileHandler.NewHandler(userSvc, log)
	listChats := listChatsHandler.NewHandler(chatSvc, log)
	openChat := openChatHandler.NewHandler(chatSvc, log)
	listChatMessages := listChatMessagesHandler.NewHandler(chatSvc, log)
	sendMessage := sendMessageHandler.NewHandler(chatSvc, log)
	markChatRead := markChatReadHandler.NewHandler(chatSvc, log)
	streamChatMessages := streamChatMessagesHandler.NewHandler(chatSvc, log)

	auth := middleware.NewAuth(cfg.Auth.JWTSecret, cfg.Auth.Leeway(), log)

	// Лимит на изменяющие запросы: общий счётчик в Redis, иначе локальный token bucket
	limit := func(next http.Handler) http.Handler { return next }
	if cfg.RateLimit.Enabled {
		if redisClient != nil {
			limiter := middleware.NewRedisRateLimiter(redisClient, cfg.RateLimit.RequestsPerMinute,
				rateLimitWindow, rateLimitPrefix, cfg.RateLimit.FailOpen, log).
				WithTrustProxy(cfg.RateLimit.TrustProxy)
			limit = limiter.Middleware
			log.Info("Rate limiting via Redis: %d req/min", cfg.RateLimit.RequestsPerMinute)
		} else {
			limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, log).
				WithTrustProxy(cfg.RateLimit.TrustProxy)
			go limiter.Cleanup(ctx, rateLimitCleanup, rateLimitIdleTimeout)
			limit = limiter.Middleware
			log.Info("Rate limiting in memory: %d req/min, burst=%d",
				cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
		}
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PROTECTED ROUTES (требуют Bearer JWT)
	// Регистрируются первыми: /providers/me/... не должен попасть в /providers/{providerId}/...
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(auth.Middleware)

	// --- Профиль ---
	protected.HandleFunc("/users/me/profile", getProfile.Handle).Methods(http.MethodGet)
	protected.Handle("/users/me/profile", limit(http.HandlerFunc(upsertProfile.Handle))).Methods(http.MethodPut)
	protected.HandleFunc("/users/me/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Кабинет мастера ---
	protected.Handle("/providers/me/schedule", limit(http.HandlerFunc(updateSchedule.Handle))).Methods(http.MethodPut)
	protected.HandleFunc("/providers/me/bookings", getProviderBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/providers/me/bookings/stream", streamProviderBookings.Handle).Methods(http.MethodGet)

	// --- Каталог услуг ---
	protected.Handle("/services", limit(http.HandlerFunc(createService.Handle))).Methods(http.MethodPost)
	protected.Handle("/services/{serviceId}", limit(http.HandlerFunc(updateService.Handle))).Methods(http.MethodPatch)
	protected.Handle("/services/{serviceId}", limit(http.HandlerFunc(deleteService.Handle))).Methods(http.MethodDelete)

	// --- Бронирования ---
	protected.Handle("/bookings", limit(http.HandlerFunc(createBooking.Handle))).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.Handle("/bookings/{bookingId}/cancel", limit(http.HandlerFunc(cancelBooking.Handle))).Methods(http.MethodPatch)
	protected.Handle("/bookings/{bookingId}/complete", limit(http.HandlerFunc(completeBooking.Handle))).Methods(http.MethodPatch)

	// --- Чаты ---
	protected.HandleFunc("/chats", listChats.Handle).Methods(http.MethodGet)
	protected.Handle("/chats", limit(http.HandlerFunc(openChat.Handle))).Methods(http.MethodPost)
	protected.HandleFunc("/chats/{chatId}/messages", listChatMessages.Handle).Methods(http.MethodGet)
	protected.Handle("/chats/{chatId}/messages", limit(http.HandlerFunc(sendMessage.Handle))).Methods(http.MethodPost)
	protected.HandleFunc("/chats/{chatId}/messages/stream", streamChatMessages.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/chats/{chatId}/read", markChatRead.Handle).Methods(http.MethodPatch)

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/providers", listProviders.Handle).Methods(http.MethodGet)
	api.HandleFunc("/providers/{providerId}/schedule", getSchedule.Handle).Methods(http.MethodGet)
	api.HandleFunc("/providers/{providerId}/services", listServices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/providers/{providerId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	// SSE-стримы держат соединение, поэтому при остановке отменяем их контекст
	srv.RegisterOnShutdown(stop)

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
