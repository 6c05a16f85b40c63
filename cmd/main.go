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
	"github.com/rs/cors"

	advanceStatusHandler "github.com/rocketqueue/queue-service/internal/api/handlers/advance_status"
	createServiceLineHandler "github.com/rocketqueue/queue-service/internal/api/handlers/create_service_line"
	getAvailableSlotsHandler "github.com/rocketqueue/queue-service/internal/api/handlers/get_available_slots"
	getEntryHandler "github.com/rocketqueue/queue-service/internal/api/handlers/get_entry"
	getEntryAuditHandler "github.com/rocketqueue/queue-service/internal/api/handlers/get_entry_audit"
	getLineConfigHandler "github.com/rocketqueue/queue-service/internal/api/handlers/get_line_config"
	getLineEntriesHandler "github.com/rocketqueue/queue-service/internal/api/handlers/get_line_entries"
	getLineStatsHandler "github.com/rocketqueue/queue-service/internal/api/handlers/get_line_stats"
	getQueuePositionHandler "github.com/rocketqueue/queue-service/internal/api/handlers/get_queue_position"
	getShopLinesHandler "github.com/rocketqueue/queue-service/internal/api/handlers/get_shop_lines"
	getShopQRHandler "github.com/rocketqueue/queue-service/internal/api/handlers/get_shop_qr"
	getUserEntriesHandler "github.com/rocketqueue/queue-service/internal/api/handlers/get_user_entries"
	joinQueueHandler "github.com/rocketqueue/queue-service/internal/api/handlers/join_queue"
	leaveQueueHandler "github.com/rocketqueue/queue-service/internal/api/handlers/leave_queue"
	rateEntryHandler "github.com/rocketqueue/queue-service/internal/api/handlers/rate_entry"
	updateLineConfigHandler "github.com/rocketqueue/queue-service/internal/api/handlers/update_line_config"
	watchPositionHandler "github.com/rocketqueue/queue-service/internal/api/handlers/watch_position"
	"github.com/rocketqueue/queue-service/internal/api/middleware"
	"github.com/rocketqueue/queue-service/internal/config"
	"github.com/rocketqueue/queue-service/internal/infra/events"
	auditRepo "github.com/rocketqueue/queue-service/internal/infra/storage/audit"
	entryRepo "github.com/rocketqueue/queue-service/internal/infra/storage/entry"
	lineRepo "github.com/rocketqueue/queue-service/internal/infra/storage/serviceline"
	shopServiceClient "github.com/rocketqueue/queue-service/internal/integrations/shopservice"
	"github.com/rocketqueue/queue-service/internal/integrations/waitpredict"
	entriesService "github.com/rocketqueue/queue-service/internal/service/entries"
	linesService "github.com/rocketqueue/queue-service/internal/service/lines"
	getAvailableSlotsUC "github.com/rocketqueue/queue-service/internal/usecase/get_available_slots"
	joinQueueUC "github.com/rocketqueue/queue-service/internal/usecase/join_queue"
	"github.com/rocketqueue/queue-service/pkg/dbmetrics"
	"github.com/rocketqueue/queue-service/pkg/logger"
	"github.com/rocketqueue/queue-service/pkg/metrics"
	"github.com/rocketqueue/queue-service/pkg/simpletxmanager"
	"github.com/rocketqueue/queue-service/pkg/txmanager"
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

	log.Info("Starting queue-service...")
	log.Info("Configuration loaded from config.toml")

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

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем клиента каталога магазинов
	shopClient := shopServiceClient.NewClient(
		cfg.ShopService.URL,
		time.Duration(cfg.ShopService.Timeout)*time.Second,
		log,
	)
	log.Info("ShopService client initialized (url=%s, timeout=%ds)",
		cfg.ShopService.URL, cfg.ShopService.Timeout)

	// Интерфейс для transaction manager (используется в join_queue)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}

	// Репозитории и транзакционный менеджер (с метриками или без)
	var (
		executor dbmetrics.DBExecutor
		txMgr    TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		executor = wrappedDB
		txMgr = txmanager.NewTransactionManager(wrappedDB)
		log.Info("Database metrics collection started")
	} else {
		executor = db
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	entryRepository := entryRepo.NewRepository(executor)
	lineRepository := lineRepo.NewRepository(executor)
	auditRepository := auditRepo.NewRepository(executor)

	// Эстиматор времени ожидания: Redis со скользящей статистикой,
	// либо фиксированная оценка на человека
	var estimator waitpredict.Estimator = waitpredict.NewFixedEstimator(0)
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:        cfg.Redis.Addr,
			DB:          cfg.Redis.DB,
			DialTimeout: time.Duration(cfg.Redis.Timeout) * time.Second,
			ReadTimeout: time.Duration(cfg.Redis.Timeout) * time.Second,
		})
		defer redisClient.Close()
		estimator = waitpredict.NewRedisEstimator(redisClient, estimator, log)
		log.Info("Redis wait estimator enabled (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)
	}

	// Публикация событий очереди
	var publisher events.Publisher = events.NewNoopPublisher()
	if cfg.NATS.Enabled {
		natsPublisher, err := events.NewNATSPublisher(cfg.NATS.URL)
		if err != nil {
			log.Fatal("Failed to connect to NATS: %v", err)
		}
		publisher = natsPublisher
		log.Info("NATS event publisher enabled (url=%s)", cfg.NATS.URL)
	}
	defer publisher.Close()

	// Инициализируем сервисы
	entriesSvc := entriesService.NewService(
		entryRepository,
		lineRepository,
		auditRepository,
		shopClient,
		estimator,
		publisher,
		log,
	)
	linesSvc := linesService.NewService(
		lineRepository,
		shopClient,
		log,
	)

	// Инициализируем use cases
	joinQueueUseCase := joinQueueUC.NewUseCase(
		entryRepository,
		lineRepository,
		shopClient,
		estimator,
		auditRepository,
		publisher,
		txMgr,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		entryRepository,
		lineRepository,
		shopClient,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	joinQueue := joinQueueHandler.NewHandler(joinQueueUseCase, log)
	getQueuePosition := getQueuePositionHandler.NewHandler(entriesSvc, log)
	getEntry := getEntryHandler.NewHandler(entriesSvc, log)
	leaveQueue := leaveQueueHandler.NewHandler(entriesSvc, log)
	advanceStatus := advanceStatusHandler.NewHandler(entriesSvc, log)
	rateEntry := rateEntryHandler.NewHandler(entriesSvc, log)
	getEntryAudit := getEntryAuditHandler.NewHandler(entriesSvc, log)
	getLineEntries := getLineEntriesHandler.NewHandler(entriesSvc, log)
	getLineStats := getLineStatsHandler.NewHandler(entriesSvc, log)
	getUserEntries := getUserEntriesHandler.NewHandler(entriesSvc, log)
	createServiceLine := createServiceLineHandler.NewHandler(linesSvc, log)
	getShopLines := getShopLinesHandler.NewHandler(linesSvc, log)
	getLineConfig := getLineConfigHandler.NewHandler(linesSvc, log)
	updateLineConfig := updateLineConfigHandler.NewHandler(linesSvc, log)
	getShopQR := getShopQRHandler.NewHandler(shopClient, log)
	watchPosition := watchPositionHandler.NewHandler(entriesSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// WebSocket наблюдение за позицией (без аутентификации, вне /api)
	r.HandleFunc("/ws/lines/{lineId}/entries/{entryId}", watchPosition.Handle).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Сетка слотов линии на дату
	api.HandleFunc("/shops/{shopId}/lines/{lineId}/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Список линий магазина
	api.HandleFunc("/shops/{shopId}/lines", getShopLines.Handle).Methods(http.MethodGet)

	// Конфигурация линии
	api.HandleFunc("/lines/{lineId}/config", getLineConfig.Handle).Methods(http.MethodGet)

	// QR-код магазина
	api.HandleFunc("/shops/{shopId}/qr", getShopQR.Handle).Methods(http.MethodGet)

	// Позиция записи в очереди
	api.HandleFunc("/lines/{lineId}/entries/{entryId}/position", getQueuePosition.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Лимит запросов на мутирующие ручки очереди
	rateLimit := func(h http.HandlerFunc) http.Handler { return h }
	if cfg.RateLimit.Enabled {
		rl := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		rateLimit = func(h http.HandlerFunc) http.Handler { return rl.Middleware(h) }
		log.Info("Rate limiting enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// --- Очередь ---
	// Постановка в очередь / бронирование слота
	protected.Handle("/lines/{lineId}/entries", rateLimit(joinQueue.Handle)).Methods(http.MethodPost)

	// Запись по ID
	protected.HandleFunc("/entries/{entryId}", getEntry.Handle).Methods(http.MethodGet)

	// Выход из очереди
	protected.Handle("/entries/{entryId}/cancel", rateLimit(leaveQueue.Handle)).Methods(http.MethodPatch)

	// Смена статуса записи (для вендора)
	protected.HandleFunc("/entries/{entryId}/status", advanceStatus.Handle).Methods(http.MethodPatch)

	// Оценка завершённого обслуживания
	protected.HandleFunc("/entries/{entryId}/rating", rateEntry.Handle).Methods(http.MethodPost)

	// История изменений записи
	protected.HandleFunc("/entries/{entryId}/audit", getEntryAudit.Handle).Methods(http.MethodGet)

	// История записей пользователя
	protected.HandleFunc("/users/{userId}/entries", getUserEntries.Handle).Methods(http.MethodGet)

	// --- Управление линиями (для вендоров) ---
	// Создание линии
	protected.HandleFunc("/shops/{shopId}/lines", createServiceLine.Handle).Methods(http.MethodPost)

	// Обновление конфигурации линии
	protected.HandleFunc("/lines/{lineId}/config", updateLineConfig.Handle).Methods(http.MethodPut)

	// Записи линии
	protected.HandleFunc("/lines/{lineId}/entries", getLineEntries.Handle).Methods(http.MethodGet)

	// Статистика линии
	protected.HandleFunc("/lines/{lineId}/stats", getLineStats.Handle).Methods(http.MethodGet)

	// CORS для браузерных клиентов
	var handler http.Handler = r
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsHandler := cors.New(cors.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: []string{
				http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
			},
			AllowedHeaders:   []string{"Content-Type", middleware.UserIDHeader},
			AllowCredentials: true,
		})
		handler = corsHandler.Handler(r)
		log.Info("CORS enabled for origins: %v", cfg.CORS.AllowedOrigins)
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
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
