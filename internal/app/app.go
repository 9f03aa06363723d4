package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/damir/signup-service/internal/config"
	"github.com/damir/signup-service/internal/external"
	"github.com/damir/signup-service/internal/handler"
	"github.com/damir/signup-service/internal/middleware"
	"github.com/damir/signup-service/internal/repository/postgres"
	"github.com/damir/signup-service/internal/service"
)

// App представляет приложение со всеми зависимостями
type App struct {
	config *config.Config
	db     *pgxpool.Pool
	server *http.Server
	logger *slog.Logger
}

// New создает новый экземпляр приложения
func New(cfg *config.Config) (*App, error) {
	// Инициализируем структурированный логгер (JSON формат)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	app := &App{
		config: cfg,
		logger: logger,
	}

	return app, nil
}

// Initialize инициализирует все компоненты приложения
func (a *App) Initialize(ctx context.Context) error {
	// Подключаемся к базе данных
	if err := a.connectDB(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Настраиваем HTTP сервер и роутинг
	if err := a.setupServer(); err != nil {
		return fmt.Errorf("failed to set up server: %w", err)
	}

	a.logger.Info("Application initialized successfully")
	return nil
}

// connectDB устанавливает подключение к PostgreSQL с connection pool
func (a *App) connectDB(ctx context.Context) error {
	poolConfig, err := pgxpool.ParseConfig(a.config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}

	// Настраиваем размеры connection pool
	poolConfig.MaxConns = a.config.Database.MaxConns
	poolConfig.MinConns = a.config.Database.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Проверяем подключение к БД
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.db = pool
	a.logger.Info("Connected to database")
	return nil
}

// setupServer инициализирует HTTP роутер и обработчики
func (a *App) setupServer() error {
	// Инициализируем слой репозиториев (работа с БД)
	userRepo := postgres.NewUserRepository(a.db)
	teamRepo := postgres.NewTeamRepository(a.db)
	invitationRepo := postgres.NewInvitationRepository(a.db)

	// Инициализируем внешних коллабораторов
	recaptcha := external.NewRecaptcha(a.config.Recaptcha.VerifyURL, a.config.Recaptcha.Secret)
	mailer := external.NewSMTPMailer(
		a.config.SMTP.Host,
		a.config.SMTP.Port,
		a.config.SMTP.Username,
		a.config.SMTP.Password,
		a.config.SMTP.From,
		a.config.SMTP.InviteBaseURL,
	)
	notifier := external.NewSlackNotifier(a.config.Slack.WebhookURL)
	metrics, err := external.NewOTelMetrics()
	if err != nil {
		return fmt.Errorf("failed to create metrics recorder: %w", err)
	}
	ownershipChecker := external.NewDBOwnershipChecker(teamRepo)

	// Инициализируем слой сервисов (конвейеры регистрации)
	selfService := service.NewSelfRegistrationService(
		userRepo, teamRepo, recaptcha, mailer, metrics, notifier,
		a.config.Slack.Channel,
	)
	inviteRegService := service.NewInvitationRegistrationService(
		userRepo, teamRepo, invitationRepo, recaptcha, metrics, notifier,
		a.config.Slack.Channel,
	)
	inviteCreateService := service.NewInvitationCreationService(
		userRepo, teamRepo, invitationRepo, ownershipChecker, mailer,
		a.config.Invitation.TTL(),
	)
	authService := service.NewAuthService(a.config.JWT.Secret)

	// Инициализируем HTTP обработчики
	registrationHandler := handler.NewRegistrationHandler(selfService, inviteRegService)
	invitationHandler := handler.NewInvitationHandler(inviteCreateService)

	// Инициализируем middleware для JWT авторизации
	authMiddleware := middleware.AuthMiddleware(authService)

	// Настраиваем роутер
	r := chi.NewRouter()

	// Глобальные middleware (применяются ко всем запросам)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// Health check для мониторинга
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			a.logger.Error("Failed to write health check response", "error", err)
		}
	})

	// Регистрация публична: саморегистрация и принятие приглашения
	r.Post("/api/register", registrationHandler.Register)

	// Создание приглашения требует аутентифицированного пригласившего
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/api/invitations", invitationHandler.Create)
	})

	// Создаем HTTP сервер с настройками таймаутов
	addr := fmt.Sprintf("%s:%s", a.config.Server.Host, a.config.Server.Port)
	a.server = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	a.logger.Info("HTTP server configured", "addr", addr)
	return nil
}

// Run запускает HTTP сервер
func (a *App) Run() error {
	a.logger.Info("Starting HTTP server", "addr", a.server.Addr)
	return a.server.ListenAndServe()
}

// Shutdown корректно останавливает приложение
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application")

	// Останавливаем HTTP сервер (ждем завершения текущих запросов)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	// Закрываем подключения к базе данных
	if a.db != nil {
		a.db.Close()
	}

	a.logger.Info("Application stopped gracefully")
	return nil
}
