package integration

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/damir/signup-service/internal/app"
	"github.com/damir/signup-service/internal/config"
	"github.com/damir/signup-service/internal/service"
)

// TestEnvironment содержит все ресурсы необходимые для интеграционных тестов
type TestEnvironment struct {
	PostgresContainer *postgres.PostgresContainer
	App               *app.App
	BaseURL           string
	DB                *pgxpool.Pool
	JWTSecret         string

	recaptchaSrv *httptest.Server
	slackSrv     *httptest.Server
	smtp         *fakeSMTPServer
	ctx          context.Context
}

// SetupTestEnvironment создает и инициализирует полное тестовое окружение.
// Внешние коллабораторы (recaptcha, Slack, SMTP) заменяются локальными
// заглушками через конфигурацию приложения.
func SetupTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()
	ctx := context.Background()

	// Запускаем PostgreSQL контейнер
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("signup_service_test"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	// Получаем строку подключения
	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	// Применяем миграции
	applyMigrations(t, connStr)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	// Локальные заглушки внешних сервисов
	recaptchaSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success": true}`)
	}))

	slackSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	}))

	smtpSrv, err := startFakeSMTPServer()
	require.NoError(t, err, "Failed to start fake SMTP server")

	// Создаем конфигурацию для приложения.
	// Используем высокий порт для тестов чтобы избежать конфликтов
	testPort := "18080"
	jwtSecret := "test-jwt-secret-key-for-integration-tests"
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port: testPort,
			Host: "127.0.0.1",
		},
		Database: config.DatabaseConfig{
			Host:     host,
			Port:     port.Port(),
			User:     "test_user",
			Password: "test_password",
			Name:     "signup_service_test",
			SSLMode:  "disable",
			MaxConns: 25,
			MinConns: 5,
		},
		JWT: config.JWTConfig{
			Secret: jwtSecret,
		},
		Recaptcha: config.RecaptchaConfig{
			Secret:    "test-recaptcha-secret",
			VerifyURL: recaptchaSrv.URL,
		},
		SMTP: config.SMTPConfig{
			Host:          "127.0.0.1",
			Port:          smtpSrv.Port(),
			From:          "no-reply@signup.test",
			InviteBaseURL: "http://localhost:18080",
		},
		Slack: config.SlackConfig{
			WebhookURL: slackSrv.URL,
			Channel:    "#test-signups",
		},
		Invitation: config.InvitationConfig{
			ExpiryDays: 7,
		},
	}

	// Создаем и инициализируем приложение
	application, err := app.New(cfg)
	require.NoError(t, err, "Failed to create application")

	err = application.Initialize(ctx)
	require.NoError(t, err, "Failed to initialize application")

	// Запускаем сервер в фоне
	serverStarted := make(chan bool, 1)
	go func() {
		serverStarted <- true
		if err := application.Run(); err != nil && err != http.ErrServerClosed {
			t.Logf("Server error: %v", err)
		}
	}()

	<-serverStarted
	time.Sleep(500 * time.Millisecond)

	baseURL := fmt.Sprintf("http://%s:%s", cfg.Server.Host, testPort)

	// Подключение к БД для прямых запросов в тестах
	poolConfig, err := pgxpool.ParseConfig(connStr)
	require.NoError(t, err)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	require.NoError(t, err)

	return &TestEnvironment{
		PostgresContainer: pgContainer,
		App:               application,
		BaseURL:           baseURL,
		DB:                pool,
		JWTSecret:         jwtSecret,
		recaptchaSrv:      recaptchaSrv,
		slackSrv:          slackSrv,
		smtp:              smtpSrv,
		ctx:               ctx,
	}
}

// Cleanup очищает все тестовые ресурсы
func (te *TestEnvironment) Cleanup(t *testing.T) {
	t.Helper()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if te.App != nil {
		_ = te.App.Shutdown(shutdownCtx)
	}

	if te.DB != nil {
		te.DB.Close()
	}

	if te.recaptchaSrv != nil {
		te.recaptchaSrv.Close()
	}
	if te.slackSrv != nil {
		te.slackSrv.Close()
	}
	if te.smtp != nil {
		te.smtp.Close()
	}

	if te.PostgresContainer != nil {
		_ = te.PostgresContainer.Terminate(te.ctx)
	}
}

// applyMigrations применяет миграции БД
func applyMigrations(t *testing.T, connStr string) {
	t.Helper()

	db, err := sql.Open("pgx/v5", connStr)
	require.NoError(t, err, "Failed to open database connection")
	defer db.Close()

	projectRoot := getProjectRoot(t)
	migrationPath := filepath.Join(projectRoot, "migrations", "000001_init_schema.up.sql")

	migrationSQL, err := os.ReadFile(migrationPath)
	require.NoError(t, err, "Failed to read migration file")

	_, err = db.Exec(string(migrationSQL))
	require.NoError(t, err, "Failed to apply migration")

	t.Log("Migrations applied successfully")
}

// getProjectRoot возвращает корневую директорию проекта
func getProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("Could not find project root (go.mod not found)")
		}
		dir = parent
	}
}

// MakeRequest вспомогательная функция для HTTP запросов в тестах
func (te *TestEnvironment) MakeRequest(t *testing.T, method, path string, body io.Reader, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, te.BaseURL+path, body)
	require.NoError(t, err, "Failed to create request")

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	resp, err := client.Do(req)
	require.NoError(t, err, "Failed to make request")

	return resp
}

// WaitForHealthCheck ждет пока приложение станет доступным
func (te *TestEnvironment) WaitForHealthCheck(t *testing.T) {
	t.Helper()

	maxRetries := 30
	for i := 0; i < maxRetries; i++ {
		resp, err := http.Get(te.BaseURL + "/health")
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return
		}
		if resp != nil {
			resp.Body.Close()
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Fatal("Application did not become healthy in time")
}

// SignToken выпускает JWT как это делал бы внешний шлюз аутентификации
func (te *TestEnvironment) SignToken(t *testing.T, userID string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, service.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	signed, err := token.SignedString([]byte(te.JWTSecret))
	require.NoError(t, err, "Failed to sign test token")
	return signed
}

// MailCount возвращает число писем принятых тестовым SMTP сервером
func (te *TestEnvironment) MailCount() int {
	return int(te.smtp.delivered.Load())
}

// fakeSMTPServer это минимальный SMTP сервер принимающий любую почту.
// Поддерживается ровно то подмножество протокола которое использует
// net/smtp.SendMail без TLS и аутентификации.
type fakeSMTPServer struct {
	listener  net.Listener
	delivered atomic.Int64
}

func startFakeSMTPServer() (*fakeSMTPServer, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}

	srv := &fakeSMTPServer{listener: listener}
	go srv.acceptLoop()
	return srv, nil
}

func (s *fakeSMTPServer) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

func (s *fakeSMTPServer) Close() {
	_ = s.listener.Close()
}

func (s *fakeSMTPServer) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *fakeSMTPServer) handle(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	write := func(line string) {
		_, _ = conn.Write([]byte(line + "\r\n"))
	}

	write("220 fake-smtp ESMTP ready")

	inData := false
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")

		if inData {
			if line == "." {
				inData = false
				s.delivered.Add(1)
				write("250 OK message accepted")
			}
			continue
		}

		cmd := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
			write("250 fake-smtp")
		case strings.HasPrefix(cmd, "MAIL"), strings.HasPrefix(cmd, "RCPT"),
			strings.HasPrefix(cmd, "RSET"), strings.HasPrefix(cmd, "NOOP"):
			write("250 OK")
		case strings.HasPrefix(cmd, "DATA"):
			inData = true
			write("354 End data with <CR><LF>.<CR><LF>")
		case strings.HasPrefix(cmd, "QUIT"):
			write("221 bye")
			return
		default:
			write("500 unrecognized command")
		}
	}
}

// InsertExpiredInvitation вставляет приглашение с истекшим сроком напрямую
// в БД: через публичный API такое состояние получить нельзя
func (te *TestEnvironment) InsertExpiredInvitation(t *testing.T, token, email, teamSlug, inviterID string) {
	t.Helper()

	_, err := te.DB.Exec(te.ctx,
		`INSERT INTO invitations (token, email, team_slug, inviter_user_id, expires_at, sent_via_email)
		 VALUES ($1, $2, $3, $4, $5, TRUE)`,
		token, email, teamSlug, inviterID, time.Now().Add(-time.Hour),
	)
	require.NoError(t, err, "Failed to insert expired invitation")
}

// DecodeEnvelope разбирает единый конверт ответа конвейера
func DecodeEnvelope(t *testing.T, resp *http.Response) (kind string, value json.RawMessage, errValue json.RawMessage) {
	t.Helper()

	var envelope struct {
		Kind  string          `json:"kind"`
		Value json.RawMessage `json:"value"`
		Error json.RawMessage `json:"error"`
	}
	err := json.NewDecoder(resp.Body).Decode(&envelope)
	require.NoError(t, err, "Failed to decode response envelope")

	return envelope.Kind, envelope.Value, envelope.Error
}
