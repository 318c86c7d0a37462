package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/crm-board/internal/config"
	"github.com/xavierca1/crm-board/internal/infra/cache"
	"github.com/xavierca1/crm-board/internal/infra/database"
	"github.com/xavierca1/crm-board/internal/infra/http/handlers"
	appmw "github.com/xavierca1/crm-board/internal/infra/http/middleware"
	"github.com/xavierca1/crm-board/internal/infra/logger"
	"github.com/xavierca1/crm-board/internal/infra/mail"
	"github.com/xavierca1/crm-board/internal/infra/queue"
	"github.com/xavierca1/crm-board/internal/infra/worker"
	"github.com/xavierca1/crm-board/internal/theme"
	"github.com/xavierca1/crm-board/internal/usecase"
)

const version = "1.0.0"

func main() {
	cfg, err := config.NewLoadedConfig()
	if err != nil {
		log.Fatalf("config: %+v", err)
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Banco
	db, err := database.NewDBConnection(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		zlog.Fatal("falha ao conectar no banco", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, cfg.DBDriver); err != nil {
		zlog.Fatal("falha na migração", zap.Error(err))
	}

	// 2. Repositório (com cache de leitura na frente)
	repo := cache.NewClienteRepository(database.NewClienteRepository(db, zlog), cfg.CacheTTL)

	// 3. Fila (opcional). publisher fica nil sem RabbitMQ.
	var publisher usecase.EventPublisher
	var rabbitConn *amqp.Connection
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			zlog.Fatal("falha ao conectar no RabbitMQ", zap.Error(err))
		}
		defer rabbitMQ.Close()

		rabbitConn = rabbitMQ.Conn
		publisher = queue.NewProducer(rabbitMQ.Ch)

		var notifier queue.HandoffNotifier
		if cfg.MailEnabled() {
			notifier = mail.NewEmailSender(
				cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword,
				cfg.MailFrom, cfg.OperatorsTo, cfg.BoardURL,
			)
		} else {
			zlog.Warn("SMTP não configurado, handoffs não serão enviados por e-mail")
		}

		consumer := queue.NewWorker(rabbitMQ.Ch, notifier, zlog)
		go func() {
			if err := consumer.Start(ctx, queue.QueueName); err != nil {
				zlog.Error("worker de eventos parou", zap.Error(err))
			}
		}()
	} else {
		zlog.Warn("CRM_RABBITMQ_URL vazio, rodando sem eventos")
	}

	// 4. Worker de cards parados
	sweeper := worker.NewStaleCardWorker(repo, cfg.StaleAfter, cfg.SweepInterval, zlog)
	go sweeper.Start(ctx)

	// 5. Tema
	themeCfg, err := theme.Resolve(cfg.ThemeDarkMode)
	if err != nil {
		zlog.Fatal("tema inválido", zap.Error(err))
	}

	// 6. UseCases e handlers
	createUC := usecase.NewCreateClienteUseCase(repo, publisher, zlog)
	clienteUC := usecase.NewClienteUseCase(repo, publisher, zlog)
	boardUC := usecase.NewListBoardUseCase(repo)

	limiter := appmw.NewRateLimiter(cfg.CreateRateLimit, time.Minute)
	limiter.TrustProxyHeaders = cfg.TrustProxyHeaders
	defer limiter.Stop()

	router := newRouter(routerDeps{
		Cliente:        handlers.NewClienteHandler(createUC, clienteUC, zlog),
		Board:          handlers.NewBoardHandler(boardUC, zlog),
		Theme:          handlers.NewThemeHandler(themeCfg),
		Health:         handlers.NewHealthHandler(db, rabbitConn, version),
		CreateLimiter:  limiter,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		zlog.Info("CRM board API rodando", zap.String("addr", srv.Addr), zap.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("servidor HTTP caiu", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("desligando...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("shutdown forçado", zap.Error(err))
	}
}
