package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httptransport "github.com/helpdeskd/helpdesk/internal/api/http"
	"github.com/helpdeskd/helpdesk/internal/api/http/handlers"
	"github.com/helpdeskd/helpdesk/internal/auth"
	"github.com/helpdeskd/helpdesk/internal/config"
	"github.com/helpdeskd/helpdesk/internal/events"
	"github.com/helpdeskd/helpdesk/internal/observability"
	"github.com/helpdeskd/helpdesk/internal/persistence"
	"github.com/helpdeskd/helpdesk/internal/repository"
	"github.com/helpdeskd/helpdesk/internal/service"
	"github.com/helpdeskd/helpdesk/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	memberRepo := repository.NewMemberRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	historyRepo := repository.NewTicketHistoryRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	slaRepo := repository.NewSLARepository(pool)
	escalationRepo := repository.NewEscalationRepository(pool)
	ratingRepo := repository.NewRatingRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)
	analyticsRepo := repository.NewAnalyticsRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	slaService := service.NewSLAService(slaRepo)
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		CommentRepo:    commentRepo,
		HistoryRepo:    historyRepo,
		DepartmentRepo: departmentRepo,
		CategoryRepo:   categoryRepo,
		RatingRepo:     ratingRepo,
		SLA:            slaService,
		Dispatcher:     dispatcher,
	})
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		TicketRepo:     ticketRepo,
		UserRepo:       userRepo,
		DepartmentRepo: departmentRepo,
		MemberRepo:     memberRepo,
		HistoryRepo:    historyRepo,
		SLA:            slaService,
		Dispatcher:     dispatcher,
	})
	departmentService := service.NewDepartmentService(service.OrgDependencies{
		DepartmentRepo: departmentRepo,
		MemberRepo:     memberRepo,
		UserRepo:       userRepo,
		SLARepo:        slaRepo,
		EscalationRepo: escalationRepo,
	})
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		NotificationRepo: notificationRepo,
		UserRepo:         userRepo,
		MemberRepo:       memberRepo,
		Dispatcher:       dispatcher,
	}, logger, cfg.Notification)
	analyticsService := service.NewAnalyticsService(analyticsRepo, redis.Client, cfg.Analytics, logger)

	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, memberRepo)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, assignmentService),
		Departments:    handlers.NewDepartmentsHandler(departmentService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		Analytics:      handlers.NewAnalyticsHandler(analyticsService),
		AuthMiddleware: authMiddleware,
	})

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("http server starting", zap.String("addr", cfg.App.Addr()))
		return app.Listen(cfg.App.Addr())
	})

	if cfg.Worker.Enabled {
		monitor := worker.NewSLAMonitor(worker.SLAMonitorDependencies{
			TicketRepo:     ticketRepo,
			MemberRepo:     memberRepo,
			EscalationRepo: escalationRepo,
			HistoryRepo:    historyRepo,
			SLA:            slaService,
			Dispatcher:     dispatcher,
		}, logger, cfg.Worker)
		group.Go(func() error {
			return monitor.Run(groupCtx)
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		return app.Shutdown()
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("exited with error", zap.Error(err))
	}
}
