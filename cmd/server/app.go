package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/yukikurage/task-reminder-api/internal/config"
	"github.com/yukikurage/task-reminder-api/internal/constants"
	"github.com/yukikurage/task-reminder-api/internal/database"
	"github.com/yukikurage/task-reminder-api/internal/dto"
	"github.com/yukikurage/task-reminder-api/internal/handlers"
	"github.com/yukikurage/task-reminder-api/internal/mail"
	"github.com/yukikurage/task-reminder-api/internal/middleware"
	"github.com/yukikurage/task-reminder-api/internal/oauth"
	"github.com/yukikurage/task-reminder-api/internal/push"
	"github.com/yukikurage/task-reminder-api/internal/repository"
	"github.com/yukikurage/task-reminder-api/internal/scheduler"
	"github.com/yukikurage/task-reminder-api/internal/services"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// app holds the wired components shared by the subcommands.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	db       *gorm.DB
	location *time.Location

	users         repository.UserRepository
	tasks         repository.TaskRepository
	subscriptions repository.PushSubscriptionRepository
}

func newApp(cfg *config.Config, logger *zap.Logger) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	dto.SetInputLocation(loc)

	db, err := database.Connect(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &app{
		cfg:           cfg,
		logger:        logger,
		db:            db,
		location:      loc,
		users:         repository.NewUserRepository(db),
		tasks:         repository.NewTaskRepository(db),
		subscriptions: repository.NewPushSubscriptionRepository(db),
	}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.logger.Sync()
}

func (a *app) pushSender() *push.Sender {
	transport := push.NewWebPushTransport(push.VAPIDConfig{
		Subject:    a.cfg.VAPIDSubject,
		PublicKey:  a.cfg.VAPIDPublicKey,
		PrivateKey: a.cfg.VAPIDPrivateKey,
	}, nil)
	return push.NewSender(a.subscriptions, transport, a.logger)
}

func (a *app) dueTaskScheduler() (*scheduler.DueTaskScheduler, error) {
	window, err := scheduler.ParseWindow(a.cfg.ReminderWindowStart, a.cfg.ReminderWindowEnd)
	if err != nil {
		return nil, err
	}
	return scheduler.NewDueTaskScheduler(a.tasks, a.pushSender(), scheduler.Config{
		Window:   window,
		Location: a.location,
		Interval: time.Minute,
	}, a.logger), nil
}

func (a *app) expirySweeper() *scheduler.ExpirySweeper {
	return scheduler.NewExpirySweeper(a.tasks, nil, a.logger)
}

func (a *app) sessionStore() (sessions.Store, error) {
	var (
		store sessions.Store
		err   error
	)
	if a.cfg.RedisHost != "" {
		redisAddr := a.cfg.RedisHost + ":" + a.cfg.RedisPort
		store, err = redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // username (empty for default user)
			"",        // password (empty = no password)
			[]byte(a.cfg.SessionSecret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}
	} else {
		store = cookie.NewStore([]byte(a.cfg.SessionSecret))
	}

	// The session only carries the OAuth state between redirect and callback.
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   a.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode, // the provider redirect must carry the cookie
	})
	return store, nil
}

func (a *app) dependencies() (*handlers.Dependencies, error) {
	store, err := a.sessionStore()
	if err != nil {
		return nil, err
	}

	tokens := services.NewTokenService(repository.NewTokenRepository(a.db), a.cfg.JWTSecret, a.cfg.TokenTTL)
	activity := services.NewActivityService(repository.NewActivityRepository(a.db), a.logger)
	authService := services.NewAuthService(a.users, tokens, activity)

	mailer := mail.NewResetMailer(
		mail.NewSMTPTransport(mail.SMTPConfig{
			Host:     a.cfg.MailHost,
			Port:     a.cfg.MailPort,
			Username: a.cfg.MailUsername,
			Password: a.cfg.MailPassword,
		}),
		a.cfg.MailFromAddress,
		a.cfg.MailFromName,
		constants.PasswordResetTTL,
	)
	resets := services.NewPasswordResetService(
		a.users, repository.NewPasswordResetRepository(a.db), mailer, activity, a.cfg.FrontendURL,
	)

	return &handlers.Dependencies{
		Logger:        a.logger,
		SessionStore:  store,
		Authenticator: tokens,
		AuthLimiter:   middleware.NewRateLimiter(rate.Limit(1), 10),

		TrustedProxies:  a.cfg.TrustedProxies,
		TrustedPlatform: a.cfg.TrustedPlatform,

		Auth:          handlers.NewAuthHandler(authService),
		Users:         handlers.NewUserHandler(services.NewUserService(a.users, activity), activity),
		Passwords:     handlers.NewPasswordHandler(resets),
		Tasks:         handlers.NewTaskHandler(services.NewTaskService(a.tasks), authService, a.location),
		Notifications: handlers.NewNotificationHandler(services.NewNotificationService(a.subscriptions), a.cfg.VAPIDPublicKey),
		Cron:          handlers.NewCronHandler(a.expirySweeper(), a.cfg.CronSecret),
		OAuth:         handlers.NewOAuthHandler(oauth.NewRegistry(a.cfg), oauth.NewStateSigner(a.cfg.JWTSecret), authService, a.cfg.FrontendURL, a.logger),
	}, nil
}
