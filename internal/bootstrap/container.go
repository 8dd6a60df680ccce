package bootstrap

import (
	"context"
	"errors"
	"log"
	"path/filepath"
	"time"

	"curamind-be/internal/config"
	"curamind-be/internal/controller"
	"curamind-be/internal/handler"
	"curamind-be/internal/pkg/logger"
	"curamind-be/internal/pkg/mailer"
	"curamind-be/internal/pkg/storage"
	"curamind-be/internal/repository/implementation"
	"curamind-be/internal/repository/memory"
	"curamind-be/internal/repository/unitofwork"
	"curamind-be/internal/service"
	"curamind-be/internal/websocket"
	clinicEvents "curamind-be/pkg/clinic/events"
	pktNats "curamind-be/pkg/nats"
	"curamind-be/pkg/triage"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	TriageController       controller.ITriageController
	PatientController      controller.IPatientController
	DoctorController       controller.IDoctorController
	ConsultationController controller.IConsultationController
	AdminController        controller.IAdminController

	// Background services, started by cmd/rest
	ConsumerService     service.IConsumerService
	NotificationService *service.NotificationService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	notifLogger := logger.NewIsolatedLogger(filepath.Join(filepath.Dir(cfg.App.LogFilePath), "notification.log"))

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)
	files := storage.NewLocalStorage(cfg.Storage.UploadDir, cfg.Storage.PublicURL)

	// 2. Triage catalog
	catalog, err := triage.LoadCatalog(cfg.Triage.CatalogPath)
	if err != nil {
		if !errors.Is(err, triage.ErrCatalogUnavailable) {
			log.Fatalf("[FATAL] Invalid triage catalog %s: %v", cfg.Triage.CatalogPath, err)
		}
		sysLogger.Warn("TRIAGE", "Question catalog unavailable, sessions will classify immediately", map[string]interface{}{
			"path":  cfg.Triage.CatalogPath,
			"error": err.Error(),
		})
	}
	tracker := triage.NewTracker(catalog)
	locker := memory.NewSubjectLocker(time.Duration(cfg.Triage.LockIdleMinutes) * time.Minute)

	// 3. Mail queue
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	mailQueue := service.NewPublisherService(cfg.App.MailTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.App.MailTopic, emailService, sysLogger)

	// 4. Infrastructure. NATS and Redis are optional; without them events
	// are dropped and the hub only serves this instance.
	c := &Container{Logger: sysLogger}

	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "NATS publisher unavailable", map[string]interface{}{"error": err.Error()})
		natsPub = nil
	} else {
		c.closers = append(c.closers, natsPub.Close)
	}

	var eventSub service.EventSubscriber
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL, notifLogger)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "NATS subscriber unavailable, notifications disabled", map[string]interface{}{"error": err.Error()})
	} else {
		eventSub = natsSub
		c.closers = append(c.closers, natsSub.Close)
	}

	rdb := connectRedis(cfg.App.RedisURL, sysLogger)
	if rdb != nil {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	wsHub := websocket.NewHub(rdb, notifLogger)
	clinicPublisher := clinicEvents.NewNatsPublisher(natsPub, sysLogger)

	// 5. Services
	authService := service.NewAuthService(uowFactory, mailQueue, files, clinicPublisher, sysLogger, service.AuthSettings{
		TokenTTL:      time.Duration(cfg.Auth.TokenTTLHours) * time.Hour,
		OtpTTL:        time.Duration(cfg.Auth.OtpTTLMinutes) * time.Minute,
		ResetTokenTTL: 15 * time.Minute,
		LoginURL:      cfg.App.ClientURL + "/login",
	})
	triageService := service.NewTriageService(uowFactory, tracker, locker, clinicPublisher, sysLogger)
	patientService := service.NewPatientService(uowFactory)
	doctorService := service.NewDoctorService(uowFactory)
	consultationService := service.NewConsultationService(uowFactory, clinicPublisher, sysLogger)
	adminService := service.NewAdminService(uowFactory, mailQueue, files, clinicPublisher, sysLogger, cfg.App.ClientURL+"/login")

	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, eventSub, wsHub, notifLogger)

	// 6. Controllers
	c.AuthController = controller.NewAuthController(authService)
	c.TriageController = controller.NewTriageController(triageService)
	c.PatientController = controller.NewPatientController(patientService, consultationService)
	c.DoctorController = controller.NewDoctorController(doctorService, consultationService)
	c.ConsultationController = controller.NewConsultationController(consultationService)
	c.AdminController = controller.NewAdminController(adminService)

	c.ConsumerService = consumerService
	c.NotificationService = notifService
	c.NotificationHandler = handler.NewNotificationHandler(notifService, wsHub, notifLogger)
	c.WebSocketHub = wsHub

	return c
}

func connectRedis(url string, log logger.ILogger) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("BOOTSTRAP", "Redis unavailable, websocket fan-out is local only", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return nil
	}
	return rdb
}

// Close releases broker connections and flushes the logger.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
