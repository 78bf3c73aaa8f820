package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/you/parkease/domain"
	"github.com/you/parkease/internal/config"
	httpx "github.com/you/parkease/internal/http"
	"github.com/you/parkease/internal/http/handlers"
	"github.com/you/parkease/internal/http/middleware"
	"github.com/you/parkease/internal/infrastructure/auth"
	"github.com/you/parkease/internal/infrastructure/database"
	"github.com/you/parkease/internal/infrastructure/events"
	"github.com/you/parkease/internal/infrastructure/notifications"
	"github.com/you/parkease/internal/infrastructure/repositories"
	"github.com/you/parkease/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config
	Log    zerolog.Logger

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	NATS        *nats.Conn
	Casbin      *auth.CasbinService

	// Repositories
	UserRepo     domain.UserRepository
	SessionRepo  domain.SessionRepository
	VehicleRepo  domain.VehicleRepository
	BookingRepo  domain.BookingRepository
	LocationRepo domain.LocationRepository

	// Services
	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	AuditLogger     domain.AuditLogger
	Verifier        domain.CredentialVerifier
	MagicLinkSvc    domain.MagicLinkService
	LoginLimiter    domain.LoginLimiter
	AuthSvc         domain.AuthService
	LocationSvc     domain.LocationService
	PolicySvc       domain.PolicyService
}

// NewContainer creates and initializes all dependencies
func NewContainer(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Log: log}

	if err := c.initDatabase(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initRedis(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initCasbin(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initNATS(); err != nil {
		c.Close()
		return nil, err
	}

	c.initRepositories()
	c.initServices()

	return c, nil
}

func (c *Container) initDatabase(ctx context.Context) error {
	db, err := database.Open(ctx, c.Config.DBDriver, c.Config.DSN, c.Config.DBMaxWait, c.Log)
	if err != nil {
		return err
	}
	c.DB = db
	return database.AutoMigrate(db)
}

func (c *Container) initRedis(ctx context.Context) error {
	rdb := database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	c.RedisClient = rdb.Client
	if err := rdb.Ping(ctx); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *Container) initCasbin() error {
	cas, err := auth.NewCasbinService(c.DB, c.Config.CasbinModelPath)
	if err != nil {
		return err
	}
	added, err := cas.SeedDefaultPolicies()
	if err != nil {
		return err
	}
	if added > 0 {
		c.Log.Info().Int("added", added).Msg("casbin: seeded default policies")
	}
	c.Casbin = cas
	return nil
}

// initNATS connects the audit publisher; without a URL audit events are only logged
func (c *Container) initNATS() error {
	if c.Config.NATSURL == "" {
		return nil
	}
	nc, err := nats.Connect(c.Config.NATSURL, nats.Name("parkease"), nats.MaxReconnects(-1))
	if err != nil {
		return fmt.Errorf("nats connect failed: %w", err)
	}
	c.NATS = nc
	return nil
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
	c.SessionRepo = repositories.NewSessionRepository(c.RedisClient, c.Config.RefreshTTL)
	c.VehicleRepo = repositories.NewVehicleRepository(c.DB)
	c.BookingRepo = repositories.NewBookingRepository(c.DB)
	c.LocationRepo = repositories.NewLocationRepository(c.DB)
}

func (c *Container) initServices() {
	c.PasswordSvc = auth.NewPasswordService()
	c.TokenSvc = auth.NewJWTService(
		c.Config.JWTSecret,
		c.Config.JWTIssuer,
		c.Config.AccessTTL,
		c.Config.RefreshTTL,
	)
	c.NotificationSvc = notifications.NewTwilioService(
		c.Config.TwilioSID,
		c.Config.TwilioToken,
		c.Config.TwilioFrom,
		c.Config.Env == "local",
		c.Log,
	)
	c.AuditLogger = events.NewAuditLogger(c.Log, c.NATS, c.Config.NATSAuditSubject)

	c.Verifier = services.NewCredentialVerifier(c.UserRepo, c.PasswordSvc)
	c.MagicLinkSvc = services.NewMagicLinkService(
		c.UserRepo,
		c.NotificationSvc,
		c.RedisClient,
		c.AuditLogger,
		services.MagicLinkConfig{
			BaseURL:      c.Config.MagicLinkBaseURL,
			ResendWindow: c.Config.MagicLinkResendWindow,
		},
		c.Log,
	)
	c.LoginLimiter = services.NewLoginLimiter(c.RedisClient, c.Config.LoginMaxAttempts, c.Config.LoginWindow)

	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.SessionRepo,
		c.Verifier,
		c.MagicLinkSvc,
		c.LoginLimiter,
		c.PasswordSvc,
		c.TokenSvc,
		c.AuditLogger,
		services.AuthConfig{
			AccessTTL:  c.Config.AccessTTL,
			RefreshTTL: c.Config.RefreshTTL,
		},
		c.Log,
	)
	c.LocationSvc = services.NewLocationService(c.LocationRepo)
	c.PolicySvc = services.NewPolicyService(c.Casbin.E)
}

// Router wires handlers and middleware onto a gin engine
func (c *Container) Router() *gin.Engine {
	h := httpx.Handlers{
		Auth:      handlers.NewAuthHandlers(c.AuthSvc, c.MagicLinkSvc, c.Log),
		Vehicles:  handlers.NewVehicleHandlers(c.VehicleRepo),
		Bookings:  handlers.NewBookingHandlers(c.BookingRepo),
		Locations: handlers.NewLocationHandlers(c.LocationSvc),
		Policies:  handlers.NewPolicyHandlers(c.PolicySvc),
	}
	jwtMW := middleware.NewAuthMW(c.TokenSvc, c.SessionRepo)
	casbinMW := middleware.NewCasbinMW(services.NewCasbinEnforcerWrapper(c.Casbin.E), c.Log)

	return httpx.BuildRouter(h, jwtMW, casbinMW, c.Log)
}

// Close closes all connections
func (c *Container) Close() error {
	if c.NATS != nil {
		if err := c.NATS.Drain(); err != nil {
			c.Log.Warn().Err(err).Msg("nats drain failed")
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Log.Warn().Err(err).Msg("redis close failed")
		}
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
