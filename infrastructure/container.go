// infrastructure/container.go
package infrastructure

import (
	"context"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/oakmont/qbgateway/config"
	"github.com/oakmont/qbgateway/infrastructure/redis"
	"github.com/oakmont/qbgateway/internal/auth"
	"github.com/oakmont/qbgateway/internal/customer"
	"github.com/oakmont/qbgateway/internal/invoice"
	"github.com/oakmont/qbgateway/internal/item"
	"github.com/oakmont/qbgateway/pkg/qbclient"
)

// Container provides application dependencies
type Container struct {
	// Services
	AuthService     *auth.Service
	CustomerService *customer.Service
	ItemService     *item.Service
	InvoiceService  *invoice.Service

	// Handlers
	AuthHandler    *auth.Handler
	InvoiceHandler *invoice.Handler

	// Infrastructure
	Log         *zap.Logger
	RedisClient goredis.UniversalClient
	RedisHealth *redis.HealthChecker
	TokenStore  auth.TokenStore
	QBClient    *qbclient.Client
}

// NewContainer creates and initializes the dependency container
func NewContainer(ctx context.Context, cfg config.Config, log *zap.Logger) (*Container, error) {
	container := &Container{Log: log}

	// Token storage: Redis-backed with local fallback when an address is
	// configured, plain in-memory otherwise.
	if cfg.Redis.Addr != "" {
		redisCfg := redis.DefaultConfig()
		redisCfg.Addr = cfg.Redis.Addr
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB

		container.RedisClient = redis.NewClient(redisCfg)
		container.RedisHealth = redis.NewHealthChecker(container.RedisClient, 30*time.Second)

		fallback := auth.NewFallbackTokenStore(
			container.RedisClient,
			cfg.Redis.KeyPrefix,
			container.RedisHealth.IsHealthy,
			log,
		)
		fallback.StartReplicationRoutine(ctx)
		container.TokenStore = fallback
	} else {
		container.TokenStore = auth.NewMemoryTokenStore()
	}

	auth.InitSessionStore([]byte(cfg.Session.Secret), cfg.Session.Secure)

	container.AuthService = auth.NewService(auth.OAuthConfig{
		ClientID:     cfg.QuickBooks.ClientID,
		ClientSecret: cfg.QuickBooks.ClientSecret,
		RedirectURI:  cfg.QuickBooks.RedirectURI,
		Scopes:       cfg.QuickBooks.Scopes,
		AuthURL:      cfg.QuickBooks.AuthURL,
		TokenURL:     cfg.QuickBooks.TokenURL,
		RevokeURL:    cfg.QuickBooks.RevokeURL,
	}, container.TokenStore)

	container.QBClient = qbclient.NewClient(cfg.QuickBooks.APIBaseURL, container.AuthService)

	container.CustomerService = customer.NewService(container.QBClient, log)
	container.ItemService = item.NewService(container.QBClient)
	container.InvoiceService = invoice.NewService(
		container.QBClient,
		container.CustomerService,
		container.ItemService,
		log,
	)

	container.AuthHandler = auth.NewHandler(container.AuthService, log, cfg.QuickBooks.CallbackRedirect)
	container.InvoiceHandler = invoice.NewHandler(container.InvoiceService, log, "/auth")

	return container, nil
}

// Shutdown gracefully closes connections
func (c *Container) Shutdown() {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Log.Warn("error closing redis connection", zap.Error(err))
		}
	}
}
