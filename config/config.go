package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	QuickBooks QuickBooksConfig
	Session    SessionConfig
	Redis      RedisConfig
	Log        LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// QuickBooksConfig holds OAuth and API settings for the QuickBooks connection
type QuickBooksConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Environment  string // sandbox or production
	Scopes       []string
	AuthURL      string
	TokenURL     string
	RevokeURL    string
	APIBaseURL   string

	// CallbackRedirect switches the /callback response from a JSON payload
	// to a 302 to the invoice list. Deployment-variant flag.
	CallbackRedirect bool
}

// SessionConfig holds cookie session settings used for OAuth state
type SessionConfig struct {
	Secret string
	Secure bool
}

// RedisConfig holds optional Redis token store settings.
// An empty Addr selects the in-memory token store.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

const (
	sandboxAPIBaseURL    = "https://sandbox-quickbooks.api.intuit.com"
	productionAPIBaseURL = "https://quickbooks.api.intuit.com"
	authorizationURL     = "https://appcenter.intuit.com/connect/oauth2"
	tokenURL             = "https://oauth.platform.intuit.com/oauth2/v1/tokens/bearer"
	revokeURL            = "https://developer.api.intuit.com/v2/oauth2/tokens/revoke"
)

// Load reads configuration from environment variables with the QBGW_ prefix,
// applying defaults for everything except the OAuth client credentials.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("QBGW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var cfg Config
	cfg.Server = ServerConfig{
		Port:            v.GetString("server.port"),
		ReadTimeout:     v.GetDuration("server.read_timeout"),
		WriteTimeout:    v.GetDuration("server.write_timeout"),
		IdleTimeout:     v.GetDuration("server.idle_timeout"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
	}
	cfg.QuickBooks = QuickBooksConfig{
		ClientID:         v.GetString("quickbooks.client_id"),
		ClientSecret:     v.GetString("quickbooks.client_secret"),
		RedirectURI:      v.GetString("quickbooks.redirect_uri"),
		Environment:      v.GetString("quickbooks.environment"),
		Scopes:           v.GetStringSlice("quickbooks.scopes"),
		AuthURL:          v.GetString("quickbooks.auth_url"),
		TokenURL:         v.GetString("quickbooks.token_url"),
		RevokeURL:        v.GetString("quickbooks.revoke_url"),
		CallbackRedirect: v.GetBool("quickbooks.callback_redirect"),
	}
	cfg.Session = SessionConfig{
		Secret: v.GetString("session.secret"),
		Secure: v.GetBool("session.secure"),
	}
	cfg.Redis = RedisConfig{
		Addr:      v.GetString("redis.addr"),
		Password:  v.GetString("redis.password"),
		DB:        v.GetInt("redis.db"),
		KeyPrefix: v.GetString("redis.key_prefix"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	switch cfg.QuickBooks.Environment {
	case "sandbox":
		cfg.QuickBooks.APIBaseURL = sandboxAPIBaseURL
	case "production":
		cfg.QuickBooks.APIBaseURL = productionAPIBaseURL
	default:
		return Config{}, fmt.Errorf("invalid quickbooks environment %q (want sandbox or production)", cfg.QuickBooks.Environment)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("quickbooks.environment", "sandbox")
	v.SetDefault("quickbooks.scopes", []string{"com.intuit.quickbooks.accounting"})
	v.SetDefault("quickbooks.auth_url", authorizationURL)
	v.SetDefault("quickbooks.token_url", tokenURL)
	v.SetDefault("quickbooks.revoke_url", revokeURL)
	v.SetDefault("quickbooks.callback_redirect", false)

	v.SetDefault("session.secure", true)

	v.SetDefault("redis.key_prefix", "qbgateway")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

func (c Config) validate() error {
	if c.QuickBooks.ClientID == "" {
		return fmt.Errorf("QBGW_QUICKBOOKS_CLIENT_ID is required")
	}
	if c.QuickBooks.ClientSecret == "" {
		return fmt.Errorf("QBGW_QUICKBOOKS_CLIENT_SECRET is required")
	}
	if c.QuickBooks.RedirectURI == "" {
		return fmt.Errorf("QBGW_QUICKBOOKS_REDIRECT_URI is required")
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("QBGW_SESSION_SECRET is required")
	}
	return nil
}
