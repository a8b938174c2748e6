// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for Gavel.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, sweep_interval, etc.
//   - Environment variables: GAVEL_MONGO_URI, GAVEL_SWEEP_INTERVAL, etc.
//   - Command-line flags: --mongo_uri, --sweep_interval, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "gavel", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	// Membership source
	{Name: "membership_base_url", Default: "", Desc: "Base URL of the membership source (platform gateway REST surface)"},
	{Name: "membership_token", Default: "", Desc: "Bearer token for the membership source"},

	// Alert delivery
	{Name: "alert_webhook_url", Default: "", Desc: "Webhook URL for inactivity alerts (empty logs alerts instead of delivering)"},

	// Signal intake
	{Name: "intake_token", Default: "", Desc: "Shared secret required on the signal intake endpoint"},
	{Name: "intake_rate_limit", Default: 600, Desc: "Max intake requests per client IP per minute"},

	// Dashboard API access
	{Name: "api_user_header", Default: "X-Gavel-User", Desc: "Header carrying the authenticated caller id"},
	{Name: "auth_cache_ttl", Default: "60s", Desc: "TTL for cached dashboard-access decisions (e.g., 60s, 2m)"},

	// Inactivity sweep cadence
	{Name: "sweep_interval", Default: "24h", Desc: "Time between inactivity sweeps"},
	{Name: "startup_sweep_delay", Default: "10s", Desc: "Delay before the first sweep after startup"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, GAVEL_* for app), and
// command-line flags, merged with precedence flags > env > files >
// defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "GAVEL", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		MembershipBaseURL: appValues.String("membership_base_url"),
		MembershipToken:   appValues.String("membership_token"),

		AlertWebhookURL: appValues.String("alert_webhook_url"),

		IntakeToken:     appValues.String("intake_token"),
		IntakeRateLimit: appValues.Int("intake_rate_limit"),

		APIUserHeader: appValues.String("api_user_header"),
		AuthCacheTTL:  appValues.Duration("auth_cache_ttl", 60*time.Second),

		SweepInterval:     appValues.Duration("sweep_interval", 24*time.Hour),
		StartupSweepDelay: appValues.Duration("startup_sweep_delay", 10*time.Second),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Gavel validates the MongoDB URI format and the required external
// endpoints up front, so misconfiguration fails before any connection
// attempt.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.MembershipBaseURL == "" {
		return fmt.Errorf("membership_base_url must be set (group sync and dashboard access read from it)")
	}
	if appCfg.IntakeToken == "" {
		return fmt.Errorf("intake_token must be set (the signal intake endpoint is unauthenticated without it)")
	}
	if appCfg.SweepInterval <= 0 {
		return fmt.Errorf("sweep_interval must be positive, got %s", appCfg.SweepInterval)
	}

	return nil
}
