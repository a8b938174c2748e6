// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration; CoreConfig handles
// framework-level settings like ports, TLS, logging, and CORS.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Membership source (platform gateway REST surface)
	MembershipBaseURL string // Base URL; group sync and API auth read from it
	MembershipToken   string // Bearer token for the membership source (optional)

	// Alert delivery
	AlertWebhookURL string // Webhook for inactivity alerts; empty logs alerts instead

	// Signal intake
	IntakeToken     string // Shared secret the gateway adapter presents on /api/signals
	IntakeRateLimit int    // Max intake requests per client IP per minute

	// Dashboard API access
	APIUserHeader string // Header carrying the authenticated caller id
	AuthCacheTTL  time.Duration

	// Inactivity sweep cadence
	SweepInterval     time.Duration // Time between sweeps
	StartupSweepDelay time.Duration // Delay before the first sweep after start
}
