// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	configfeature "github.com/gavelhq/gavel/internal/app/features/configapi"
	healthfeature "github.com/gavelhq/gavel/internal/app/features/health"
	metricsfeature "github.com/gavelhq/gavel/internal/app/features/metricsapi"
	rosterfeature "github.com/gavelhq/gavel/internal/app/features/rosterapi"
	signalfeature "github.com/gavelhq/gavel/internal/app/features/signalapi"
	"github.com/gavelhq/gavel/internal/app/system/apiauth"
	"github.com/gavelhq/gavel/internal/app/system/authcache"
	"github.com/gavelhq/gavel/internal/app/system/ratelimit"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE
// app. WAFFLE calls this after configuration, DB connections, schema
// setup, and the Startup hook have completed, so every engine service in
// svc is ready to be mounted.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	cache := authcache.New[bool](appCfg.AuthCacheTTL, nil)
	authorizer := apiauth.New(svc.Config, svc.Membership, cache, appCfg.APIUserHeader, logger)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.GavelMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Prometheus scrape endpoint
	r.Mount("/metrics", metricsfeature.Routes(svc.Registry))

	// Signal intake from the gateway adapter
	intakeLimit := appCfg.IntakeRateLimit
	if intakeLimit <= 0 {
		intakeLimit = 600
	}
	signalHandler := signalfeature.NewHandler(svc.Tracker, svc.Reconciler, appCfg.IntakeToken, logger)
	r.Mount("/api/signals", signalfeature.Routes(signalHandler, ratelimit.New(intakeLimit, time.Minute)))

	// Dashboard API, gated per guild
	rosterHandler := rosterfeature.NewHandler(svc.Roster, svc.Activity, svc.Notes,
		svc.Strikes, svc.Config, svc.Evaluator, logger)
	r.Mount("/api/roster", rosterfeature.Routes(rosterHandler, authorizer))

	configHandler := configfeature.NewHandler(svc.Config, svc.Scopes, svc.Reconciler, logger)
	r.Mount("/api/config", configfeature.Routes(configHandler, authorizer))

	return r, nil
}
