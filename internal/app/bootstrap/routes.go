// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	errorsfeature "github.com/dalemusser/stratawallet/internal/app/features/errors"
	healthfeature "github.com/dalemusser/stratawallet/internal/app/features/health"
	loginfeature "github.com/dalemusser/stratawallet/internal/app/features/login"
	logoutfeature "github.com/dalemusser/stratawallet/internal/app/features/logout"
	profilefeature "github.com/dalemusser/stratawallet/internal/app/features/profile"
	registerfeature "github.com/dalemusser/stratawallet/internal/app/features/register"
	"github.com/dalemusser/stratawallet/internal/app/store/audit"
	loginstore "github.com/dalemusser/stratawallet/internal/app/store/logins"
	"github.com/dalemusser/stratawallet/internal/app/system/apicors"
	"github.com/dalemusser/stratawallet/internal/app/system/auditlog"
	"github.com/dalemusser/stratawallet/internal/app/system/auth"
	"github.com/dalemusser/stratawallet/internal/app/system/metrics"
	"github.com/dalemusser/stratawallet/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed, so the task runner is already running.
//
// Route map:
//
//	POST /                 login, answers with a bearer token
//	POST /registrar        registration
//	GET  /paginaPrincipal  profile (Bearer)
//	POST /sair             logout (Bearer)
//	GET  /health/...       health probes, plus /ready, /readyz, /livez
//	GET  /metrics          Prometheus counters
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	errLog := errorsfeature.NewErrorLogger(logger)

	auditStore := audit.New(db)
	auditLogger := auditlog.New(auditStore, logger, auditlog.Config{Auth: appCfg.AuditLogAuth})

	// One login store shared by the login handler (writes) and the bearer
	// middleware (reads) so both agree on the session TTL.
	loginStore := loginstore.New(db, appCfg.SessionTTL)
	requireAuth := auth.RequireBearer(loginStore, logger)

	r := chi.NewRouter()

	// Request timeout middleware: a slow database must not hold a request forever.
	r.Use(chimw.Timeout(timeouts.Request()))

	// CORS must run before routing so preflight requests are answered.
	r.Use(apicors.FromConfig(appCfg.CORSAllowedOrigins))

	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	errorsHandler := errorsfeature.NewHandler()
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Health endpoints sit outside everything else so probes never need auth.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	r.Handle("/metrics", metrics.Handler())

	// Login lives at the root path. Handle matches "/" exactly; Mount would
	// also capture "/*" and shadow the NotFound handler above.
	loginHandler := loginfeature.NewHandler(db, loginStore, taskRunner, errLog, auditLogger, logger)
	r.Handle("/", loginfeature.Routes(loginHandler))

	registerHandler := registerfeature.NewHandler(db, errLog, auditLogger, logger)
	r.Mount("/registrar", registerfeature.Routes(registerHandler))

	profileHandler := profilefeature.NewHandler(db, errLog, logger)
	r.Mount("/paginaPrincipal", profilefeature.Routes(profileHandler, requireAuth))

	logoutHandler := logoutfeature.NewHandler(loginStore, errLog, auditLogger, logger)
	r.Mount("/sair", logoutfeature.Routes(logoutHandler, requireAuth))

	return r, nil
}
