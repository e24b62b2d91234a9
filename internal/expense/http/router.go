package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/aussiebroadwan/expenseflow/api/expense" // Swagger docs
	"github.com/aussiebroadwan/expenseflow/internal/expense/domain"
	"github.com/aussiebroadwan/expenseflow/internal/expense/metrics"
	"github.com/aussiebroadwan/expenseflow/internal/expense/service"
	"github.com/aussiebroadwan/expenseflow/internal/expense/store"
	"github.com/aussiebroadwan/expenseflow/internal/expense/views"
	"github.com/aussiebroadwan/expenseflow/pkg/httpx"
	"github.com/aussiebroadwan/expenseflow/pkg/jwtx"
	"github.com/aussiebroadwan/expenseflow/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeyManager
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	metrics      metrics.Recorder

	store              store.Store
	SessionService     *service.SessionService
	KeyRotationService *service.KeyRotationService
	Views              *views.Router

	// Gatherer backs /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// CookieSecure marks the session cookie Secure.
	CookieSecure bool

	// RateLimits must be set before ApplyRoutes.
	RateLimits httpx.RateLimitProfiles
}

func NewRouter(
	keys *jwtx.KeyManager,
	buildVersion string,
	st store.Store,
	rec metrics.Recorder,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		metrics:      rec,
		logger:       logger,
		RateLimits:   httpx.DefaultRateLimitProfiles(),
	}

	// metrics must sit directly on the mux to see the matched pattern
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		metrics.HTTPMiddleware(r.metrics),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSession()
	r.registerNavigation()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			ExpenseFlow API
//	@version		0.1.0
//	@description	Role-based expense portal: session lifecycle, role menus and page views over mock data.
//	@description
//	@description				Session tokens are EdDSA-signed JWTs and can be verified using the JWKS endpoint.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/expenseflow
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}". The currentUser cookie is accepted as well.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// rejected counts rate limiter rejections per route.
func (r *Router) rejected(route string) httpx.RateLimitOption {
	return httpx.WithRejectHook(func(*http.Request) {
		r.metrics.RecordRateLimited(route)
	})
}

func (r *Router) registerSession() {
	h := &SessionHandler{
		SessionService: r.SessionService,
		Metrics:        r.metrics,
		CookieSecure:   r.CookieSecure,
	}

	// POST /session - strict rate limit by IP + username (login attempts)
	r.Mux.Handle("POST /v1/session",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndBodyField(r.RateLimits.Strict, "username", r.rejected("POST /v1/session")),
		),
	)

	// GET and DELETE work for anonymous callers too
	optional := httpx.AuthnMiddleware(r.authenticate, true)

	r.Mux.Handle("GET /v1/session",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(r.RateLimits.Lenient),
			optional,
		),
	)
	r.Mux.Handle("DELETE /v1/session",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(r.RateLimits.Moderate),
			optional,
		),
	)
}

func (r *Router) registerNavigation() {
	menu := &MenuHandler{}
	pages := &PagesHandler{Views: r.Views, Metrics: r.metrics}

	secured := func(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(h,
			httpx.AuthnMiddleware(r.authenticate, false),
			httpx.RateLimitByUser(limit),
		)
	}

	r.Mux.Handle("GET /v1/menu", secured(menu.HandleGet, r.RateLimits.Lenient))
	r.Mux.Handle("GET /v1/pages/{page}", secured(pages.HandleRender, r.RateLimits.Lenient))
	r.Mux.Handle("POST /v1/pages/{page}/actions/{action}", secured(pages.HandleAction, r.RateLimits.Moderate))
}

func (r *Router) registerAdmin() {
	sessions := &SessionsHandler{SessionService: r.SessionService}
	keys := &KeyRotationHandler{KeyRotationService: r.KeyRotationService, Metrics: r.metrics}

	admin := func(h http.HandlerFunc) http.Handler {
		return httpx.Chain(h,
			httpx.AuthnMiddleware(r.authenticate, false),
			httpx.RequireAnyRole(string(domain.RoleAdmin)),
			httpx.RateLimitByUser(r.RateLimits.Moderate),
		)
	}

	r.Mux.Handle("GET /v1/admin/sessions", admin(sessions.HandleList))
	r.Mux.Handle("POST /v1/admin/keys/rotate", admin(keys.HandleRotate))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.RateLimits.Lenient),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys.KeySet),
			httpx.RateLimitByIP(r.RateLimits.Lenient),
		),
	)

	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys.KeySet),
			httpx.RateLimitByIP(r.RateLimits.Public),
		),
	)

	gatherer := r.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Mux.Handle("GET /metrics", metrics.Handler(gatherer))
}
