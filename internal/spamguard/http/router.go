package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/domain"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/model"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/service"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/store"
	"github.com/aussiebroadwan/spamguard/pkg/httpx"
	"github.com/aussiebroadwan/spamguard/pkg/slogx"

	_ "github.com/aussiebroadwan/spamguard/api/spamguard" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Rate limited operations. Each route is limited per (operation, origin).
const (
	OpRegisterInitiate = "register_initiate"
	OpRegisterVerify   = "register_verify"
	OpLoginInitiate    = "login_initiate"
	OpLoginVerify      = "login_verify"
	OpClassify         = "classify"
	OpLogs             = "logs"
	OpSecurityEvents   = "security_events"
	OpBootstrap        = "bootstrap"
	OpHealth           = "health"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store     store.Store
	limiter   *httpx.RateLimiter
	predictor model.Predictor

	Events           service.EventRecorder
	EventLog         *service.EventLog
	AuthService      *service.AuthService
	SessionService   *service.SessionService
	ClassifyService  *service.ClassifyService
	AuditService     *service.AuditService
	BootstrapService *service.BootstrapService
}

// RouterConfig carries the transport settings of the router.
type RouterConfig struct {
	BuildVersion   string
	AllowedOrigins []string
	TrustProxy     bool
	Limiter        *httpx.RateLimiter
	Predictor      model.Predictor
}

func NewRouter(cfg RouterConfig, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: cfg.BuildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
		limiter:      cfg.Limiter,
		predictor:    cfg.Predictor,
	}
	if r.limiter == nil {
		r.limiter = httpx.NewRateLimiter(httpx.DefaultLimit)
	}

	// Origin runs before anything that logs or limits by address
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recover(),
		httpx.CORS(cfg.AllowedOrigins),
		httpx.OriginMiddleware(cfg.TrustProxy),
	}

	return r
}

// RateLimitHook records a security event for every rejected request.
func RateLimitHook(events service.EventRecorder) httpx.LimitHook {
	return func(req *http.Request, op, key string) {
		events.Record(req.Context(), domain.Event{
			Type:     domain.EventRateLimitExceeded,
			Details:  fmt.Sprintf("Rate limit exceeded: %s", op),
			Origin:   key,
			Severity: domain.SeverityMedium,
		})
	}
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerClassify()
	r.registerAudit()
	r.registerBootstrap()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Spamguard API
//	@version		0.1.0
//	@description	Gatekeeper in front of a spam classification model. Users register and log in with an emailed one-time code, then submit text for classification.
//	@description
//	@description				Every submission is screened for adversarial input before it reaches the model. Security relevant events are kept in a tamper-evident log.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/spamguard
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:5000
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token from /login/verify. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authenticated is rate limit then bearer authentication.
func (r *Router) authenticated(h http.Handler, op string) http.Handler {
	return httpx.Chain(h,
		r.limiter.Middleware(op),
		httpx.AuthnMiddleware(r.SessionService, writeServiceError),
	)
}

// adminOnly adds the admin role check after authentication.
func (r *Router) adminOnly(h http.Handler, op, resource string) http.Handler {
	return httpx.Chain(h,
		r.limiter.Middleware(op),
		httpx.AuthnMiddleware(r.SessionService, writeServiceError),
		httpx.RequireRole(domain.RoleAdmin, r.recordDenied(resource)),
	)
}

func (r *Router) recordDenied(resource string) httpx.DeniedHook {
	return func(req *http.Request, p httpx.Principal) {
		r.Events.Record(req.Context(), domain.Event{
			Type:     domain.EventUnauthorizedAccess,
			Details:  fmt.Sprintf("User %s attempted to access %s without permission", p.Email, resource),
			Origin:   httpx.OriginFromContext(req.Context()),
			Identity: p.Email,
			Severity: domain.SeverityHigh,
		})
	}
}

func (r *Router) registerAuth() {
	register := &RegisterHandler{AuthService: r.AuthService}
	login := &LoginHandler{AuthService: r.AuthService}

	r.Mux.Handle("POST /register/initiate",
		httpx.Chain(http.HandlerFunc(register.HandleInitiate), r.limiter.Middleware(OpRegisterInitiate)),
	)
	r.Mux.Handle("POST /register/verify",
		httpx.Chain(http.HandlerFunc(register.HandleVerify), r.limiter.Middleware(OpRegisterVerify)),
	)
	r.Mux.Handle("POST /login/initiate",
		httpx.Chain(http.HandlerFunc(login.HandleInitiate), r.limiter.Middleware(OpLoginInitiate)),
	)
	r.Mux.Handle("POST /login/verify",
		httpx.Chain(http.HandlerFunc(login.HandleVerify), r.limiter.Middleware(OpLoginVerify)),
	)
}

func (r *Router) registerClassify() {
	h := &ClassifyHandler{ClassifyService: r.ClassifyService}
	r.Mux.Handle("POST /check_spam", r.authenticated(h, OpClassify))
}

func (r *Router) registerAudit() {
	h := &AuditHandler{AuditService: r.AuditService, EventLog: r.EventLog}

	r.Mux.Handle("GET /logs",
		r.adminOnly(http.HandlerFunc(h.HandleLogs), OpLogs, "logs"))
	r.Mux.Handle("GET /security-events",
		r.adminOnly(http.HandlerFunc(h.HandleSecurityEvents), OpSecurityEvents, "security events"))
	r.Mux.Handle("GET /security-events/verify",
		r.adminOnly(http.HandlerFunc(h.HandleVerifyChain), OpSecurityEvents, "security events"))
}

func (r *Router) registerBootstrap() {
	// One-time setup endpoint, strict limit by IP
	h := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /bootstrap",
		httpx.Chain(h, r.limiter.Middleware(OpBootstrap)),
	)
}

func (r *Router) registerSystem() {
	// Monitoring systems poll these, so they share their own bucket
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			r.limiter.Middleware(OpHealth),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.predictor),
			r.limiter.Middleware(OpHealth),
		),
	)
}

// principalIdentity rebuilds the identity attached by AuthnMiddleware.
func principalIdentity(ctx context.Context) (domain.Identity, bool) {
	p, ok := httpx.PrincipalFromContext(ctx)
	if !ok {
		return domain.Identity{}, false
	}
	return domain.Identity{ID: p.IdentityID, Email: p.Email, Role: p.Role}, true
}
