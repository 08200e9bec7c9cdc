package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/paperloop/paperloop/internal/identity/service"
	"github.com/paperloop/paperloop/internal/identity/store"
	"github.com/paperloop/paperloop/pkg/httpx"
	"github.com/paperloop/paperloop/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	TokenService *service.TokenService
	AuthService  *service.AuthService
	UserService  *service.UserService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	// Token resolution runs on every route; endpoints that need a principal
	// add RequireAuthenticated or RequireStaff on top.
	r.middlewares = append(r.middlewares,
		httpx.Authenticate(&TokenAuthenticator{Tokens: r.TokenService}),
	)

	r.registerAuth()
	r.registerUsers()
	r.registerAdmin()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{Auth: r.AuthService}

	r.Mux.Handle("POST /v1/auth/signup",
		httpx.Chain(http.HandlerFunc(h.Signup),
			httpx.RateLimitByIP(httpx.StrictLimit),
		))
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.Login),
			httpx.RateLimitByIP(httpx.StrictLimit),
		))
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.Logout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
			httpx.RequireAuthenticated(),
		))
	r.Mux.Handle("GET /v1/auth/activate",
		httpx.Chain(http.HandlerFunc(h.Activate),
			httpx.RateLimitByIP(httpx.StrictLimit),
		))
	r.Mux.Handle("POST /v1/auth/password-reset",
		httpx.Chain(http.HandlerFunc(h.PasswordReset),
			httpx.RateLimitByIP(httpx.StrictLimit),
		))
	r.Mux.Handle("POST /v1/auth/password-setup",
		httpx.Chain(http.HandlerFunc(h.PasswordSetup),
			httpx.RateLimitByIP(httpx.StrictLimit),
		))
}

func (r *Router) registerUsers() {
	h := &UsersHandler{Users: r.UserService, Auth: r.AuthService}

	r.Mux.Handle("GET /v1/users/{id}",
		httpx.Chain(http.HandlerFunc(h.Get),
			httpx.RateLimitByIP(httpx.LenientLimit),
			httpx.RequireAuthenticated(),
		))
	r.Mux.Handle("PUT /v1/users/{id}",
		httpx.Chain(http.HandlerFunc(h.Update),
			httpx.RateLimitByIP(httpx.ModerateLimit),
			httpx.RequireAuthenticated(),
		))
	r.Mux.Handle("POST /v1/users/{id}/password",
		httpx.Chain(http.HandlerFunc(h.ChangePassword),
			httpx.RateLimitByIP(httpx.StrictLimit),
			httpx.RequireAuthenticated(),
		))
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{Users: r.UserService}

	r.Mux.Handle("GET /v1/admin/users",
		httpx.Chain(http.HandlerFunc(h.List),
			httpx.RateLimitByIP(httpx.LenientLimit),
			httpx.RequireStaff(),
		))
	r.Mux.Handle("POST /v1/admin/users",
		httpx.Chain(http.HandlerFunc(h.Create),
			httpx.RateLimitByIP(httpx.ModerateLimit),
			httpx.RequireStaff(),
		))
	r.Mux.Handle("GET /v1/admin/users/{id}",
		httpx.Chain(http.HandlerFunc(h.Get),
			httpx.RateLimitByIP(httpx.LenientLimit),
			httpx.RequireStaff(),
		))
	r.Mux.Handle("PUT /v1/admin/users/{id}",
		httpx.Chain(http.HandlerFunc(h.Update),
			httpx.RateLimitByIP(httpx.ModerateLimit),
			httpx.RequireStaff(),
		))
	r.Mux.Handle("DELETE /v1/admin/users/{id}",
		httpx.Chain(http.HandlerFunc(h.Delete),
			httpx.RateLimitByIP(httpx.ModerateLimit),
			httpx.RequireStaff(),
		))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.store))
}
