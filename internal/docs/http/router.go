package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/paperloop/paperloop/internal/docs/service"
	"github.com/paperloop/paperloop/internal/docs/store"
	"github.com/paperloop/paperloop/pkg/httpx"
	"github.com/paperloop/paperloop/pkg/jwtx"
	"github.com/paperloop/paperloop/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     *jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	DocService *service.DocService
}

func NewRouter(verifier *jwtx.Verifier, buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
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
	h := &DocsHandler{Docs: r.DocService}
	auth := VerifyToken(r.verifier)

	r.Mux.Handle("POST /v1/docs",
		httpx.Chain(http.HandlerFunc(h.Upload),
			httpx.RateLimitByIP(httpx.ModerateLimit),
			auth,
		))
	r.Mux.Handle("GET /v1/docs",
		httpx.Chain(http.HandlerFunc(h.List),
			httpx.RateLimitByIP(httpx.LenientLimit),
			auth,
		))
	r.Mux.Handle("GET /v1/docs/{id}",
		httpx.Chain(http.HandlerFunc(h.Get),
			httpx.RateLimitByIP(httpx.LenientLimit),
			auth,
		))
	r.Mux.Handle("GET /v1/docs/{id}/content",
		httpx.Chain(http.HandlerFunc(h.Download),
			httpx.RateLimitByIP(httpx.LenientLimit),
			auth,
		))
	r.Mux.Handle("DELETE /v1/docs/{id}",
		httpx.Chain(http.HandlerFunc(h.Delete),
			httpx.RateLimitByIP(httpx.ModerateLimit),
			auth,
		))

	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.store))
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}
