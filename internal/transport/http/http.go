package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/status/internal/service/models/history"
	"github.com/corray333/backend-labs/status/internal/service/services/legacysvc"
	"github.com/corray333/backend-labs/status/internal/service/services/statussvc"
	legacyupdate "github.com/corray333/backend-labs/status/internal/transport/http/legacy_update"
	listhistory "github.com/corray333/backend-labs/status/internal/transport/http/list_history"
	updatestatus "github.com/corray333/backend-labs/status/internal/transport/http/update_status"
	"github.com/corray333/backend-labs/status/pkg/http/middleware/trace"
	"github.com/corray333/backend-labs/status/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
)

type statusService interface {
	Update(ctx context.Context, params statussvc.UpdateParams) (int64, error)
	History(ctx context.Context, filter history.QueryEntriesModel) ([]history.Entry, error)
}

type legacyService interface {
	UpdateLegacy(ctx context.Context, params legacysvc.LegacyParams) int64
}

type HTTPTransport struct {
	server    *http.Server
	router    *chi.Mux
	statusSvc statusService
	legacySvc legacyService
}

func NewHTTPTransport(statusSvc statusService, legacySvc legacyService) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:    server,
		router:    router,
		statusSvc: statusSvc,
		legacySvc: legacySvc,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Post("/orders/{orderID}/status", h.updateStatus)
		r.Get("/orders/{orderID}/history", h.listHistory)
		r.Post("/legacy/orders/{orderID}/status", h.legacyUpdate)
	})
}

func (h *HTTPTransport) updateStatus(w http.ResponseWriter, r *http.Request) {
	updatestatus.UpdateStatus(w, r, h.statusSvc)
}

func (h *HTTPTransport) listHistory(w http.ResponseWriter, r *http.Request) {
	listhistory.ListHistory(w, r, h.statusSvc)
}

func (h *HTTPTransport) legacyUpdate(w http.ResponseWriter, r *http.Request) {
	legacyupdate.UpdateLegacy(w, r, h.legacySvc)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
