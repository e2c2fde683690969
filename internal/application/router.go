package application

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"melidash/internal/server"
	"melidash/pkg/logx"
	"melidash/pkg/middlewarex"
)

// Router mounts the dashboard API behind the logging, recovery and metrics chain.
func (a *Application) Router() http.Handler {
	logging := middlewarex.NewHTTPLogging(logx.NewSensitiveDataMasker(), a.cfg.Log.FieldMax)
	httpMetrics := middlewarex.NewHTTPMetrics(a.registry, a.cfg.App.Name)

	r := chi.NewRouter()
	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger(a.log),
		middlewarex.Recovery,
		httpMetrics.Middleware,
		logging.Requests,
		logging.Responses,
	)

	srv := server.NewServer(
		server.NewPricingServer(a.pricing, a.scheduler, a.taskQueue),
		server.NewMarketServer(a.trends),
		server.NewReputationServer(a.reputation),
		server.NewAssistantServer(a.assistant),
		server.NewAdminServer(a.admin),
		server.NewAuthServer(a.admin),
		a.admin,
	)
	srv.RegisterRoutes(r)

	return r
}
