// Package server assembles the HTTP route table of the API.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/joao-fontenele/commerce-api/internal/accounts"
	"github.com/joao-fontenele/commerce-api/internal/auth"
	"github.com/joao-fontenele/commerce-api/internal/catalog"
	"github.com/joao-fontenele/commerce-api/internal/httpx"
	"github.com/joao-fontenele/commerce-api/internal/orders"
	"github.com/joao-fontenele/commerce-api/internal/telemetry"
)

type Dependencies struct {
	Accounts *accounts.Handler
	Catalog  *catalog.Handler
	Orders   *orders.Handler
	Tokens   *auth.TokenIssuer
	// Metrics serves /metrics when set.
	Metrics http.Handler
	// Health reports whether the service can reach its dependencies.
	Health      func(ctx context.Context) error
	ServiceName string
	Logger      *slog.Logger
}

func New(deps Dependencies) http.Handler {
	mux := http.NewServeMux()
	protect := auth.RequireToken(deps.Tokens, deps.Logger)

	public := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, telemetry.WithHTTPRoute(h))
	}
	private := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, telemetry.WithHTTPRoute(protect(h)))
	}

	public("POST /auth/register", deps.Accounts.HandleRegister)
	public("POST /auth/login", deps.Accounts.HandleLogin)
	public("GET /healthz", healthHandler(deps.Health, deps.Logger))
	if deps.Metrics != nil {
		mux.Handle("GET /metrics", deps.Metrics)
	}

	private("GET /usuario/info/{email}", deps.Accounts.HandleGet)
	private("PUT /usuario/{email}", deps.Accounts.HandleUpdate)
	private("DELETE /usuario/{email}", deps.Accounts.HandleDelete)

	private("POST /producto", deps.Catalog.HandleCreate)
	private("GET /producto", deps.Catalog.HandleSearch)
	private("GET /producto/{id}", deps.Catalog.HandleGet)
	private("PUT /producto/{id}", deps.Catalog.HandleUpdate)
	private("DELETE /producto/{id}", deps.Catalog.HandleDelete)

	private("POST /pedido", deps.Orders.HandleCreate)
	private("GET /pedido/{id}", deps.Orders.HandleGet)
	private("GET /pedido/{id}/{view}", deps.Orders.HandleView)
	private("DELETE /pedido/{id}", deps.Orders.HandleDelete)
	private("GET /pedido/usuario/{email}", deps.Orders.HandleListByBuyer)

	return otelhttp.NewHandler(mux, deps.ServiceName,
		otelhttp.WithSpanNameFormatter(telemetry.SpanName),
	)
}

func healthHandler(check func(ctx context.Context) error, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				logger.Error("health check failed", "error", err)
				httpx.WriteJSON(w, logger, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		httpx.WriteJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
	}
}
