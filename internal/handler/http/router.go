package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bborisdd/AutoStyle-backend/internal/auth"
	"github.com/bborisdd/AutoStyle-backend/internal/service"
	"github.com/bborisdd/AutoStyle-backend/pkg/health"
	"github.com/bborisdd/AutoStyle-backend/pkg/httputil"
	"github.com/bborisdd/AutoStyle-backend/pkg/middleware"
)

// NewRouter creates a chi router with all API routes registered.
func NewRouter(
	userService *service.UserService,
	orderService *service.OrderService,
	codec *auth.TokenCodec,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsConfig CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CORS(corsConfig))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("autostyle-api"))
	r.Use(middleware.Tracing("autostyle-api"))

	// API index
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{
			Data: map[string]any{
				"name":    "AutoStyle API",
				"version": "v1",
				"endpoints": map[string]string{
					"register":     "POST /api/v1/users/register",
					"login":        "POST /api/v1/users/login",
					"profile":      "GET /api/v1/users/me",
					"orders":       "GET /api/v1/orders",
					"create_order": "POST /api/v1/orders",
					"my_orders":    "GET /api/v1/orders/my",
				},
			},
		})
	})

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	authHandler := NewAuthHandler(userService, logger)
	userHandler := NewUserHandler(userService, logger)
	orderHandler := NewOrderHandler(orderService, logger)

	r.Route("/api/v1/users", func(r chi.Router) {
		// Public registration and login
		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)

			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		// Profile endpoints (auth required)
		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(Auth(codec))

			r.Get("/me", userHandler.GetMe)
			r.Get("/{id}", userHandler.GetUser)
			r.Put("/{id}", userHandler.UpdateUser)
			r.Delete("/{id}", userHandler.DeleteUser)
		})
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		// Operator listing across all users. Auth is not required but a
		// valid token still identifies the caller in request logs.
		r.With(OptionalAuth(codec)).Get("/", orderHandler.ListAllOrders)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(Auth(codec))

			r.Post("/", orderHandler.CreateOrder)
			r.Get("/my", orderHandler.ListMyOrders)
			r.Get("/{id}", orderHandler.GetOrder)
			r.Put("/{id}/status", orderHandler.UpdateStatus)
			r.Delete("/{id}", orderHandler.DeleteOrder)
		})
	})

	return r
}
