package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/farmtotable/farmtotable-backend/api/controllers"
	"github.com/farmtotable/farmtotable-backend/api/middleware"
	"github.com/farmtotable/farmtotable-backend/internal/auth"
	"github.com/farmtotable/farmtotable-backend/internal/invoice"
	"github.com/farmtotable/farmtotable-backend/internal/messages"
	"github.com/farmtotable/farmtotable-backend/internal/products"
	"github.com/farmtotable/farmtotable-backend/pkg/config"
	"github.com/farmtotable/farmtotable-backend/pkg/enums"
	"github.com/farmtotable/farmtotable-backend/pkg/logger"
	"github.com/farmtotable/farmtotable-backend/pkg/redis"
	"github.com/farmtotable/farmtotable-backend/pkg/storage"
)

// RouterParams collects everything the HTTP surface depends on.
type RouterParams struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           controllers.Pinger
	Redis        *redis.Client
	Uploads      *storage.Store
	AuthService  auth.Service
	Messages     messages.Service
	Products     products.Service
	Invoices     *invoice.Assembler
	PromRegistry *prometheus.Registry
}

// NewRouter wires the full route table.
func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	registry := params.PromRegistry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	metrics := middleware.NewMetrics(registry)
	r.Use(metrics.Handler())

	var limiterStore middleware.RateLimiterStore
	if params.Redis != nil {
		limiterStore = params.Redis
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": params.DB,
			"redis":    params.Redis,
		}))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api/users", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, limiterStore, logg)).
			Post("/", controllers.AuthRegister(params.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, limiterStore, logg)).
			Post("/login", controllers.AuthLogin(params.AuthService, logg))
		r.Get("/email", controllers.UserLookup(params.AuthService, logg))
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(params.Products, logg))
		r.Get("/filtered/{category}", controllers.ListProductsFiltered(params.Products, logg))
		r.Get("/{id}", controllers.GetProduct(params.Products, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

			r.Post("/", controllers.CreateProduct(params.Products, cfg.Uploads, logg))
			r.Put("/{id}", controllers.UpdateProduct(params.Products, cfg.Uploads, logg))
			r.Delete("/{id}", controllers.DeleteProduct(params.Products, logg))
		})
	})

	r.Route("/api/messages", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Post("/", controllers.SendMessage(params.Messages, logg))
		r.Get("/", controllers.ListConversations(params.Messages, logg))
		r.Get("/users", controllers.ListMessageUsers(params.Messages, logg))
		r.Get("/conversation/{userId}", controllers.GetTranscript(params.Messages, logg))
		r.Put("/read/{userId}", controllers.MarkMessagesRead(params.Messages, logg))
	})

	r.Route("/api/invoices", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Post("/quote", controllers.InvoiceQuote(params.Invoices, logg))
	})

	if params.Uploads != nil {
		prefix := params.Uploads.PublicPrefix()
		fs := http.StripPrefix(prefix, http.FileServer(http.Dir(params.Uploads.Root())))
		r.Method(http.MethodGet, prefix+"/*", fs)
	}

	return r
}
