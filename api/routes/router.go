package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/santelink/provider-portal/api/controllers"
	"github.com/santelink/provider-portal/api/middleware"
	"github.com/santelink/provider-portal/internal/cart"
	"github.com/santelink/provider-portal/pkg/config"
	"github.com/santelink/provider-portal/pkg/logger"
)

// SessionManager is the full session surface the router wires in.
type SessionManager interface {
	controllers.SessionService
	middleware.Authenticator
}

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	Sessions      SessionManager
	Profile       controllers.ProfileFetcher
	Catalog       controllers.CatalogService
	Carts         *cart.Registry
	Orders        controllers.OrderService
	Dashboard     controllers.DashboardLoader
	Notifications controllers.NotificationService
	Metrics       prometheus.Gatherer
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	logg := deps.Logger

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Get("/healthz", controllers.HealthLive(deps.Config))
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", controllers.AuthLogin(deps.Sessions, logg))
		r.Get("/auth/session", controllers.AuthSession(deps.Sessions, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(deps.Sessions, logg))

			r.Post("/auth/logout", controllers.AuthLogout(deps.Sessions, logg))
			r.Get("/auth/profile", controllers.AuthProfile(deps.Sessions, deps.Profile, logg))

			r.Route("/medicines", func(r chi.Router) {
				r.Get("/", controllers.MedicineList(deps.Catalog, deps.Sessions, logg))
				r.Get("/{medicineId}", controllers.MedicineDetail(deps.Catalog, deps.Sessions, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(deps.Carts, logg))
				r.Delete("/", controllers.CartClear(deps.Carts, logg))
				r.Post("/items", controllers.CartAddItem(deps.Carts, deps.Catalog, deps.Sessions, logg))
				r.Patch("/items/{medicineId}", controllers.CartUpdateItem(deps.Carts, logg))
				r.Delete("/items/{medicineId}", controllers.CartRemoveItem(deps.Carts, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.OrderSubmit(deps.Orders, logg))
				r.Get("/", controllers.OrderHistory(deps.Orders, logg))
			})

			r.Route("/order-templates", func(r chi.Router) {
				r.Get("/", controllers.TemplateList(deps.Orders, logg))
				r.Post("/", controllers.TemplateCreate(deps.Orders, logg))
				r.Put("/{templateId}", controllers.TemplateUpdate(deps.Orders, logg))
				r.Delete("/{templateId}", controllers.TemplateDelete(deps.Orders, logg))
				r.Post("/{templateId}/apply", controllers.TemplateApply(deps.Orders, logg))
			})

			r.Get("/dashboard", controllers.DashboardFetch(deps.Dashboard, logg))

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.NotificationList(deps.Notifications, logg))
				r.Get("/stats", controllers.NotificationStats(deps.Notifications, logg))
				r.Post("/{notificationId}/read", controllers.NotificationMarkRead(deps.Notifications, logg))
				r.Post("/read-all", controllers.NotificationMarkAllRead(deps.Notifications, logg))
				r.Delete("/{notificationId}", controllers.NotificationDelete(deps.Notifications, logg))
			})
		})
	})

	return r
}
