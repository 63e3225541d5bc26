package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"ordertrack/internal/mw"
	"ordertrack/internal/service"
)

type Services struct {
	Auth      *service.AuthService
	Orders    *service.OrderService
	Query     *service.QueryService
	Dashboard *service.DashboardService
	Workload  *service.WorkloadService
	Clients   *service.ClientService
}

func NewRouter(svc Services, jwtSecret string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public routes
	r.Post("/api/user/register", RegisterHandler(svc.Auth, jwtSecret))
	r.Post("/api/user/login", LoginHandler(svc.Auth, jwtSecret))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware(jwtSecret))

		r.Get("/api/dashboard", DashboardHandler(svc.Dashboard))
		r.Get("/api/workload/weekly", WeeklyWorkloadHandler(svc.Workload))

		r.Route("/api/orders", func(r chi.Router) {
			r.Get("/", ListOrdersHandler(svc.Query))
			r.Post("/", CreateOrderHandler(svc.Orders))
			r.Get("/{id}", GetOrderHandler(svc.Orders))
			r.Put("/{id}", UpdateOrderHandler(svc.Orders))
			r.Delete("/{id}", DeleteOrderHandler(svc.Orders))
			r.Post("/{id}/status/{status}", TransitionOrderHandler(svc.Orders))
			r.Post("/{id}/duplicate", DuplicateOrderHandler(svc.Orders))
		})

		r.Route("/api/clients", func(r chi.Router) {
			r.Get("/", ListClientsHandler(svc.Clients))
			r.Post("/", CreateClientHandler(svc.Clients))
			r.Get("/{id}", GetClientHandler(svc.Clients))
			r.Put("/{id}", UpdateClientHandler(svc.Clients))
			r.Delete("/{id}", DeleteClientHandler(svc.Clients))
		})
	})

	return r
}
