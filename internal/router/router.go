package router

import (
	"net/http"

	"edulearn/internal/handler"
	"edulearn/internal/middleware"
	"edulearn/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Health   *handler.HealthHandler
	Users    *handler.UserHandler
	Courses  *handler.CourseHandler
	Vouchers *handler.VoucherHandler
	Orders   *handler.OrderHandler
	Payments *handler.PaymentHandler
	Progress *handler.ProgressHandler
	Cart     *handler.CourseListHandler
	Wishlist *handler.CourseListHandler
	Reviews  *handler.ReviewHandler
	Blogs    *handler.BlogHandler
}

// Options configures the cross-cutting middleware.
type Options struct {
	Tokens        middleware.TokenParser
	APIKey        string
	CORSOrigins   []string
	CallbackRPS   float64
	CallbackBurst int
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Recovery -> RequestID -> Logging -> Metrics -> CORS
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(opts.CORSOrigins))

	r.Get("/health", h.Health.Health)
	r.Get("/health/ready", h.Health.Ready)

	authenticate := middleware.Authenticate(opts.Tokens, logger)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	r.Route("/api", func(r chi.Router) {
		// Public
		r.Post("/users", h.Users.Register)
		r.Get("/courses", h.Courses.List)
		r.Get("/courses/{courseID}", h.Courses.Get)
		r.Get("/courses/{courseID}/reviews", h.Reviews.ListByCourse)
		r.Get("/blogs", h.Blogs.List)
		r.Get("/blogs/{blogID}", h.Blogs.Get)

		// Provider callbacks authenticate by signature.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(opts.CallbackRPS, opts.CallbackBurst, logger))
			r.Post("/payments/momo/ipn", h.Payments.MoMoIPN)
			r.Post("/payments/zalopay/callback", h.Payments.ZaloPayCallback)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Get("/users/me", h.Users.Me)
			r.With(adminOnly).Get("/users", h.Users.List)
			r.With(adminOnly).Delete("/users/{userID}", h.Users.Delete)

			r.Post("/courses", h.Courses.Create)
			r.Put("/courses/{courseID}", h.Courses.Update)
			r.Delete("/courses/{courseID}", h.Courses.Delete)

			r.Post("/courses/{courseID}/modules", h.Courses.CreateModule)
			r.Put("/courses/{courseID}/modules/{moduleID}", h.Courses.UpdateModule)
			r.Delete("/courses/{courseID}/modules/{moduleID}", h.Courses.DeleteModule)

			r.Post("/courses/{courseID}/lessons", h.Courses.CreateLesson)
			r.Put("/courses/{courseID}/lessons/{lessonID}", h.Courses.UpdateLesson)
			r.Delete("/courses/{courseID}/lessons/{lessonID}", h.Courses.DeleteLesson)

			r.Post("/courses/{courseID}/progress", h.Progress.Initialize)
			r.Get("/courses/{courseID}/progress", h.Progress.Get)
			r.Put("/courses/{courseID}/progress/lessons/{lessonID}", h.Progress.UpdateLesson)

			r.Post("/courses/{courseID}/reviews", h.Reviews.Create)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.Cart.List)
				r.Post("/", h.Cart.Add)
				r.Delete("/{courseID}", h.Cart.Remove)
			})
			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", h.Wishlist.List)
				r.Post("/", h.Wishlist.Add)
				r.Delete("/{courseID}", h.Wishlist.Remove)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", h.Orders.Create)
				r.Get("/", h.Orders.List)
				r.Get("/{orderID}", h.Orders.GetByID)
				r.Post("/{orderID}/cancel", h.Orders.Cancel)
				r.Post("/{orderID}/payments/{provider}", h.Orders.Checkout)
			})

			r.Post("/vouchers/validate", h.Vouchers.Preview)
			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Get("/vouchers", h.Vouchers.List)
				r.Post("/vouchers", h.Vouchers.Create)
				r.Get("/vouchers/{voucherID}", h.Vouchers.Get)
				r.Put("/vouchers/{voucherID}", h.Vouchers.Update)
				r.Delete("/vouchers/{voucherID}", h.Vouchers.Delete)
			})

			r.Put("/reviews/{reviewID}", h.Reviews.Update)
			r.Delete("/reviews/{reviewID}", h.Reviews.Delete)

			r.Post("/blogs", h.Blogs.Create)
			r.Put("/blogs/{blogID}", h.Blogs.Update)
			r.Delete("/blogs/{blogID}", h.Blogs.Delete)
		})
	})

	r.Route("/internal", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(opts.APIKey, logger))
		r.Handle("/metrics", promhttp.Handler())
		r.Post("/vouchers/import", h.Vouchers.Import)
	})

	return r
}
