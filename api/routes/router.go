package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/retailnet/backend/api/controllers"
	"github.com/retailnet/backend/api/middleware"
	"github.com/retailnet/backend/internal/accounts"
	"github.com/retailnet/backend/internal/basket"
	"github.com/retailnet/backend/internal/contacts"
	"github.com/retailnet/backend/internal/ingest"
	"github.com/retailnet/backend/pkg/config"
	"github.com/retailnet/backend/pkg/db"
	"github.com/retailnet/backend/pkg/enums"
	"github.com/retailnet/backend/pkg/logger"
	"github.com/retailnet/backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	accountsService *accounts.Service,
	ingestService *ingest.Service,
	basketService *basket.Service,
	contactsService *contacts.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

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
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/v1/user", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AccountRegister(accountsService, logg))
		r.Post("/register/confirm", controllers.AccountConfirm(accountsService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AccountLogin(accountsService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Route("/contact", func(r chi.Router) {
				r.Get("/", controllers.ContactList(contactsService, logg))
				r.Post("/", controllers.ContactCreate(contactsService, logg))
				r.Put("/", controllers.ContactUpdate(contactsService, logg))
				r.Delete("/", controllers.ContactDelete(contactsService, logg))
			})
		})
	})

	r.Route("/api/v1/partner", func(r chi.Router) {
		r.Use(
			middleware.Auth(cfg.JWT, logg),
			middleware.RequireUserType(enums.UserTypeShop, logg),
		)
		r.Post("/update", controllers.PartnerUpdate(ingestService, logg))
		r.Get("/state", controllers.PartnerState(ingestService, logg))
		r.Post("/state", controllers.PartnerSetState(ingestService, logg))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/api/v1/basket", func(r chi.Router) {
			r.Get("/", controllers.BasketFetch(basketService, logg))
			r.Post("/", controllers.BasketAdd(basketService, logg))
			r.Put("/", controllers.BasketCheckout(basketService, logg))
		})

		r.Get("/api/v1/orders", controllers.OrdersHistory(basketService, logg))
	})

	return r
}
