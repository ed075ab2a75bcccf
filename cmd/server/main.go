package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"sushiwave-be/internal/auth"
	"sushiwave-be/internal/cart"
	"sushiwave-be/internal/category"
	"sushiwave-be/internal/config"
	"sushiwave-be/internal/db"
	"sushiwave-be/internal/httpapi"
	"sushiwave-be/internal/logger"
	"sushiwave-be/internal/middleware"
	"sushiwave-be/internal/order"
	"sushiwave-be/internal/payment"
	"sushiwave-be/internal/product"
	"sushiwave-be/internal/user"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const tokenCleanupInterval = time.Hour

// Indirections for tests.
var (
	initDBFunc      = db.InitDB
	startServerFunc = http.ListenAndServe
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	router, userSvc, err := newServer(cfg, database)
	if err != nil {
		return err
	}

	go cleanupLoop(userSvc)

	logger.L().Info("server listening", zap.String("port", cfg.AppPort), zap.String("env", cfg.AppEnv))
	return startServerFunc(":"+cfg.AppPort, router)
}

func newServer(cfg *config.Config, database *sql.DB) (http.Handler, user.Service, error) {
	maker, err := auth.NewMaker(cfg.JWTSecret, cfg.AccessTokenTTL)
	if err != nil {
		return nil, nil, err
	}

	userRepo := user.NewRepository(database)
	tokenRepo := user.NewTokenRepository(database)
	userSvc := user.NewService(userRepo, tokenRepo, maker, cfg.RefreshTokenTTL)
	userHandler := user.NewHandler(userSvc, user.CookieConfig{
		Domain:     cfg.CookieDomain,
		Secure:     cfg.AppEnv == "production",
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	})

	categoryRepo := category.NewRepository(database)
	categorySvc := category.NewService(categoryRepo)
	categoryHandler := category.NewHandler(categorySvc)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)
	productHandler := product.NewHandler(productSvc)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo)
	cartHandler := cart.NewHandler(cartSvc)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, cartSvc, payment.NewMockGateway())
	orderHandler := order.NewHandler(orderSvc)

	router := setupRouter(maker, userHandler, categoryHandler, productHandler, cartHandler, orderHandler)
	return router, userSvc, nil
}

func setupRouter(
	maker *auth.Maker,
	users *user.Handler,
	categories *category.Handler,
	products *product.Handler,
	carts *cart.Handler,
	orders *order.Handler,
) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.RateLimitMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	requireAuth := middleware.RequireAuth(maker)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", users.Register)
			r.Post("/login", users.Login)
			r.Post("/refresh", users.Refresh)
			r.Post("/logout", users.Logout)
			r.With(requireAuth).Post("/logout-all", users.LogoutAll)
			r.With(requireAuth).Get("/me", users.Me)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(requireAuth)
			r.Put("/profile", users.UpdateProfile)
			r.Put("/password", users.UpdatePassword)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", users.ListUsers)
				r.Get("/{id}", users.GetUser)
				r.Put("/{id}/role", users.UpdateRole)
				r.Delete("/{id}", users.DeleteUser)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categories.List)
			r.Get("/slug/{slug}", categories.GetBySlug)
			r.Get("/{id}", categories.Get)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, middleware.RequireAdmin)
				r.Post("/", categories.Create)
				r.Put("/{id}", categories.Update)
				r.Delete("/{id}", categories.Delete)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.List)
			r.Get("/featured", products.Featured)
			r.Get("/slug/{slug}", products.GetBySlug)
			r.Get("/{id}", products.Get)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, middleware.RequireAdmin)
				r.Post("/", products.Create)
				r.Put("/{id}", products.Update)
				r.Patch("/{id}", products.Patch)
				r.Delete("/{id}", products.Delete)
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Post("/", carts.Get)
			r.Post("/validate", carts.Validate)
			r.Post("/totals", carts.Totals)
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(middleware.OptionalAuth(maker)).Post("/", orders.Create)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/my-orders", orders.ListMine)
				r.Get("/{id}", orders.Get)
				r.Post("/{id}/cancel", orders.Cancel)
				r.Post("/{id}/pay", orders.Pay)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/", orders.List)
					r.Put("/{id}", orders.AdminUpdate)
				})
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpapi.WriteError(w, r, httpapi.NotFound("Route not found"))
	})

	return r
}

// cleanupLoop prunes expired refresh tokens so the table does not grow
// without bound.
func cleanupLoop(svc user.Service) {
	ticker := time.NewTicker(tokenCleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		removed, err := svc.CleanupExpiredTokens(ctx)
		cancel()
		if err != nil {
			logger.L().Warn("refresh token cleanup failed", zap.Error(err))
			continue
		}
		if removed > 0 {
			logger.L().Info("pruned expired refresh tokens", zap.Int64("removed", removed))
		}
	}
}
