package routes

import (
	"net/http"

	"github.com/dooooncan/Stock-Trader/internal/handlers"
	appmw "github.com/dooooncan/Stock-Trader/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

func NewRoutes(h *handlers.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Works Fine!"))
	})

	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.With(appmw.Authenticated).Post("/auth/logout", h.Logout)
	r.With(appmw.Authenticated).Get("/auth/me", h.Me)

	r.With(appmw.Authenticated).Get("/portfolio", h.Portfolio)
	r.With(appmw.Authenticated).Get("/quote/{symbol}", h.Quote)
	r.With(appmw.Authenticated).Post("/buy", h.Buy)
	r.With(appmw.Authenticated).Post("/sell", h.Sell)
	r.With(appmw.Authenticated).Get("/history", h.History)
	r.With(appmw.Authenticated).Post("/deposit", h.Deposit)

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}
