package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"heartlink/internal/http/handler"
)

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Session      *handler.SessionHandler
	Account      *handler.AccountHandler
	Profile      *handler.ProfileHandler
	Conversation *handler.ConversationHandler
	Match        *handler.MatchHandler
}

// NewRouter wires HTTP routes.
func NewRouter(h Handlers) http.Handler {

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/session", func(r chi.Router) {
		r.Post("/", h.Session.Login)
		r.Delete("/", h.Session.Logout)
	})

	r.Route("/account", func(r chi.Router) {
		r.Post("/", h.Account.Register)
		r.Get("/verify/{token}", h.Account.Verify)
	})

	r.Route("/password", func(r chi.Router) {
		r.Post("/forgot", h.Account.ForgotPassword)
		r.Post("/reset/{token}", h.Account.ResetPassword)
	})

	r.Route("/profile", func(r chi.Router) {
		r.Get("/", h.Profile.Get)
		r.Post("/", h.Profile.Create)
		r.Patch("/", h.Profile.Update)
	})

	r.Route("/conversations", func(r chi.Router) {
		r.Get("/", h.Conversation.List)
		r.Get("/unread", h.Conversation.Unread)
		r.Route("/current", func(r chi.Router) {
			r.Get("/", h.Conversation.Current)
			r.Delete("/", h.Conversation.Close)
			r.Put("/draft", h.Conversation.Draft)
			r.Post("/messages", h.Conversation.Send)
			r.Post("/messages/{id}/retry", h.Conversation.Retry)
		})
		r.Put("/{matchId}", h.Conversation.Open)
	})

	r.Route("/matches", func(r chi.Router) {
		r.Get("/", h.Match.List)
		r.Get("/potential", h.Match.Potential)
		r.Post("/action", h.Match.Act)
	})

	return r
}
