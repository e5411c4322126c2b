package submission

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Middleware = func(http.Handler) http.Handler

// RouterOptions reúne o que o roteador precisa; middlewares nil são ignorados.
type RouterOptions struct {
	Handler        http.Handler
	AllowedOrigins []string
	// Global roda em todas as rotas, antes do CORS (ex: log de requisições).
	Global []Middleware
	// Submit roda só em POST /submit (ex: limite de concorrência, rate limit).
	Submit []Middleware
}

func NewRouter(opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	for _, mw := range opts.Global {
		if mw != nil {
			r.Use(mw)
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
			http.MethodDelete, http.MethodOptions, http.MethodHead,
		},
		AllowedHeaders: []string{"*"},
	}))

	submit := make([]Middleware, 0, len(opts.Submit))
	for _, mw := range opts.Submit {
		if mw != nil {
			submit = append(submit, mw)
		}
	}
	r.With(submit...).Post("/submit", opts.Handler.ServeHTTP)

	return r
}
