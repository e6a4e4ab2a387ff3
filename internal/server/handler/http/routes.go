package http

import (
	"net/http"

	"github.com/atinyakov/LangHelper/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handlers groups the handlers mounted by NewRouter.
type Handlers struct {
	Auth       *AuthHandler
	Vocabulary *VocabularyHandler
	Quiz       *QuizHandler
}

// NewRouter constructs and returns an HTTP handler that serves
// the main application API.
//
// Routes:
//
//	GET    /healthz
//	POST   /api/register
//	POST   /api/login
//	POST   /api/logout                  (session)
//	GET    /api/settings                (session)
//	PUT    /api/settings                (session)
//	GET    /api/vocabulary              (session)
//	POST   /api/vocabulary              (session)
//	POST   /api/vocabulary/import       (session)
//	DELETE /api/vocabulary/{id}         (session)
//	POST   /api/vocabulary/{id}/star    (session)
//	POST   /api/quiz                    (session)
//	POST   /api/quiz/feedback           (session)
//	POST   /api/writing/feedback        (session)
//
// Middleware chain (applied in order):
//  1. Recoverer                          - turns panics into 500
//  2. AllowContentType("application/json") - rejects non-JSON bodies
//  3. WithRequestLogging(logger)         - logs incoming requests
//  4. SessionAuth                        - bearer token, protected group only
func NewRouter(h Handlers, sessions middleware.SessionResolver, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(middleware.WithRequestLogging(logger))

	r.Get("/healthz", Healthz)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)

		// Protected group: requires a live session
		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionAuth(sessions))

			r.Post("/logout", h.Auth.Logout)
			r.Get("/settings", h.Auth.GetSettings)
			r.Put("/settings", h.Auth.UpdateSettings)

			r.Route("/vocabulary", func(r chi.Router) {
				r.Get("/", h.Vocabulary.List)
				r.Post("/", h.Vocabulary.Add)
				r.Post("/import", h.Vocabulary.Import)
				r.Delete("/{id}", h.Vocabulary.Remove)
				r.Post("/{id}/star", h.Vocabulary.ToggleStar)
			})

			r.Post("/quiz", h.Quiz.NewQuiz)
			r.Post("/quiz/feedback", h.Quiz.QuizFeedback)
			r.Post("/writing/feedback", h.Quiz.WritingFeedback)
		})
	})

	return r
}

// NewWordListRouter serves the extension-side list service. CORS is open to
// any origin so the browser extension can call it from any page.
func NewWordListRouter(h *WordListHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))
	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(middleware.WithRequestLogging(logger))

	r.Get("/healthz", Healthz)
	r.Route("/api/vocabulary", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Add)
		r.Delete("/", h.Remove)
	})

	return r
}
