package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/palace-api/internal/api"
	apiMiddleware "github.com/phrazzld/palace-api/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	authHandler := api.NewAuthHandler(app.userService, app.jwtService, app.logger)
	palaceHandler := api.NewPalaceHandler(app.palaceService, app.logger)
	flashcardHandler := api.NewFlashcardHandler(app.flashcardService, app.reviewService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/palaces", palaceHandler.CreatePalace)
			r.Get("/palaces", palaceHandler.ListPalaces)
			r.Get("/palaces/{id}", palaceHandler.GetPalace)
			r.Delete("/palaces/{id}", palaceHandler.DeletePalace)
			r.Put("/palaces/{id}/layout", palaceHandler.SaveLayout)
			r.Post("/palaces/{id}/furniture", palaceHandler.CreateFurniture)
			r.Get("/palaces/{id}/furniture", palaceHandler.ListFurniture)

			r.Get("/furniture/{id}", palaceHandler.GetFurniture)
			r.Post("/furniture/{id}/flashcards", flashcardHandler.CreateFlashcard)
			r.Get("/furniture/{id}/flashcards", flashcardHandler.ListFlashcards)
			r.Get("/flashcards/{id}", flashcardHandler.GetFlashcard)
			r.Post("/flashcards/{id}/review", flashcardHandler.SubmitGrade)
			r.Get("/review/queue", flashcardHandler.ReviewQueue)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})

	return r
}
