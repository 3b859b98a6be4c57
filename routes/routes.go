package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/adhamo/formdesk/app"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Get("/health", Health())
	root.Mount("/api", apiRouter(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	// respondent surface
	api.Get(`/forms/{id:^\d+$}`, GetFormById(app))
	api.Get(`/forms/{id:^\d+$}/display`, GetFormDisplay(app))
	api.Post(`/forms/{id:^\d+$}/submissions`, SubmitForm(app))

	// authoring CRUD
	api.Post("/forms", CreateForm(app))
	api.Get("/forms", ListForms(app))
	api.Put(`/forms/{id:^\d+$}`, UpdateForm(app))
	api.Delete(`/forms/{id:^\d+$}`, DeleteForm(app))

	api.Get(`/forms/{id:^\d+$}/responses`, ListFormResponses(app))
	api.Get(`/forms/{id:^\d+$}/responses/export`, ExportFormResponses(app))

	return api
}

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "healthy"})
	}
}
