package routes

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/pkg/errors"

	"github.com/adhamo/formdesk/app"
	"github.com/adhamo/formdesk/engine"
	"github.com/adhamo/formdesk/httpx"
	"github.com/adhamo/formdesk/log"
	"github.com/adhamo/formdesk/model"
)

// fetchForm loads one form, optionally restricted to active forms (the
// respondent-facing default).
func fetchForm(app app.App, r *http.Request, formId int, includeInactive bool) (model.Form, error) {
	query := `SELECT ` + formColumns + ` FROM form WHERE id = ?`
	if !includeInactive {
		query += ` AND is_active`
	}
	return scanForm(app.QueryRowContext(r.Context(), query, formId))
}

func GetFormById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		// operators pass ?all=1 to inspect deactivated forms
		includeInactive := r.URL.Query().Get("all") != ""

		form, err := fetchForm(app, r, formId, includeInactive)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "get_form", formId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_form", err)
			return
		}

		render.JSON(w, r, form)
	}
}

func GetFormDisplay(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}
		lang := model.ParseLanguage(r.URL.Query().Get("lang"))

		form, err := fetchForm(app, r, formId, false)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "get_form_display", formId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_form", err)
			return
		}

		render.JSON(w, r, engine.ResolveDisplay(form.FormDefinition, lang))
	}
}

func SubmitForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var body struct {
			PhoneNumber  string         `json:"phoneNumber"`
			ResponseData map[string]any `json:"responseData"`
			Language     string         `json:"language"`
		}
		err = render.DecodeJSON(r.Body, &body)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		lang := model.ParseLanguage(body.Language)
		if body.ResponseData == nil {
			body.ResponseData = map[string]any{}
		}

		form, err := fetchForm(app, r, formId, false)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "submit_form", formId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_form", err)
			return
		}

		validator := engine.Validator{EnforceConstraints: app.StrictValidation}
		err = validator.ValidateSubmission(form.FormDefinition, lang, body.PhoneNumber, body.ResponseData)
		if err != nil {
			httpx.LogUnprocessable(w, r, "submit_form.validate", err)
			return
		}

		dataJSON, err := json.Marshal(body.ResponseData)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_response.encode", err)
			return
		}

		now := time.Now().UTC()
		var submissionId int
		err = app.QueryRowContext(r.Context(), `
			INSERT INTO form_response (form_id, phone_number, response_data, language, submitted_at)
			VALUES (?, ?, ?, ?, ?)
			RETURNING id`,
			formId, body.PhoneNumber, string(dataJSON), string(lang), now,
		).Scan(&submissionId)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_response", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, model.Submission{
			ID:           submissionId,
			FormID:       formId,
			PhoneNumber:  body.PhoneNumber,
			ResponseData: body.ResponseData,
			Language:     lang,
			SubmittedAt:  now,
		})
	}
}
