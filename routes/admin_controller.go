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
	"github.com/adhamo/formdesk/config"
	"github.com/adhamo/formdesk/export"
	"github.com/adhamo/formdesk/httpx"
	"github.com/adhamo/formdesk/log"
	"github.com/adhamo/formdesk/model"
)

const formColumns = `id, title, description, submit_button_text, hero_image_url, fields, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanForm reads one form row. Bilingual columns normalize through
// BilingualText.Scan, so legacy plain-string or double-encoded values come
// out canonical.
func scanForm(row rowScanner) (form model.Form, err error) {
	var fieldsJSON string
	err = row.Scan(
		&form.ID, &form.Title, &form.Description, &form.SubmitButtonText,
		&form.HeroImageURL, &fieldsJSON,
		&form.IsActive, &form.CreatedAt, &form.UpdatedAt,
	)
	if err != nil {
		return
	}

	form.Fields = []model.FieldDefinition{}
	if fieldsJSON != "" {
		err = errors.Wrap(json.Unmarshal([]byte(fieldsJSON), &form.Fields), "parse form fields")
	}
	return
}

func CreateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		def := model.FormDefinition{}
		err := render.DecodeJSON(r.Body, &def)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		if err := def.ValidateShape(); err != nil {
			httpx.LogUnprocessable(w, r, "create_form.shape", err)
			return
		}
		def.Sanitize()

		fieldsJSON, err := json.Marshal(def.Fields)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_form.encode_fields", err)
			return
		}

		now := time.Now().UTC()
		var formId int
		err = app.QueryRowContext(r.Context(), `
			INSERT INTO form (title, description, submit_button_text, hero_image_url, fields, is_active, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, TRUE, ?, ?)
			RETURNING id`,
			def.Title, def.Description, def.SubmitButtonText,
			def.HeroImageURL, string(fieldsJSON),
			now, now,
		).Scan(&formId)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_form", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, model.Form{
			ID:             formId,
			FormDefinition: def,
			IsActive:       true,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
}

func ListForms(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := 1
		if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
			page = p
		}
		pageSize := app.PageSize
		if ps, err := strconv.Atoi(r.URL.Query().Get("pageSize")); err == nil && ps > 0 && ps <= config.MaxPageSize {
			pageSize = ps
		}

		var totalCount int
		err := app.QueryRowContext(r.Context(),
			`SELECT COUNT(*) FROM form WHERE is_active`,
		).Scan(&totalCount)
		if err != nil {
			httpx.LogInternalError(w, "db.count_forms", err)
			return
		}
		totalPages := (totalCount + pageSize - 1) / pageSize

		rows, err := app.QueryContext(r.Context(), `
			SELECT `+formColumns+` FROM form
			WHERE is_active
			ORDER BY created_at DESC, id DESC
			LIMIT ? OFFSET ?`,
			pageSize, (page-1)*pageSize,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.get_forms", err)
			return
		}
		defer rows.Close()

		forms := []model.Form{}
		for rows.Next() {
			form, err := scanForm(rows)
			if err != nil {
				httpx.LogInternalError(w, "db.get_forms.scan", err)
				return
			}
			forms = append(forms, form)
		}
		if err := rows.Err(); err != nil {
			httpx.LogInternalError(w, "db.get_forms.rows", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"items":      forms,
			"totalCount": totalCount,
			"page":       page,
			"pageSize":   pageSize,
			"totalPages": totalPages,
		})
	}
}

func UpdateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		def := model.FormDefinition{}
		err = render.DecodeJSON(r.Body, &def)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		if err := def.ValidateShape(); err != nil {
			httpx.LogUnprocessable(w, r, "update_form.shape", err)
			return
		}
		def.Sanitize()

		fieldsJSON, err := json.Marshal(def.Fields)
		if err != nil {
			httpx.LogInternalError(w, "db.update_form.encode_fields", err)
			return
		}

		// Concurrent edits are not coordinated: last write wins.
		res, err := app.ExecContext(r.Context(), `
			UPDATE form
			SET
				title = ?,
				description = ?,
				submit_button_text = ?,
				hero_image_url = ?,
				fields = ?,
				updated_at = ?
			WHERE id = ?`,
			def.Title, def.Description, def.SubmitButtonText,
			def.HeroImageURL, string(fieldsJSON),
			time.Now().UTC(),
			formId,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.update_form", err)
			return
		}
		n, err := res.RowsAffected()
		if err != nil {
			httpx.LogInternalError(w, "db.update_form.verify", err)
			return
		}
		if n < 1 {
			httpx.LogNotFound(w, "update_form", formId)
			return
		}

		form, err := scanForm(app.QueryRowContext(r.Context(),
			`SELECT `+formColumns+` FROM form WHERE id = ?`, formId))
		if err != nil {
			httpx.LogInternalError(w, "db.update_form.reload", err)
			return
		}

		render.JSON(w, r, form)
	}
}

func DeleteForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		if r.URL.Query().Get("permanent") != "" {
			hardDeleteForm(app, w, r, formId)
			return
		}

		// soft deactivation: the form disappears from public view, its
		// responses stay readable
		res, err := app.ExecContext(r.Context(), `
			UPDATE form
			SET is_active = FALSE, updated_at = ?
			WHERE id = ? AND is_active`,
			time.Now().UTC(),
			formId,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.deactivate_form", err)
			return
		}
		n, err := res.RowsAffected()
		if err != nil {
			httpx.LogInternalError(w, "db.deactivate_form.verify", err)
			return
		}
		if n < 1 {
			httpx.LogNotFound(w, "deactivate_form", formId)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func hardDeleteForm(app app.App, w http.ResponseWriter, r *http.Request, formId int) {
	tx, err := app.BeginTx(r.Context(), nil)
	if err != nil {
		httpx.LogInternalError(w, "db.begin_tx", err)
		return
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(r.Context(),
		`DELETE FROM form_response WHERE form_id = ?`, formId)
	if err != nil {
		httpx.LogInternalError(w, "db.delete_form.responses", err)
		return
	}

	res, err := tx.ExecContext(r.Context(),
		`DELETE FROM form WHERE id = ?`, formId)
	if err != nil {
		httpx.LogInternalError(w, "db.delete_form", err)
		return
	}
	n, err := res.RowsAffected()
	if err != nil {
		httpx.LogInternalError(w, "db.delete_form.verify", err)
		return
	}
	if n < 1 {
		httpx.LogNotFound(w, "delete_form", formId)
		return
	}

	if err := tx.Commit(); err != nil {
		httpx.LogInternalError(w, "db.delete_form.commit", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func ListFormResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		// inactive forms keep their history, so no is_active filter here
		if !formExists(app, r, w, formId) {
			return
		}

		submissions, err := queryResponses(app, r, formId)
		if err != nil {
			httpx.LogInternalError(w, "db.get_responses", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"responses": submissions,
		})
	}
}

func formExists(app app.App, r *http.Request, w http.ResponseWriter, formId int) bool {
	var one int
	err := app.QueryRowContext(r.Context(),
		`SELECT 1 FROM form WHERE id = ?`, formId,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		httpx.LogNotFound(w, "get_form", formId)
		return false
	}
	if err != nil {
		httpx.LogInternalError(w, "db.get_form", err)
		return false
	}
	return true
}

func ExportFormResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}
		lang := model.ParseLanguage(r.URL.Query().Get("lang"))

		form, err := scanForm(app.QueryRowContext(r.Context(),
			`SELECT `+formColumns+` FROM form WHERE id = ?`, formId))
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "export_responses", formId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_form", err)
			return
		}

		submissions, err := queryResponses(app, r, formId)
		if err != nil {
			httpx.LogInternalError(w, "db.get_responses", err)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(form)+`"`)
		if err := export.ResponsesCSV(w, form, submissions, lang); err != nil {
			// headers are gone already, just log
			log.Errorf("export_responses.write: %s", err)
		}
	}
}

func queryResponses(app app.App, r *http.Request, formId int) ([]model.Submission, error) {
	rows, err := app.QueryContext(r.Context(), `
		SELECT id, form_id, phone_number, response_data, language, submitted_at
		FROM form_response
		WHERE form_id = ?
		ORDER BY submitted_at DESC, id DESC`,
		formId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	submissions := []model.Submission{}
	for rows.Next() {
		var s model.Submission
		var dataJSON string
		err = rows.Scan(&s.ID, &s.FormID, &s.PhoneNumber, &dataJSON, &s.Language, &s.SubmittedAt)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(dataJSON), &s.ResponseData); err != nil {
			return nil, errors.Wrapf(err, "parse response data (submission %d)", s.ID)
		}
		submissions = append(submissions, s)
	}
	return submissions, rows.Err()
}
