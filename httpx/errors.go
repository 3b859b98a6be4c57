package httpx

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/adhamo/formdesk/engine"
	"github.com/adhamo/formdesk/log"
	"github.com/adhamo/formdesk/model"
)

// Will log an error, and send an HTTP response with status 500 and default text
func LogInternalError(w http.ResponseWriter, code string, err error) {
	log.Errorf("%s: %s", code, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Will log a debug message, and send an HTTP response with status 404 and default text
func LogNotFound(w http.ResponseWriter, code string, id any) {
	log.Debugf("%s: not found (%v)", code, id)
	w.WriteHeader(http.StatusNotFound)
}

// Will log an error code at the given level, and send
// an HTTP response with status and default text
func LogStatus(w http.ResponseWriter, status int, level log.Level, code string) {
	log.Log(level, code)
	http.Error(w, http.StatusText(status), status)
}

// Will log a validation/shape failure at DEBUG, and send a 422 response
// carrying the domain error payload
func LogUnprocessable(w http.ResponseWriter, r *http.Request, code string, err error) {
	log.Debugf("%s: %s", code, err)
	render.Status(r, http.StatusUnprocessableEntity)
	render.JSON(w, r, ErrorPayload(err))
}

// ErrorPayload shapes a domain error for the wire. Validation errors carry
// their machine code plus the failing field's id and resolved label; shape
// errors carry the offending field id.
func ErrorPayload(err error) map[string]any {
	payload := map[string]any{"error": err.Error()}

	var ve *engine.ValidationError
	if errors.As(err, &ve) {
		payload["code"] = string(ve.Kind)
		if ve.FieldID != "" {
			payload["fieldId"] = ve.FieldID
			payload["label"] = ve.Label
		}
		return payload
	}

	var se *model.ShapeError
	if errors.As(err, &se) {
		payload["code"] = "invalid_field_shape"
		if se.FieldID != "" {
			payload["fieldId"] = se.FieldID
		}
		payload["reason"] = se.Reason
	}
	return payload
}
