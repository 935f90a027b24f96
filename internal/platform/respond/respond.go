// Package respond concentra la escritura de respuestas JSON de los handlers.
package respond

import (
	"encoding/json"
	"net/http"

	"huellitas/internal/apperr"
)

type errorBody struct {
	Error   apperr.Kind `json:"error"`
	Message string      `json:"message"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error escribe {"error": kind, "message": ...} con el status del kind.
// Los PersistenceError no exponen el detalle interno.
func Error(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	msg := err.Error()
	if kind == apperr.KindPersistence {
		msg = "internal error"
	}
	JSON(w, apperr.HTTPStatus(kind), errorBody{Error: kind, Message: msg})
}

// Fail es un atajo para errores que nacen en el propio handler.
func Fail(w http.ResponseWriter, kind apperr.Kind, msg string) {
	JSON(w, apperr.HTTPStatus(kind), errorBody{Error: kind, Message: msg})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
