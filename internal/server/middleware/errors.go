package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/vitrinecms/vitrine/internal/model"
)

// writeAuthError writes a JSON error envelope for a middleware rejection.
// Middlewares keep their own writer rather than importing the handler package
// to avoid an import cycle.
func writeAuthError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	writeJSONBody(w, model.ErrorResponse{Error: message, Code: code})
}

func writeJSONBody(w http.ResponseWriter, v any) {
	json.NewEncoder(w).Encode(v)
}
