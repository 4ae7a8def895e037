package middleware

import (
	"net/http"
	"strings"

	"github.com/vitrinecms/vitrine/internal/model"
)

// BodyLimit returns an HTTP middleware that caps request body size. Multipart
// uploads get the larger uploadLimit; everything else is held to jsonLimit.
// Requests that declare an oversized Content-Length are rejected up front
// with 413; bodies that lie about their length are cut off by MaxBytesReader
// when the handler reads them.
func BodyLimit(jsonLimit, uploadLimit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limit := jsonLimit
			if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
				limit = uploadLimit
			}

			if r.ContentLength > limit {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				writeJSONBody(w, model.ErrorResponse{Error: "Request body too large"})
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
