// ABOUTME: JSON error response helper for middleware
// ABOUTME: Produces the same {message, code} body as the handlers

package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/gursheyss/cs157a/internal/mockapi/models"
)

// WriteJSONError writes an error response as JSON with the given status code
func WriteJSONError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Message: message,
		Code:    code,
	})
}
