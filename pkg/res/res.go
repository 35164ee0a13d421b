// Package res holds the JSON response helpers every handler writes through.
package res

import (
	"encoding/json"
	"net/http"
)

// Json writes data as a JSON body with the given status code.
func Json(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// Error writes an error message in the {"error": msg} envelope the API uses.
func Error(w http.ResponseWriter, msg string, statusCode int) {
	Json(w, map[string]any{"error": msg}, statusCode)
}
