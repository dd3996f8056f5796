package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes data as a JSON response body with the given status.
// A nil data writes headers only, which some POST endpoints use.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// NoContent acknowledges a state change that has no body to report,
// like disconnect or leave
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
