package middleware

import (
	"encoding/json"
	"net/http"

	chiMid "github.com/go-chi/chi/v5/middleware"
)

// errorPayload is what htmx clients receive on a rejected request; the
// request id lets a user report line up with the request log.
type errorPayload struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError renders an error response: JSON for htmx requests (the payload
// surfaces in htmx response-error events), plain text for everything else.
func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	if !IsHTMX(r.Context()) {
		http.Error(w, msg, code)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorPayload{
		Error:     msg,
		RequestID: chiMid.GetReqID(r.Context()),
	})
}
