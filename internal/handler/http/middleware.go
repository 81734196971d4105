package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/falahatiali/MoneyMentor/pkg/httputil"
	"github.com/falahatiali/MoneyMentor/pkg/logger"
)

// ContentTypeJSON rejects requests that carry a body without
// Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Envelope{
					Message:   "Content-Type must be application/json",
					Code:      "UNSUPPORTED_MEDIA_TYPE",
					RequestID: logger.CorrelationIDFromContext(r.Context()),
					Timestamp: time.Now().UTC(),
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
