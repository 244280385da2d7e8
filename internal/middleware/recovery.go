package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"warehouse-backend/pkg/utils"
)

// PanicRecovery converts handler panics into JSON 500s so one bad scan
// payload cannot take the process down mid-shift.
func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[Recovery] panic on %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				utils.Error(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
