package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
)

// PanicHandler is called with the recovered value before Recover writes
// its fallback response.
type PanicHandler func(r *http.Request, recovered any)

// Recover turns a panic inside next into a 500 JSON response of the form
// {"error": message}. onPanic may be nil.
func Recover(message string, onPanic PanicHandler) func(http.Handler) http.Handler {
	body, _ := json.Marshal(map[string]string{"error": message})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}
				if onPanic != nil {
					onPanic(r, rec)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write(body)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
