package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/Gbun420/TalentVault-app/internal/handler"
	"github.com/Gbun420/TalentVault-app/internal/logger"
)

// Recovery catches panics and returns a 500 error instead of crashing the server.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.FromContext(r.Context()).Error("panic recovered",
					"panic", err,
					"stack", string(debug.Stack()),
				)
				handler.JSON(w, http.StatusInternalServerError, map[string]string{
					"error": "internal server error",
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
