package middleware

import (
	"net/http"
	"runtime"

	"github.com/m04kA/PSY-AppointmentService/internal/api/handlers"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Recovery перехватывает панику обработчика и отвечает 500
func Recovery(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					var stack [4096]byte
					n := runtime.Stack(stack[:], false)

					logger.Error("panic recovered: request_id=%s, %s %s, panic=%v, stack=%s",
						GetRequestID(r.Context()), r.Method, r.URL.Path, p, stack[:n])
					handlers.RespondInternalError(w)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
