package middleware

import (
	"context"
	"net/http"

	"github.com/asistia/asistencia-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

type deviceSerialKey struct{}

// DeviceOnly restricts the bridge routes to device tokens issued by
// /bridge/auth and stashes the authenticated serial in the context.
func DeviceOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, "Missing or invalid token")
			return
		}

		role, ok := claims["role"].(string)
		if !ok || role != "device" {
			response.Forbidden(w, "Device token required")
			return
		}

		serial, ok := claims["serial"].(string)
		if !ok || serial == "" {
			response.Unauthorized(w, "Device token missing serial")
			return
		}

		ctx := context.WithValue(r.Context(), deviceSerialKey{}, serial)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// DeviceSerialFromContext returns the serial DeviceOnly stored, or "".
func DeviceSerialFromContext(ctx context.Context) string {
	serial, _ := ctx.Value(deviceSerialKey{}).(string)
	return serial
}
