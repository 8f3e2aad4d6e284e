package http

import (
	"log/slog"
	"os"

	"github.com/asistia/asistencia-backend-go/internal/handler/http/middleware"
	"github.com/asistia/asistencia-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	jwtService jwt.Service,
	env string,
	shiftHandler ShiftHandler,
	scheduleHandler ScheduleHandler,
	attendanceHandler AttendanceHandler,
	deviceHandler DeviceHandler,
	bridgeHandler BridgeHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "asistencia-backend"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Route("/api/v1", func(r chi.Router) {

		// Hardware bridge: token exchange is open, events require a
		// device token.
		r.Route("/bridge", func(r chi.Router) {
			r.Post("/auth", bridgeHandler.Auth)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
				r.Use(middleware.AuthRequired(jwtService.JWTAuth()))
				r.Use(middleware.DeviceOnly)
				r.Post("/events", bridgeHandler.Event)
			})
		})

		// Admin/API surface
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/shifts", func(r chi.Router) {
				r.Get("/", shiftHandler.List)
				r.Get("/{id}", shiftHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", shiftHandler.Create)
					r.Put("/{id}", shiftHandler.Update)
					r.Delete("/{id}", shiftHandler.Retire)
				})
			})

			r.Route("/schedules", func(r chi.Router) {
				r.Get("/active", scheduleHandler.Active)
				r.Get("/user/{userID}", scheduleHandler.ListByUser)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", scheduleHandler.Create)
					r.Post("/bulk", scheduleHandler.CreateBulk)
					r.Put("/{id}", scheduleHandler.Update)
					r.Delete("/{id}", scheduleHandler.Delete)
				})
			})

			r.Route("/attendances", func(r chi.Router) {
				r.Post("/entrada", attendanceHandler.RegisterEntrada)
				r.Post("/salida", attendanceHandler.RegisterSalida)
				r.Get("/", attendanceHandler.List)
				r.Get("/{id}", attendanceHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Delete("/{id}", attendanceHandler.Delete)
				})
			})

			r.Route("/devices", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Post("/", deviceHandler.Register)
				r.Get("/", deviceHandler.List)
				r.Patch("/{id}/active", deviceHandler.SetActive)
			})
		})
	})

	return r
}
