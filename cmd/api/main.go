package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/asistia/asistencia-backend-go/internal/config"
	appHTTP "github.com/asistia/asistencia-backend-go/internal/handler/http"
	"github.com/asistia/asistencia-backend-go/internal/pkg/cron"
	"github.com/asistia/asistencia-backend-go/internal/pkg/database"
	"github.com/asistia/asistencia-backend-go/internal/pkg/jwt"
	"github.com/asistia/asistencia-backend-go/internal/repository/postgresql"
	attendanceService "github.com/asistia/asistencia-backend-go/internal/service/attendance"
	deviceService "github.com/asistia/asistencia-backend-go/internal/service/device"
	scheduleService "github.com/asistia/asistencia-backend-go/internal/service/schedule"
	shiftService "github.com/asistia/asistencia-backend-go/internal/service/shift"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), int32(cfg.Database.MaxConns))
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		os.Exit(1)
	}
	defer db.Close()

	shiftRepo := postgresql.NewShiftTemplateRepository(db)
	scheduleRepo := postgresql.NewScheduleAssignmentRepository(db)
	attendanceRepo := postgresql.NewAttendanceRecordRepository(db)
	deviceRepo := postgresql.NewDeviceRepository(db)

	jwtService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.DeviceExpiration)
	if err != nil {
		fmt.Println("Error initializing JWT service:", err)
		os.Exit(1)
	}

	resolver := scheduleService.NewActiveShiftResolver(scheduleRepo, cfg.Attendance.DetectionToleranceMinutes)
	shiftSvc := shiftService.NewTemplateService(db, shiftRepo)
	scheduleSvc := scheduleService.NewAssignmentService(db, scheduleRepo, shiftRepo)
	ledgerSvc := attendanceService.NewLedgerService(db, attendanceRepo, scheduleRepo, resolver, cfg.Attendance.Timezone)
	deviceSvc := deviceService.NewDeviceService(deviceRepo)

	shiftHandler := appHTTP.NewShiftHandler(shiftSvc)
	scheduleHandler := appHTTP.NewScheduleHandler(scheduleSvc, resolver, cfg.Attendance.Timezone)
	attendanceHandler := appHTTP.NewAttendanceHandler(ledgerSvc)
	deviceHandler := appHTTP.NewDeviceHandler(deviceSvc)
	bridgeHandler := appHTTP.NewBridgeHandler(deviceSvc, ledgerSvc, jwtService)

	scheduler := cron.NewScheduler()
	attendanceJobs := cron.NewAttendanceJobs(
		attendanceRepo,
		scheduleRepo,
		cfg.Attendance.Timezone,
		cfg.Attendance.StaleCloseoutGraceHours,
	)
	attendanceJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		jwtService,
		cfg.App.Env,
		shiftHandler,
		scheduleHandler,
		attendanceHandler,
		deviceHandler,
		bridgeHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	server := &http.Server{Addr: port, Handler: router}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("Shutting down...")
	_ = server.Close()
}
