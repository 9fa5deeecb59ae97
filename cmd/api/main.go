package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/presensia/presensia-backend-go/internal/config"
	appHTTP "github.com/presensia/presensia-backend-go/internal/handler/http"
	"github.com/presensia/presensia-backend-go/internal/pkg/clock"
	"github.com/presensia/presensia-backend-go/internal/pkg/cron"
	"github.com/presensia/presensia-backend-go/internal/pkg/database"
	"github.com/presensia/presensia-backend-go/internal/pkg/jwt"
	"github.com/presensia/presensia-backend-go/internal/repository/postgresql"
	attendanceService "github.com/presensia/presensia-backend-go/internal/service/attendance"
	authService "github.com/presensia/presensia-backend-go/internal/service/auth"
	leaveService "github.com/presensia/presensia-backend-go/internal/service/leave"
	settingsService "github.com/presensia/presensia-backend-go/internal/service/settings"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	zone, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Fatal("Invalid APP_TIMEZONE: ", err)
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)
	auditLog := postgresql.NewAuditLog(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	systemClock := clock.System()

	attendanceSvc := attendanceService.NewService(
		attendanceRepo,
		leaveRequestRepo,
		userRepo,
		settingsRepo,
		auditLog,
		systemClock,
		zone,
	)
	leaveSvc := leaveService.NewService(leaveRequestRepo, auditLog, systemClock)
	settingsSvc := settingsService.NewService(settingsRepo)
	authSvc := authService.NewService(userRepo, jwtService)

	authHandler := appHTTP.NewAuthHandler(authSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	settingsHandler := appHTTP.NewSettingsHandler(settingsSvc)

	router := appHTTP.NewRouter(
		jwtService,
		authHandler,
		attendanceHandler,
		leaveHandler,
		settingsHandler,
	)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceSvc).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
