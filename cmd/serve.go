package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	bulkCreateScheduleHandler "github.com/m04kA/PSY-AppointmentService/internal/api/handlers/bulk_create_schedule"
	changeAppointmentStatusHandler "github.com/m04kA/PSY-AppointmentService/internal/api/handlers/change_appointment_status"
	createAppointmentHandler "github.com/m04kA/PSY-AppointmentService/internal/api/handlers/create_appointment"
	createScheduleBlockHandler "github.com/m04kA/PSY-AppointmentService/internal/api/handlers/create_schedule_block"
	createUnavailabilityHandler "github.com/m04kA/PSY-AppointmentService/internal/api/handlers/create_unavailability"
	deleteScheduleBlockHandler "github.com/m04kA/PSY-AppointmentService/internal/api/handlers/delete_schedule_block"
	deleteUnavailabilityHandler "github.com/m04kA/PSY-AppointmentService/internal/api/handlers/delete_unavailability"
	getAppointmentHandler "github.com/m04kA/PSY-AppointmentService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/PSY-AppointmentService/internal/api/handlers/get_available_slots"
	getPsychologistAppointmentsHandler "github.com/m04kA/PSY-AppointmentService/internal/api/handlers/get_psychologist_appointments"
	getPsychologistScheduleHandler "github.com/m04kA/PSY-AppointmentService/internal/api/handlers/get_psychologist_schedule"
	getStudentAppointmentsHandler "github.com/m04kA/PSY-AppointmentService/internal/api/handlers/get_student_appointments"
	updateScheduleBlockHandler "github.com/m04kA/PSY-AppointmentService/internal/api/handlers/update_schedule_block"
	"github.com/m04kA/PSY-AppointmentService/internal/api/middleware"
	"github.com/m04kA/PSY-AppointmentService/internal/config"
	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	"github.com/m04kA/PSY-AppointmentService/internal/infra/migrator"
	appointmentRepo "github.com/m04kA/PSY-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/PSY-AppointmentService/internal/infra/storage/memory"
	scheduleRepo "github.com/m04kA/PSY-AppointmentService/internal/infra/storage/schedule"
	userRepo "github.com/m04kA/PSY-AppointmentService/internal/infra/storage/user"
	notificationServiceClient "github.com/m04kA/PSY-AppointmentService/internal/integrations/notificationservice"
	appointmentsService "github.com/m04kA/PSY-AppointmentService/internal/service/appointments"
	scheduleService "github.com/m04kA/PSY-AppointmentService/internal/service/schedule"
	createAppointmentUC "github.com/m04kA/PSY-AppointmentService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/PSY-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/PSY-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/PSY-AppointmentService/pkg/logger"
	"github.com/m04kA/PSY-AppointmentService/pkg/metrics"
	"github.com/m04kA/PSY-AppointmentService/pkg/txmanager"
)

// Общие контракты postgres и memory хранилищ

type appointmentStore interface {
	createAppointmentUC.AppointmentRepository
	appointmentsService.AppointmentRepository
}

type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

type storage struct {
	appointments appointmentStore
	schedules    scheduleService.ScheduleRepository
	users        scheduleService.UserRepository
	tx           txManager
	close        func() error
}

func runServer(cfg *config.Config, configPath string) error {
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer log.Close()

	log.Info("Starting PSY-AppointmentService...")
	log.Info("Configuration loaded from %s", configPath)

	// Метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	store, err := openStorage(cfg, metricsCollector, stopMetricsCh, log)
	if err != nil {
		return err
	}
	defer store.close()

	notificationClient := notificationServiceClient.NewClient(
		cfg.NotificationService.URL,
		time.Duration(cfg.NotificationService.Timeout)*time.Second,
		log,
	)
	log.Info("Notification client initialized (url=%q, timeout=%ds)",
		cfg.NotificationService.URL, cfg.NotificationService.Timeout)

	rules := domain.BookingRules{
		DefaultGranularityMinutes: cfg.Booking.DefaultGranularityMinutes,
		MinNoticeMinutes:          cfg.Booking.MinNoticeMinutes,
		MaxRangeDays:              cfg.Booking.MaxRangeDays,
		MaxAdvanceDays:            cfg.Booking.MaxAdvanceDays,
	}

	// Сервисы и use cases
	appointmentSvc := appointmentsService.NewService(
		store.appointments,
		store.tx,
		notificationClient,
		metricsCollector,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		store.schedules,
		store.users,
		store.tx,
		log,
	)

	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		store.appointments,
		store.schedules,
		store.users,
		store.tx,
		notificationClient,
		metricsCollector,
		rules,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		store.appointments,
		store.schedules,
		store.users,
		rules,
		log,
	)

	// Handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	confirmAppointment := changeAppointmentStatusHandler.NewHandler(appointmentSvc, domain.StatusConfirmed, "confirm", log)
	cancelAppointment := changeAppointmentStatusHandler.NewHandler(appointmentSvc, domain.StatusCancelled, "cancel", log)
	completeAppointment := changeAppointmentStatusHandler.NewHandler(appointmentSvc, domain.StatusCompleted, "complete", log)
	noShowAppointment := changeAppointmentStatusHandler.NewHandler(appointmentSvc, domain.StatusNoShow, "no-show", log)
	getStudentAppointments := getStudentAppointmentsHandler.NewHandler(appointmentSvc, log)
	getPsychologistAppointments := getPsychologistAppointmentsHandler.NewHandler(appointmentSvc, log)
	createScheduleBlock := createScheduleBlockHandler.NewHandler(scheduleSvc, log)
	bulkCreateSchedule := bulkCreateScheduleHandler.NewHandler(scheduleSvc, log)
	updateScheduleBlock := updateScheduleBlockHandler.NewHandler(scheduleSvc, log)
	deleteScheduleBlock := deleteScheduleBlockHandler.NewHandler(scheduleSvc, log)
	getPsychologistSchedule := getPsychologistScheduleHandler.NewHandler(scheduleSvc, log)
	createUnavailability := createUnavailabilityHandler.NewHandler(scheduleSvc, log)
	deleteUnavailability := deleteUnavailabilityHandler.NewHandler(scheduleSvc, log)

	// Роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты психолога
	api.HandleFunc("/schedule/available/{psychologistId:[0-9]+}", getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID и X-User-Role)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId:[0-9]+}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId:[0-9]+}/confirm", confirmAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId:[0-9]+}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId:[0-9]+}/complete", completeAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId:[0-9]+}/no-show", noShowAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/students/{studentId:[0-9]+}/appointments", getStudentAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/psychologists/{psychologistId:[0-9]+}/appointments", getPsychologistAppointments.Handle).Methods(http.MethodGet)

	// --- Расписание ---
	protected.HandleFunc("/schedule", createScheduleBlock.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/schedule/bulk", bulkCreateSchedule.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/schedule/unavailability", createUnavailability.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/schedule/unavailability/{unavailabilityId:[0-9]+}", deleteUnavailability.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/schedule/{blockId:[0-9]+}", updateScheduleBlock.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/schedule/{blockId:[0-9]+}", deleteScheduleBlock.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/psychologists/{psychologistId:[0-9]+}/schedule", getPsychologistSchedule.Handle).Methods(http.MethodGet)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}

// openStorage выбирает драйвер хранилища по database.driver
func openStorage(cfg *config.Config, m *metrics.Metrics, stopCh <-chan struct{}, log *logger.Logger) (*storage, error) {
	if cfg.Database.Driver == config.DriverMemory {
		store := memory.NewStore()
		for _, u := range cfg.Memory.Users {
			role, err := domain.ParseRole(u.Role)
			if err != nil {
				return nil, fmt.Errorf("memory.users id=%d: %w", u.ID, err)
			}
			store.AddUser(domain.User{ID: u.ID, Name: u.Name, Email: u.Email, Role: role})
		}
		log.Warn("Using in-memory storage: data is lost on restart (users=%d)", len(cfg.Memory.Users))

		return &storage{
			appointments: store.Appointments(),
			schedules:    store.Schedules(),
			users:        store.Users(),
			tx:           store.TxManager(),
			close:        func() error { return nil },
		}, nil
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.MigrateOnStart {
		mg, err := migrator.New(db, log)
		if err != nil {
			db.Close()
			return nil, err
		}
		if _, err := mg.Up(context.Background()); err != nil {
			db.Close()
			return nil, err
		}
	}

	// Без метрик обертка работает как обычный *sql.DB
	wrappedDB := dbmetrics.WrapWithDefault(db, m, stopCh)
	if m != nil {
		log.Info("Database metrics collection started")
	}

	return &storage{
		appointments: appointmentRepo.NewRepository(wrappedDB),
		schedules:    scheduleRepo.NewRepository(wrappedDB),
		users:        userRepo.NewRepository(wrappedDB),
		tx: txmanager.NewTransactionManager(wrappedDB,
			txmanager.WithTimeout(time.Duration(cfg.Database.TxTimeoutMs)*time.Millisecond)),
		close: db.Close,
	}, nil
}
