package http

import (
	"net/http"

	"clinic-care/internal/delivery/http/handler"
	"clinic-care/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router                *mux.Router
	authHandler           *handler.AuthHandler
	verificationHandler   *handler.VerificationHandler
	appointmentHandler    *handler.AppointmentHandler
	testResultHandler     *handler.TestResultHandler
	testTypeHandler       *handler.TestTypeHandler
	doctorHandler         *handler.DoctorHandler
	patientHandler        *handler.PatientHandler
	doctorScheduleHandler *handler.DoctorScheduleHandler
	auditLogHandler       *handler.AuditLogHandler
	authMiddleware        *middleware.AuthMiddleware
	corsMiddleware        *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	verificationHandler *handler.VerificationHandler,
	appointmentHandler *handler.AppointmentHandler,
	testResultHandler *handler.TestResultHandler,
	testTypeHandler *handler.TestTypeHandler,
	doctorHandler *handler.DoctorHandler,
	patientHandler *handler.PatientHandler,
	doctorScheduleHandler *handler.DoctorScheduleHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:                mux.NewRouter(),
		authHandler:           authHandler,
		verificationHandler:   verificationHandler,
		appointmentHandler:    appointmentHandler,
		testResultHandler:     testResultHandler,
		testTypeHandler:       testTypeHandler,
		doctorHandler:         doctorHandler,
		patientHandler:        patientHandler,
		doctorScheduleHandler: doctorScheduleHandler,
		auditLogHandler:       auditLogHandler,
		authMiddleware:        authMiddleware,
		corsMiddleware:        corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register/patient", r.authHandler.RegisterPatient).Methods(http.MethodPost)
	auth.HandleFunc("/register/doctor", r.authHandler.RegisterDoctor).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)
	auth.HandleFunc("/verify/send", r.verificationHandler.SendVerificationEmail).Methods(http.MethodPost)
	auth.HandleFunc("/verify", r.verificationHandler.VerifyUser).Methods(http.MethodPost)
	auth.HandleFunc("/forgot-password", r.verificationHandler.SendForgotPasswordEmail).Methods(http.MethodPost)
	auth.HandleFunc("/reset-password", r.verificationHandler.ResetPassword).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)
	authProtected.HandleFunc("/change-password", r.authHandler.ChangePassword).Methods(http.MethodPost)

	// Doctor directory (any authenticated user)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(r.authMiddleware.Authenticate)
	protected.HandleFunc("/doctors", r.doctorHandler.ListDoctors).Methods(http.MethodGet)
	// Registered before /doctors/{id} so "available" is not captured as an ID
	protected.HandleFunc("/doctors/available", r.appointmentHandler.GetAvailableDoctors).Methods(http.MethodGet)
	protected.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctorByID).Methods(http.MethodGet)
	protected.HandleFunc("/schedules", r.doctorScheduleHandler.ListSchedules).Methods(http.MethodGet)
	protected.HandleFunc("/schedules/{id}", r.doctorScheduleHandler.GetScheduleByID).Methods(http.MethodGet)
	protected.HandleFunc("/doctors/{id}/schedules", r.doctorScheduleHandler.GetSchedulesByDoctor).Methods(http.MethodGet)
	protected.HandleFunc("/test-types", r.testTypeHandler.ListTestTypes).Methods(http.MethodGet)
	protected.HandleFunc("/test-types/{id}", r.testTypeHandler.GetTestTypeByID).Methods(http.MethodGet)

	// Appointments (any authenticated user)
	protected.HandleFunc("/appointments", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{id}", r.appointmentHandler.GetAppointmentByID).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id}/appointments", r.appointmentHandler.GetAppointmentsByPatient).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id}/test-results", r.testResultHandler.GetTestResultsByPatient).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id}", r.patientHandler.GetPatientByID).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id}", r.patientHandler.UpdatePatient).Methods(http.MethodPut)
	protected.HandleFunc("/test-results/{id}", r.testResultHandler.GetTestResultByID).Methods(http.MethodGet)

	// Staff routes (admin or doctor)
	staff := api.PathPrefix("").Subrouter()
	staff.Use(r.authMiddleware.Authenticate)
	staff.Use(middleware.RequireAdminOrDoctor)
	staff.HandleFunc("/appointments", r.appointmentHandler.GetScheduledAppointments).Methods(http.MethodGet)
	staff.HandleFunc("/appointments/{id}", r.appointmentHandler.UpdateAppointment).Methods(http.MethodPut)
	staff.HandleFunc("/doctors/{id}/appointments", r.appointmentHandler.GetAppointmentsByDoctor).Methods(http.MethodGet)
	staff.HandleFunc("/test-results", r.testResultHandler.CreateTestResult).Methods(http.MethodPost)
	staff.HandleFunc("/test-results", r.testResultHandler.GetAllTestResults).Methods(http.MethodGet)
	staff.HandleFunc("/test-results/{id}", r.testResultHandler.UpdateTestResult).Methods(http.MethodPut)
	staff.HandleFunc("/test-results/{id}", r.testResultHandler.DeleteTestResult).Methods(http.MethodDelete)

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/patients", r.patientHandler.ListPatients).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.UpdateDoctor).Methods(http.MethodPut)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.DeactivateDoctor).Methods(http.MethodDelete)
	admin.HandleFunc("/schedules", r.doctorScheduleHandler.CreateSchedule).Methods(http.MethodPost)
	admin.HandleFunc("/schedules/{id}", r.doctorScheduleHandler.UpdateSchedule).Methods(http.MethodPut)
	admin.HandleFunc("/schedules/{id}", r.doctorScheduleHandler.DeleteSchedule).Methods(http.MethodDelete)
	admin.HandleFunc("/test-types", r.testTypeHandler.CreateTestType).Methods(http.MethodPost)
	admin.HandleFunc("/test-types/{id}", r.testTypeHandler.UpdateTestType).Methods(http.MethodPut)
	admin.HandleFunc("/test-types/{id}", r.testTypeHandler.DeleteTestType).Methods(http.MethodDelete)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.ListAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLogByID).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
