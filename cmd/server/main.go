package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"medibook/internal/api"
	"medibook/internal/auth"
	"medibook/internal/repository"
	"medibook/internal/service"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	availRepo := repository.NewAvailabilityRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)
	medRepo := repository.NewMedicationRepository(db)
	jobRepo := repository.NewJobRepository(db)

	sender := service.NewSenderService()
	authSvc := service.NewAuthService(userRepo)
	apptSvc := service.NewAppointmentService(userRepo, apptRepo, sender)
	doctorSvc := service.NewDoctorService(userRepo, availRepo, apptRepo)
	medSvc := service.NewMedicationService(medRepo, userRepo, apptRepo)
	jobSvc := service.NewJobService(jobRepo)

	authHandler := api.NewAuthHandler(authSvc)
	apptHandler := api.NewAppointmentHandler(apptSvc)
	doctorHandler := api.NewDoctorHandler(doctorSvc)
	medHandler := api.NewMedicationHandler(medSvc)
	adminHandler := api.NewAdminHandler(apptSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")

	// Authenticated endpoints
	app := r.PathPrefix("/api").Subrouter()
	app.Use(auth.RequireAuth)
	app.HandleFunc("/doctors", doctorHandler.List).Methods("GET")
	app.HandleFunc("/doctors/me/availability", doctorHandler.GetMyAvailability).Methods("GET")
	app.HandleFunc("/doctors/me/availability", doctorHandler.UpsertMyAvailability).Methods("POST")
	app.HandleFunc("/doctors/{id}/availability", doctorHandler.AvailabilityForDate).Methods("GET")
	app.HandleFunc("/appointments", apptHandler.Create).Methods("POST")
	app.HandleFunc("/appointments/my", apptHandler.My).Methods("GET")
	app.HandleFunc("/appointments/doctor", apptHandler.Doctor).Methods("GET")
	app.HandleFunc("/appointments/{id}/status", apptHandler.UpdateStatus).Methods("PATCH")
	app.HandleFunc("/medications", medHandler.Create).Methods("POST")
	app.HandleFunc("/medications/my", medHandler.My).Methods("GET")
	app.HandleFunc("/medications/patient/{id}", medHandler.ForPatient).Methods("GET")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.RequireAuth, auth.RequireAdmin)
	admin.HandleFunc("/appointments", adminHandler.ListAppointments).Methods("GET")

	c := cron.New()
	c.AddFunc("@every 5m", func() {
		if err := jobSvc.CompleteFinishedAppointments(); err != nil {
			log.Printf("Cron job error: %v", err)
		}
	})
	c.AddFunc("@every 15m", func() {
		if err := jobSvc.SendUpcomingReminders(); err != nil {
			log.Printf("Cron job error: %v", err)
		}
	})
	c.Start()

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handlers.LoggingHandler(os.Stdout, corsHandler(r))))
}
