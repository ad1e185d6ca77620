package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"foodeck-backend/internal/database"
	"foodeck-backend/internal/handlers"
	customMiddleware "foodeck-backend/internal/middleware"
	"foodeck-backend/internal/notifier"
	"foodeck-backend/internal/repository"
	"foodeck-backend/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load .env (ignore error in production — env vars set directly)
	_ = godotenv.Load()

	// Required env vars
	mongoURI := getEnv("MONGODB_URI", "")
	dbName := getEnv("DB_NAME", "foodeck")
	jwtSecret := getEnv("JWT_SECRET", "")
	port := getEnv("PORT", "8080")

	admin := handlers.AdminCredentials{
		Username:     getEnv("ADMIN_USERNAME", "admin"),
		Password:     getEnv("ADMIN_PASSWORD", ""),
		PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
	}

	if mongoURI == "" {
		logrus.Fatal("MONGODB_URI is required")
	}
	if jwtSecret == "" {
		logrus.Fatal("JWT_SECRET is required")
	}
	if admin.Password == "" && admin.PasswordHash == "" {
		logrus.Fatal("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required")
	}

	// Connect to MongoDB
	if err := database.Connect(mongoURI, dbName); err != nil {
		logrus.WithError(err).Fatal("failed to connect to MongoDB")
	}

	// Initialize repositories
	companyRepo := repository.NewCompanyRepo()
	menuRepo := repository.NewMenuRepo()
	submissionRepo := repository.NewSubmissionRepo()
	ratingRepo := repository.NewRatingRepo()

	// Ensure indexes
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := menuRepo.EnsureIndexes(ctx); err != nil {
		logrus.WithError(err).Warn("failed to create menu indexes")
	}
	if err := submissionRepo.EnsureIndexes(ctx); err != nil {
		logrus.WithError(err).Warn("failed to create submission indexes")
	}
	if err := ratingRepo.EnsureIndexes(ctx); err != nil {
		logrus.WithError(err).Warn("failed to create rating indexes")
	}

	// Admin sessions live in process memory; swap the store for an
	// external cache when running more than one instance.
	sessions := session.NewMemoryStore()

	// Low-score alerts go by email when Resend is configured, to the
	// service log otherwise.
	var alerts notifier.Notifier
	resendKey := getEnv("RESEND_API_KEY", "")
	alertEmail := getEnv("ALERT_EMAIL", "")
	if resendKey != "" && alertEmail != "" {
		alerts = notifier.NewEmailNotifier(resendKey, getEnv("FROM_EMAIL", "alerts@foodeck.local"), alertEmail)
	} else {
		logrus.Info("RESEND_API_KEY or ALERT_EMAIL not set, low-score alerts go to the log")
		alerts = notifier.NewLogNotifier()
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(sessions, jwtSecret, admin)
	companyHandler := handlers.NewCompanyHandler(companyRepo, menuRepo, submissionRepo, ratingRepo)
	menuHandler := handlers.NewMenuHandler(companyRepo, menuRepo, ratingRepo)
	ratingHandler := handlers.NewRatingHandler(menuRepo, submissionRepo, ratingRepo, alerts)
	analyticsHandler := handlers.NewAnalyticsHandler(submissionRepo, ratingRepo)

	// Setup chi router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"foodeck-backend"}`))
	})

	// Public routes (kiosk-facing, no auth required)
	r.Post("/admin/login", authHandler.Login)
	r.Post("/admin/logout", authHandler.Logout)
	r.Get("/api/companies/{companyID}", companyHandler.Get)
	r.Get("/api/menu/{id}/{date}", menuHandler.GetByDate)
	r.Post("/api/ratings", ratingHandler.Submit)

	// Admin routes (session cookie required)
	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.AdminAuth(jwtSecret, sessions))

		r.Post("/api/companies", companyHandler.Create)
		r.Get("/api/companies", companyHandler.List)
		r.Put("/api/companies/{companyID}", companyHandler.Update)
		r.Delete("/api/companies/{companyID}", companyHandler.Delete)

		r.Post("/api/menu/{id}", menuHandler.CreateOrMerge)
		r.Delete("/api/menu/{id}", menuHandler.Delete)
		r.Get("/api/menus/{companyID}", menuHandler.ListRecent)
		r.Post("/api/menu/{id}/items", menuHandler.AddItems)
		r.Put("/api/menu/{id}/items/{itemID}", menuHandler.UpdateItem)
		r.Delete("/api/menu/{id}/items/{itemID}", menuHandler.DeleteItem)

		r.Get("/api/analytics/{companyID}", analyticsHandler.Get)
	})

	// Start server
	logrus.WithField("port", port).Info("foodeck backend starting")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logrus.WithError(err).Fatal("server failed")
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
