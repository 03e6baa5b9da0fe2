package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"elearn-system/internal/auth"
	"elearn-system/internal/chapter"
	"elearn-system/internal/comment"
	"elearn-system/internal/course"
	"elearn-system/internal/models"
	"elearn-system/internal/quiz"
	"elearn-system/internal/summary"
	"elearn-system/pkg/cache"
	"elearn-system/pkg/database"
	"elearn-system/pkg/websocket"

	"github.com/gorilla/mux"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	// Initialize database
	dbConfig := &database.Config{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	}

	db, err := database.NewPostgresDB(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Chapter{},
		&models.Quiz{},
		&models.QuizAnswer{},
		&models.Comment{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize Redis cache
	redisCache := cache.NewRedisCache(os.Getenv("REDIS_ADDR"))

	// Initialize WebSocket hub for course event rooms
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Initialize repositories
	authRepo := auth.NewRepository(db)
	courseRepo := course.NewRepository(db)
	chapterRepo := chapter.NewRepository(db)
	quizRepo := quiz.NewRepository(db)
	commentRepo := comment.NewRepository(db)

	// External summarization collaborator
	summarizer := summary.NewClient(os.Getenv("SUMMARIZER_URL"))

	// Initialize services
	jwtSecret := os.Getenv("JWT_SECRET")
	authService := auth.NewService(authRepo, jwtSecret)
	courseService := course.NewService(courseRepo, authService, redisCache, wsHub)
	chapterService := chapter.NewService(chapterRepo, courseService, summarizer, wsHub)
	quizService := quiz.NewService(quizRepo, chapterService, courseService, authService, redisCache)
	chapterService.SetQuizRegistry(quizService)
	commentService := comment.NewService(commentRepo, courseService, wsHub)

	// Initialize handlers
	authHandler := auth.NewHandler(authService)
	courseHandler := course.NewHandler(courseService)
	chapterHandler := chapter.NewHandler(chapterService)
	quizHandler := quiz.NewHandler(quizService)
	commentHandler := comment.NewHandler(commentService)

	// Setup router
	router := mux.NewRouter()

	// CORS middleware configuration
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	handler := corsMiddleware.Handler(router)

	// Auth routes - no JWT required
	router.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Authenticated routes
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(auth.JWTMiddleware(jwtSecret))

	apiRouter.HandleFunc("/users/me", authHandler.Me).Methods("GET")
	apiRouter.HandleFunc("/users/{uuid}", authHandler.GetUser).Methods("GET")
	apiRouter.HandleFunc("/users/{uuid}", authHandler.UpdateUser).Methods("PUT", "OPTIONS")
	apiRouter.HandleFunc("/users/{uuid}", authHandler.DeleteUser).Methods("DELETE", "OPTIONS")

	apiRouter.HandleFunc("/courses", courseHandler.Create).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/courses", courseHandler.GetAll).Methods("GET")
	apiRouter.HandleFunc("/courses/tag/{tag}", courseHandler.GetByTag).Methods("GET")
	apiRouter.HandleFunc("/courses/creator/{uuid}", courseHandler.GetByCreator).Methods("GET")
	apiRouter.HandleFunc("/courses/student/{uuid}", courseHandler.GetByStudent).Methods("GET")
	apiRouter.HandleFunc("/courses/{uuid}", courseHandler.Get).Methods("GET")
	apiRouter.HandleFunc("/courses/{uuid}", courseHandler.Update).Methods("PUT", "OPTIONS")
	apiRouter.HandleFunc("/courses/{uuid}", courseHandler.Delete).Methods("DELETE", "OPTIONS")
	apiRouter.HandleFunc("/courses/{uuid}/enroll", courseHandler.Enroll).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/courses/{uuid}/chapters", chapterHandler.GetByCourse).Methods("GET")
	apiRouter.HandleFunc("/courses/{uuid}/comments", commentHandler.GetByCourse).Methods("GET")

	apiRouter.HandleFunc("/chapters", chapterHandler.Create).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/chapters", chapterHandler.GetAll).Methods("GET")
	apiRouter.HandleFunc("/chapters/{uuid}", chapterHandler.Get).Methods("GET")
	apiRouter.HandleFunc("/chapters/{uuid}", chapterHandler.Update).Methods("PUT", "OPTIONS")
	apiRouter.HandleFunc("/chapters/{uuid}", chapterHandler.Delete).Methods("DELETE", "OPTIONS")
	apiRouter.HandleFunc("/chapters/{uuid}/quiz", chapterHandler.GetQuiz).Methods("GET")

	apiRouter.HandleFunc("/quizzes", quizHandler.Create).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/quizzes", quizHandler.GetAll).Methods("GET")
	apiRouter.HandleFunc("/quizzes/{uuid}", quizHandler.Get).Methods("GET")
	apiRouter.HandleFunc("/quizzes/{uuid}", quizHandler.Update).Methods("PUT", "OPTIONS")
	apiRouter.HandleFunc("/quizzes/{uuid}", quizHandler.Delete).Methods("DELETE", "OPTIONS")
	apiRouter.HandleFunc("/quizzes/{uuid}/submit", quizHandler.Submit).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/quizzes/{uuid}/attempts", quizHandler.Attempts).Methods("GET")

	apiRouter.HandleFunc("/comments", commentHandler.Create).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/comments/{uuid}", commentHandler.Get).Methods("GET")
	apiRouter.HandleFunc("/comments/{uuid}", commentHandler.Delete).Methods("DELETE", "OPTIONS")

	// WebSocket endpoint
	router.HandleFunc("/ws/{courseUuid}", wsHub.HandleWebSocket)

	addr := os.Getenv("SERVER_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown setup
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server shutdown gracefully")
}
