package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/fdg312/recipe-hub/internal/activities"
	"github.com/fdg312/recipe-hub/internal/auth"
	"github.com/fdg312/recipe-hub/internal/config"
	"github.com/fdg312/recipe-hub/internal/planner"
	"github.com/fdg312/recipe-hub/internal/recipes"
	"github.com/fdg312/recipe-hub/internal/reports"
	"github.com/fdg312/recipe-hub/internal/storage"
	"github.com/fdg312/recipe-hub/internal/storage/memory"
	"github.com/fdg312/recipe-hub/internal/storage/postgres"
)

// Server представляет HTTP сервер
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	storage        storage.Storage
	authMiddleware *auth.Middleware
}

// New создаёт новый HTTP сервер
func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	// Инициализируем storage
	s.initStorage()

	// Регистрируем маршруты
	s.routes()
	return s
}

// initStorage инициализирует storage (Memory или Postgres)
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("Используется in-memory storage")
		s.storage = memory.New()
	} else {
		log.Println("Подключение к PostgreSQL...")
		ctx := context.Background()
		pgStorage, err := postgres.New(ctx, s.config.DatabaseURL)
		if err != nil {
			log.Printf("Ошибка подключения к PostgreSQL: %v", err)
			log.Println("Fallback на in-memory storage")
			s.storage = memory.New()
		} else {
			log.Println("PostgreSQL подключен успешно")
			s.storage = pgStorage
		}
	}
}

// routes регистрирует маршруты
func (s *Server) routes() {
	// Health check (no auth required)
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	// Auth API (no auth required)
	authService := auth.NewService(s.config)
	authHandler := auth.NewHandlers(authService)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)

	// POST /v1/auth/dev - local dev token
	s.mux.HandleFunc("POST /v1/auth/dev", authHandler.HandleDevAuth)

	// Activities API
	activitiesService := activities.NewService(s.getActivitiesStorage(), s.config.ActivitiesPageSize)
	activitiesHandler := activities.NewHandler(activitiesService)

	// GET /v1/activities - list activity feed
	s.mux.HandleFunc("GET /v1/activities", activitiesHandler.HandleList)

	// Planner API
	weekPlansStorage := s.getWeekPlansStorage()
	plannerService := planner.NewService(weekPlansStorage, activitiesService)
	plannerHandler := planner.NewHandler(plannerService)

	// GET /v1/planner/week - get or create week plan
	s.mux.HandleFunc("GET /v1/planner/week", plannerHandler.HandleGetWeek)

	// POST /v1/planner/week/meals - set or replace one meal slot
	s.mux.HandleFunc("POST /v1/planner/week/meals", plannerHandler.HandleUpsertMeal)

	// DELETE /v1/planner/week/meals - clear one meal slot
	s.mux.HandleFunc("DELETE /v1/planner/week/meals", plannerHandler.HandleDeleteMeal)

	// GET /v1/planner/history - list week plans, newest first
	s.mux.HandleFunc("GET /v1/planner/history", plannerHandler.HandleHistory)

	// Week plan export
	recipesStorage := s.getRecipesStorage()
	reportsGenerator := reports.NewGenerator(weekPlansStorage, recipesStorage)
	reportsHandler := reports.NewHandler(reportsGenerator)

	// GET /v1/planner/week/export - download week plan as PDF
	s.mux.HandleFunc("GET /v1/planner/week/export", reportsHandler.HandleExportWeek)

	// Recipes API
	recipesService := recipes.NewService(recipesStorage, activitiesService)
	recipesHandler := recipes.NewHandler(recipesService)

	// POST /v1/recipes - create recipe
	s.mux.HandleFunc("POST /v1/recipes", recipesHandler.HandleCreate)

	// GET /v1/recipes - list recipes
	s.mux.HandleFunc("GET /v1/recipes", recipesHandler.HandleList)

	// GET /v1/recipes/{id} - get recipe
	s.mux.HandleFunc("GET /v1/recipes/{id}", recipesHandler.HandleGet)

	// DELETE /v1/recipes/{id} - delete recipe
	s.mux.HandleFunc("DELETE /v1/recipes/{id}", recipesHandler.HandleDelete)
}

// getWeekPlansStorage returns the week plans storage based on storage type
func (s *Server) getWeekPlansStorage() storage.WeekPlansStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetWeekPlansStorage()
	case *postgres.PostgresStorage:
		return st.GetWeekPlansStorage()
	default:
		log.Fatal("unknown storage type")
		return nil
	}
}

// getRecipesStorage returns the recipes storage based on storage type
func (s *Server) getRecipesStorage() storage.RecipesStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetRecipesStorage()
	case *postgres.PostgresStorage:
		return st.GetRecipesStorage()
	default:
		log.Fatal("unknown storage type")
		return nil
	}
}

// getActivitiesStorage returns the activities storage based on storage type
func (s *Server) getActivitiesStorage() storage.ActivitiesStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetActivitiesStorage()
	case *postgres.PostgresStorage:
		return st.GetActivitiesStorage()
	default:
		log.Fatal("unknown storage type")
		return nil
	}
}

// handleHealthz возвращает статус сервера
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	// Build middleware chain (outermost first): CORS → Rate Limit → Auth → Router
	var handler http.Handler = s.mux
	if s.authMiddleware != nil && s.config.AuthMode != "none" {
		if s.config.AuthRequired {
			handler = s.authMiddleware.RequireAuth(handler)
		} else {
			handler = s.authMiddleware.OptionalAuth(handler)
		}
	}
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)

	log.Printf("Сервер запущен на http://localhost%s\n", addr)
	log.Printf("Health check: http://localhost%s/healthz\n", addr)
	log.Printf("Planner API: http://localhost%s/v1/planner/week\n", addr)

	return http.ListenAndServe(addr, handler)
}

// Close закрывает storage и освобождает ресурсы
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
