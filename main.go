package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"

	"workboard-service/handlers"
	"workboard-service/logging"
	"workboard-service/repositories"
	"workboard-service/services"
	"workboard-service/store"
)

// buildStore picks the persistence backend from the environment: MONGO_URI
// for MongoDB, DATA_DIR for flat files, in-memory otherwise. Whatever the
// backend, it is wrapped in a circuit breaker.
func buildStore(ctx context.Context) (store.Store, func()) {
	var backend store.Store
	cleanup := func() {}

	switch {
	case os.Getenv("MONGO_URI") != "":
		mongoStore, err := store.NewMongoStore(ctx, os.Getenv("MONGO_URI"), "workboard", "collections")
		if err != nil {
			log.Fatal("MongoDB connection failed:", err)
		}
		logging.Logger.Info("Event ID: STORE_READY, Description: Using MongoDB store backend")
		backend = mongoStore
		cleanup = func() { mongoStore.Close(context.Background()) }
	case os.Getenv("DATA_DIR") != "":
		fileStore, err := store.NewFileStore(os.Getenv("DATA_DIR"))
		if err != nil {
			log.Fatal("File store initialization failed:", err)
		}
		logging.Logger.Infof("Event ID: STORE_READY, Description: Using file store backend in %s", os.Getenv("DATA_DIR"))
		backend = fileStore
	default:
		logging.Logger.Info("Event ID: STORE_READY, Description: Using in-memory store backend")
		backend = store.NewMemoryStore()
	}

	storeBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "StoreCB",
		MaxRequests: 1,
		Timeout:     2 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
	return store.NewBreakerStore(backend, storeBreaker), cleanup
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}
	logging.InitLogger()

	kv, cleanup := buildStore(context.Background())
	defer cleanup()

	userRepo := repositories.NewUserRepository(kv)
	groupRepo := repositories.NewGroupRepository(kv)
	taskRepo := repositories.NewTaskRepository(kv)
	submissionRepo := repositories.NewSubmissionRepository(kv)

	jwtService := &services.JWTService{}
	authService := services.NewAuthService(userRepo, kv, jwtService)
	groupService := services.NewGroupService(groupRepo)
	taskService := services.NewTaskService(taskRepo)
	submissionService := services.NewSubmissionService(submissionRepo, taskRepo)

	authService.Subscribe(func() {
		logging.Logger.Info("Event ID: AUTH_STATE_CHANGED, Description: Auth state changed, dependent views should refresh")
	})

	authHandler := handlers.NewAuthHandler(authService)
	groupHandler := handlers.NewGroupHandler(groupService)
	taskHandler := handlers.NewTaskHandler(taskService)
	submissionHandler := handlers.NewSubmissionHandler(submissionService)

	r := mux.NewRouter()

	r.HandleFunc("/api/auth/signup", authHandler.SignUp).Methods("POST")
	r.HandleFunc("/api/auth/signin", authHandler.SignIn).Methods("POST")
	r.HandleFunc("/api/auth/signout", authHandler.SignOut).Methods("POST")
	r.HandleFunc("/api/auth/session", authHandler.CurrentSession).Methods("GET")
	r.HandleFunc("/api/users/{username}/role", authHandler.SetRole).Methods("PUT")
	r.HandleFunc("/api/users/{username}", authHandler.GetProfile).Methods("GET")
	r.HandleFunc("/api/users/{username}", authHandler.UpdateProfile).Methods("PUT")

	r.HandleFunc("/api/groups", groupHandler.CreateGroup).Methods("POST")
	r.HandleFunc("/api/groups/join", groupHandler.JoinByCode).Methods("POST")
	r.HandleFunc("/api/groups/{id}", groupHandler.GetGroup).Methods("GET")
	r.HandleFunc("/api/groups/{id}", groupHandler.UpdateGroup).Methods("PUT")
	r.HandleFunc("/api/groups/{id}", groupHandler.DeleteGroup).Methods("DELETE")
	r.HandleFunc("/api/groups/{id}/members", groupHandler.ListMembers).Methods("GET")
	r.HandleFunc("/api/groups/{id}/members", groupHandler.AddMember).Methods("POST")
	r.HandleFunc("/api/groups/{id}/members/{username}", groupHandler.RemoveMember).Methods("DELETE")
	r.HandleFunc("/api/groups/member/{username}", groupHandler.GroupsForUser).Methods("GET")
	r.HandleFunc("/api/groups/creator/{username}", groupHandler.GroupsCreatedBy).Methods("GET")

	r.HandleFunc("/api/tasks", taskHandler.CreateTask).Methods("POST")
	r.HandleFunc("/api/tasks", taskHandler.GetAllTasks).Methods("GET")
	r.HandleFunc("/api/tasks/departments", taskHandler.Departments).Methods("GET")
	r.HandleFunc("/api/tasks/{id}", taskHandler.GetTask).Methods("GET")
	r.HandleFunc("/api/tasks/{id}", taskHandler.UpdateTask).Methods("PUT")
	r.HandleFunc("/api/tasks/{id}", taskHandler.DeleteTask).Methods("DELETE")
	r.HandleFunc("/api/tasks/{id}/toggle", taskHandler.ToggleCompletion).Methods("PATCH")
	r.HandleFunc("/api/tasks/assignee/{username}", taskHandler.ByAssignee).Methods("GET")
	r.HandleFunc("/api/tasks/creator/{username}", taskHandler.ByCreator).Methods("GET")
	r.HandleFunc("/api/tasks/group/{groupId}", taskHandler.ByGroup).Methods("GET")
	r.HandleFunc("/api/tasks/overdue/{username}", taskHandler.OverdueFor).Methods("GET")
	r.HandleFunc("/api/tasks/due-soon/{username}", taskHandler.DueSoonFor).Methods("GET")
	r.HandleFunc("/api/tasks/reminders/{username}", taskHandler.RemindersFor).Methods("GET")

	r.HandleFunc("/api/submissions", submissionHandler.Submit).Methods("POST")
	r.HandleFunc("/api/submissions/recent/{username}", submissionHandler.RecentForCreator).Methods("GET")
	r.HandleFunc("/api/submissions/task/{taskId}", submissionHandler.ByTask).Methods("GET")
	r.HandleFunc("/api/submissions/task/{taskId}/complete-latest", submissionHandler.MarkLatestCompletedForTask).Methods("PATCH")
	r.HandleFunc("/api/submissions/user/{username}", submissionHandler.ByUser).Methods("GET")
	r.HandleFunc("/api/submissions/{id}", submissionHandler.GetSubmission).Methods("GET")
	r.HandleFunc("/api/submissions/{id}", submissionHandler.DeleteSubmission).Methods("DELETE")
	r.HandleFunc("/api/submissions/{id}/complete", submissionHandler.MarkCompleted).Methods("PATCH")

	corsRouter := enableCORS(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logging.Logger.Infof("Event ID: SERVER_START, Description: Workboard service listening on port %s", port)
	log.Println("Workboard service running on http://localhost:" + port)
	log.Fatal(http.ListenAndServe(":"+port, corsRouter))
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, PATCH, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Role")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
