package routes

import (
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/circle-finance-app/internal/handlers"
)

func SetupRouter(pool *pgxpool.Pool) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/users", handlers.CreateUserHandler(pool)).Methods("POST")
	r.HandleFunc("/api/users/{id}", handlers.GetUserHandler(pool)).Methods("GET")
	r.HandleFunc("/api/users/{id}/active-circle", handlers.SetActiveCircleHandler(pool)).Methods("PUT")

	return r
}
