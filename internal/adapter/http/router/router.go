package router

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RouteRegistrar is implemented by every controller. Controllers attach
// their own routes so the router never knows individual paths.
type RouteRegistrar interface {
	RegisterRoutes(router *mux.Router, authMiddleware func(http.Handler) http.Handler)
}

func New(authMiddleware func(http.Handler) http.Handler, controllers ...RouteRegistrar) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	for _, controller := range controllers {
		if controller != nil {
			controller.RegisterRoutes(router, authMiddleware)
		}
	}

	return router
}
