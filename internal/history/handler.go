package history

import (
	"net/http"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type HistoryResponse struct {
	Exercise string  `json:"exercise"`
	History  []Entry `json:"history"`
}

type RebuildResponse struct {
	Rebuilt bool `json:"rebuilt"`
}

type CleanResponse struct {
	Removed int `json:"removed"`
}

type RestoreResponse struct {
	Restored bool `json:"restored"`
}

type Handler struct {
	registry *Registry
}

func NewHandler(registry *Registry) *Handler {
	return &Handler{
		registry: registry,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/users/{userId}/exercises/{name}/history", handler.handleHistory).Methods("GET", "OPTIONS").Name("exercise-history")
	router.HandleFunc("/users/{userId}/exercises/{name}/suggestions", handler.handleSuggestions).Methods("GET", "OPTIONS").Name("exercise-suggestions")
	router.HandleFunc("/users/{userId}/cache", handler.handleFullCache).Methods("GET", "OPTIONS").Name("cache-get")
	router.HandleFunc("/users/{userId}/cache", handler.handleClear).Methods("DELETE", "OPTIONS").Name("cache-clear")
	router.HandleFunc("/users/{userId}/cache/rebuild", handler.handleRebuild).Methods("POST", "OPTIONS").Name("cache-rebuild")
	router.HandleFunc("/users/{userId}/cache/validate", handler.handleValidate).Methods("POST", "OPTIONS").Name("cache-validate")
	router.HandleFunc("/users/{userId}/cache/clean", handler.handleClean).Methods("POST", "OPTIONS").Name("cache-clean")
	router.HandleFunc("/users/{userId}/cache/sync", handler.handleSync).Methods("POST", "OPTIONS").Name("cache-sync")
	router.HandleFunc("/users/{userId}/cache/restore", handler.handleRestore).Methods("POST", "OPTIONS").Name("cache-restore")
}

func (handler *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.get")
	defer span.End()

	userID, name, ok := userAndExercise(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("user.id", userID), attribute.String("exercise", name))

	pkg.WriteJSON(w, HistoryResponse{
		Exercise: name,
		History:  handler.registry.For(userID).History(ctx, name),
	}, http.StatusOK)
}

func (handler *Handler) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.suggestions")
	defer span.End()

	userID, name, ok := userAndExercise(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("user.id", userID), attribute.String("exercise", name))

	pkg.WriteJSON(w, handler.registry.For(userID).Suggestions(ctx, name), http.StatusOK)
}

func (handler *Handler) handleFullCache(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.fullCache")
	defer span.End()

	userID, ok := userFromPath(w, r)
	if !ok {
		return
	}

	pkg.WriteJSON(w, handler.registry.For(userID).FullCache(ctx), http.StatusOK)
}

func (handler *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.clear")
	defer span.End()

	userID, ok := userFromPath(w, r)
	if !ok {
		return
	}

	handler.registry.For(userID).Clear(ctx)
	log.Debugf("exercise cache cleared for user %s", userID)

	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) handleRebuild(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.rebuild")
	defer span.End()

	userID, ok := userFromPath(w, r)
	if !ok {
		return
	}

	handler.registry.For(userID).BuildFromHistory(ctx, userID)
	pkg.WriteJSON(w, RebuildResponse{Rebuilt: true}, http.StatusOK)
}

func (handler *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.validate")
	defer span.End()

	userID, ok := userFromPath(w, r)
	if !ok {
		return
	}

	rebuilt := handler.registry.For(userID).ValidateAndRebuild(ctx, userID)
	pkg.WriteJSON(w, RebuildResponse{Rebuilt: rebuilt}, http.StatusOK)
}

func (handler *Handler) handleClean(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.clean")
	defer span.End()

	userID, ok := userFromPath(w, r)
	if !ok {
		return
	}

	removed := handler.registry.For(userID).CleanOldEntries(ctx)
	pkg.WriteJSON(w, CleanResponse{Removed: removed}, http.StatusOK)
}

func (handler *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.sync")
	defer span.End()

	userID, ok := userFromPath(w, r)
	if !ok {
		return
	}

	// best effort, failures only end up in logs
	handler.registry.For(userID).SyncToRemote(ctx, userID)
	w.WriteHeader(http.StatusAccepted)
}

func (handler *Handler) handleRestore(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.restore")
	defer span.End()

	userID, ok := userFromPath(w, r)
	if !ok {
		return
	}

	restored := handler.registry.For(userID).RestoreFromRemote(ctx, userID)
	pkg.WriteJSON(w, RestoreResponse{Restored: restored}, http.StatusOK)
}

func userFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return "", false
	}
	return userID, true
}

func userAndExercise(w http.ResponseWriter, r *http.Request) (userID, name string, ok bool) {
	userID, ok = userFromPath(w, r)
	if !ok {
		return "", "", false
	}
	name = mux.Vars(r)["name"]
	if name == "" {
		http.Error(w, "error, exercise name empty", http.StatusBadRequest)
		return "", "", false
	}
	return userID, name, true
}
