package recorder

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/internal/workout"
	"github.com/2beens/workoutlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	recorder *Recorder
}

func NewHandler(recorder *Recorder) *Handler {
	return &Handler{
		recorder: recorder,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/users/{userId}/sessions", handler.handleRecord).Methods("POST", "OPTIONS").Name("record-session")
}

func (handler *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.recorder.record")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	userID := mux.Vars(r)["userId"]

	var session workout.Session
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		log.Errorf("record session, unmarshal json params: %s", err)
		http.Error(w, "record session failed", http.StatusBadRequest)
		return
	}

	saved, err := handler.recorder.Record(ctx, userID, session)
	if err != nil {
		if errors.Is(err, ErrEmptySession) || errors.Is(err, ErrMissingUser) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("failed to record session for user %s: %s", userID, err)
		http.Error(w, "error, failed to record session", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, saved, http.StatusCreated)
}
