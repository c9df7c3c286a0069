package progress

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type ExercisesResponse struct {
	Exercises []ExerciseSummary `json:"exercises"`
}

type TimeSeriesResponse struct {
	Exercise  string  `json:"exercise"`
	Period    Period  `json:"period"`
	Collapsed bool    `json:"collapsed"`
	Points    []Point `json:"points"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/users/{userId}/progress/exercises", handler.handleExercises).Methods("GET", "OPTIONS").Name("progress-exercises")
	router.HandleFunc("/users/{userId}/progress/timeseries", handler.handleTimeSeries).Methods("GET", "OPTIONS").Name("progress-timeseries")
}

func (handler *Handler) handleExercises(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.exercises")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	if userID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}

	minSessions := 0
	if minSessionsStr := r.URL.Query().Get("min_sessions"); minSessionsStr != "" {
		var err error
		minSessions, err = strconv.Atoi(minSessionsStr)
		if err != nil {
			log.Errorf("progress exercises, from <min_sessions> param: %s", err)
			http.Error(w, "parse form error, parameter <min_sessions>", http.StatusBadRequest)
			return
		}
	}

	pkg.WriteJSON(w, ExercisesResponse{
		Exercises: handler.service.ListExercisesWithHistory(ctx, userID, minSessions),
	}, http.StatusOK)
}

func (handler *Handler) handleTimeSeries(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.timeseries")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	if userID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}

	query := r.URL.Query()
	exercise := query.Get("exercise")
	if exercise == "" {
		http.Error(w, "error, exercise empty", http.StatusBadRequest)
		return
	}

	periodStr := query.Get("period")
	if periodStr == "" {
		periodStr = string(PeriodAllTime)
	}
	period, err := ParsePeriod(periodStr)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	collapse := false
	if collapseStr := query.Get("collapse"); collapseStr != "" {
		collapse, err = strconv.ParseBool(collapseStr)
		if err != nil {
			http.Error(w, "parse form error, parameter <collapse>", http.StatusBadRequest)
			return
		}
	}

	var points []Point
	if collapse {
		points, err = handler.service.ChartSeries(ctx, userID, exercise, period)
	} else {
		points, err = handler.service.TimeSeries(ctx, userID, exercise, period)
	}
	if err != nil {
		if errors.Is(err, ErrUnknownPeriod) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("progress time series for user %s [%s]: %s", userID, exercise, err)
		http.Error(w, "failed to get time series", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, TimeSeriesResponse{
		Exercise:  exercise,
		Period:    period,
		Collapsed: collapse,
		Points:    points,
	}, http.StatusOK)
}
