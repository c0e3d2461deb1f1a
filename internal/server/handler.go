package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/danpilch/railpal/internal/railway"
)

// User-facing messages, one set per page context.
const (
	msgInvalidStations  = "Invalid station names entered. Try '%s' and '%s'."
	msgNoTrains         = "No trains found for selected type or route."
	msgTrainsFailed     = "Error fetching train data. Please try again later."
	msgMissingLiveInput = "Please enter both Train Number and Journey Date"
	msgScheduleNotFound = "Train schedule not found."
	msgLiveFailed       = "Error fetching train information."
	msgDetailNotFound   = "Train details not found."
	msgDetailFailed     = "Error fetching train details."
	msgMissingStation   = "Please enter a station name"
	msgStationNotFound  = "Station not found."
	msgStationFailed    = "Error fetching station data. Please try again later."
)

type StationResolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

type TrainLister interface {
	ListTrains(ctx context.Context, from, to, trainType string) ([]railway.TrainSummary, error)
}

type Reconciler interface {
	Reconcile(ctx context.Context, trainNumber, journeyDate string) (*railway.LiveStatusView, error)
}

type DetailLookup interface {
	Lookup(ctx context.Context, trainNumber string) (railway.TrainDetail, error)
}

// Handler serves the JSON front end over the railway engine.
type Handler struct {
	stations StationResolver
	trains   TrainLister
	live     Reconciler
	details  DetailLookup
	logger   *logrus.Logger
}

func NewHandler(stations StationResolver, trains TrainLister, live Reconciler, details DetailLookup, logger *logrus.Logger) *Handler {
	return &Handler{
		stations: stations,
		trains:   trains,
		live:     live,
		details:  details,
		logger:   logger,
	}
}

// RegisterRoutes registers all routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", h.handleHealth).Methods("GET")
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/trains", h.handleTrains).Methods("GET")
	api.HandleFunc("/live_status", h.handleLiveStatus).Methods("GET")
	api.HandleFunc("/train_details", h.handleTrainDetails).Methods("GET")
	api.HandleFunc("/stations/resolve", h.handleResolve).Methods("GET")
}

type TrainsResponse struct {
	Source       string                 `json:"source"`
	Destination  string                 `json:"destination"`
	SelectedType string                 `json:"selectedType"`
	Trains       []railway.TrainSummary `json:"trains"`
	Error        string                 `json:"error,omitempty"`
}

type LiveStatusResponse struct {
	*railway.LiveStatusView
	Error string `json:"error,omitempty"`
}

type TrainDetailsResponse struct {
	TrainNumber string              `json:"trainNumber,omitempty"`
	TrainInfo   railway.TrainDetail `json:"trainInfo"`
	Error       string              `json:"error,omitempty"`
}

type ResolveResponse struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleTrains(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	srcName := strings.TrimSpace(q.Get("source"))
	destName := strings.TrimSpace(q.Get("destination"))
	selectedType := q.Get("type")
	if selectedType == "" {
		selectedType = railway.AllTrainTypes
	}

	resp := TrainsResponse{
		Source:       srcName,
		Destination:  destName,
		SelectedType: selectedType,
		Trains:       []railway.TrainSummary{},
	}

	srcCode, destCode, err := h.resolvePair(r.Context(), srcName, destName)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"source":      srcName,
			"destination": destName,
			"error":       err,
		}).Warn("station resolution failed")
		resp.Error = fmt.Sprintf(msgInvalidStations, srcName, destName)
		h.writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	trains, err := h.trains.ListTrains(r.Context(), srcCode, destCode, selectedType)
	if err != nil {
		h.logger.WithField("error", err).Error("fetching trains failed")
		resp.Error = msgTrainsFailed
		h.writeJSON(w, http.StatusBadGateway, resp)
		return
	}

	resp.Trains = trains
	if len(trains) == 0 {
		resp.Error = msgNoTrains
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// resolvePair resolves both endpoint names concurrently.
func (h *Handler) resolvePair(ctx context.Context, srcName, destName string) (string, string, error) {
	if srcName == "" || destName == "" {
		return "", "", fmt.Errorf("source and destination are required: %w", railway.ErrNotFound)
	}

	var srcCode, destCode string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		code, err := h.stations.Resolve(gctx, srcName)
		srcCode = code
		return err
	})
	g.Go(func() error {
		code, err := h.stations.Resolve(gctx, destName)
		destCode = code
		return err
	})
	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return srcCode, destCode, nil
}

func (h *Handler) handleLiveStatus(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	trainNumber := strings.TrimSpace(q.Get("train_number"))
	journeyDate := strings.TrimSpace(q.Get("journey_date"))

	if trainNumber == "" || journeyDate == "" {
		h.writeJSON(w, http.StatusBadRequest, LiveStatusResponse{Error: msgMissingLiveInput})
		return
	}

	view, err := h.live.Reconcile(r.Context(), trainNumber, journeyDate)
	switch {
	case errors.Is(err, railway.ErrScheduleNotFound):
		h.writeJSON(w, http.StatusNotFound, LiveStatusResponse{Error: msgScheduleNotFound})
	case err != nil:
		h.logger.WithFields(logrus.Fields{
			"train": trainNumber,
			"error": err,
		}).Error("fetching live status failed")
		h.writeJSON(w, http.StatusBadGateway, LiveStatusResponse{Error: msgLiveFailed})
	default:
		h.writeJSON(w, http.StatusOK, LiveStatusResponse{LiveStatusView: view})
	}
}

func (h *Handler) handleTrainDetails(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	trainNumber := strings.TrimSpace(q.Get("train_number"))
	if trainNumber == "" {
		trainNumber = strings.TrimSpace(q.Get("train_number1"))
	}

	if trainNumber == "" {
		h.writeJSON(w, http.StatusOK, TrainDetailsResponse{})
		return
	}

	detail, err := h.details.Lookup(r.Context(), trainNumber)
	switch {
	case errors.Is(err, railway.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, TrainDetailsResponse{TrainNumber: trainNumber, Error: msgDetailNotFound})
	case err != nil:
		h.logger.WithFields(logrus.Fields{
			"train": trainNumber,
			"error": err,
		}).Error("fetching train details failed")
		h.writeJSON(w, http.StatusBadGateway, TrainDetailsResponse{TrainNumber: trainNumber, Error: msgDetailFailed})
	default:
		h.writeJSON(w, http.StatusOK, TrainDetailsResponse{TrainNumber: trainNumber, TrainInfo: detail})
	}
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		h.writeError(w, msgMissingStation, http.StatusBadRequest)
		return
	}

	code, err := h.stations.Resolve(r.Context(), name)
	switch {
	case errors.Is(err, railway.ErrNotFound):
		h.writeError(w, msgStationNotFound, http.StatusNotFound)
	case err != nil:
		h.writeError(w, msgStationFailed, http.StatusBadGateway)
	default:
		h.writeJSON(w, http.StatusOK, ResolveResponse{Name: name, Code: code})
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.WithField("error", err).Error("failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, ErrorResponse{Error: message})
}
