package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/anicoll/onvif-integration/internal/pkg/bridge"
	"github.com/anicoll/onvif-integration/internal/pkg/config"
	"github.com/anicoll/onvif-integration/internal/pkg/database"
	"github.com/anicoll/onvif-integration/internal/pkg/model"
	"github.com/anicoll/onvif-integration/internal/pkg/stream"
)

type notifier interface {
	Handle(ctx context.Context, device model.Device, msgs []model.NotificationMessage) error
}

type eventStore interface {
	GetLatestEvents(ctx context.Context) (database.EventRecords, error)
	GetEvents(ctx context.Context, uid string, from, to *time.Time) (database.EventRecords, error)
}

type server struct {
	bridge notifier
	db     eventStore
	hub    *stream.Hub
	cfg    *config.ServerConfig
	logger *zap.Logger
}

func New(b notifier, db eventStore, hub *stream.Hub, cfg *config.ServerConfig) *server {
	return &server{
		bridge: b,
		db:     db,
		hub:    hub,
		cfg:    cfg,
		logger: zap.L(),
	}
}

// Handler builds the route table. The notify endpoint stays unauthenticated:
// cameras POST SOAP with no concept of bearer tokens; everything else behind
// the token middleware.
func (s *server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/notify/{device}", s.postNotify)
	mux.Handle("GET /api/v1/events", s.authMiddleware(http.HandlerFunc(s.getEvents)))
	mux.Handle("GET /api/v1/events/{uid...}", s.authMiddleware(http.HandlerFunc(s.getEventHistory)))
	mux.Handle("GET /api/v1/stream", s.authMiddleware(http.HandlerFunc(s.getStream)))
	mux.HandleFunc("POST /api/v1/auth/token", s.postAuthToken)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	return LoggingMiddleware(mux)
}

func (s *server) postNotify(w http.ResponseWriter, r *http.Request) {
	deviceUID := r.PathValue("device")
	if deviceUID == "" {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("missing device uid"))
		return
	}

	msgs, err := bridge.DecodeNotify(r.Body)
	if err != nil {
		s.logger.Warn("bad notify payload", zap.String("device", deviceUID), zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("malformed notify body"))
		return
	}

	device := model.Device{UID: deviceUID}
	if err := s.bridge.Handle(r.Context(), device, msgs); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

type eventResponse struct {
	UID         string `json:"uid"`
	Name        string `json:"name"`
	Platform    string `json:"platform"`
	DeviceClass string `json:"device_class,omitempty"`
	Unit        string `json:"unit_of_measurement,omitempty"`
	Value       string `json:"value"`
	Device      string `json:"device"`
	ObservedAt  string `json:"observed_at"`
}

func (s *server) getEvents(w http.ResponseWriter, r *http.Request) {
	records, err := s.db.GetLatestEvents(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	response := lo.Map(records, func(record database.EventRecord, _ int) eventResponse {
		return eventResponse{
			UID:         record.UID,
			Name:        record.Name,
			Platform:    record.Platform,
			DeviceClass: record.DeviceClass,
			Unit:        record.Unit,
			Value:       record.Value,
			Device:      record.DeviceIdentifier,
			ObservedAt:  record.ObservedAt.Format(time.RFC3339),
		}
	})

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Error("failed to encode events response", zap.Error(err))
	}
}

// getEventHistory returns the history window for one entity UID. The uid is
// a trailing wildcard because entity keys embed topic paths with slashes.
// from/to are optional RFC3339 query parameters; the store defaults the
// window when both are absent.
func (s *server) getEventHistory(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")

	var from, to *time.Time
	if raw := r.URL.Query().Get("from"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("invalid from timestamp"))
			return
		}
		from = &ts
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("invalid to timestamp"))
			return
		}
		to = &ts
	}

	records, err := s.db.GetEvents(r.Context(), uid, from, to)
	if err != nil {
		handleError(w, err)
		return
	}

	response := lo.Map(records, func(record database.EventRecord, _ int) eventResponse {
		return eventResponse{
			UID:         record.UID,
			Name:        record.Name,
			Platform:    record.Platform,
			DeviceClass: record.DeviceClass,
			Unit:        record.Unit,
			Value:       record.Value,
			Device:      record.DeviceIdentifier,
			ObservedAt:  record.ObservedAt.Format(time.RFC3339),
		}
	})

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Error("failed to encode events response", zap.Error(err))
	}
}

func (s *server) getStream(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("stream disabled"))
		return
	}
	stream.ServeWs(s.hub, w, r)
}

func handleError(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(err.Error()))
}
