package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/samber/lo"

	"github.com/zielww/apollo/internal/constants"
	"github.com/zielww/apollo/internal/models"
	rulestore "github.com/zielww/apollo/internal/ruleStore"
	"github.com/zielww/apollo/internal/schedule"
)

type planner interface {
	AddRule(candidate models.Rule) (models.Rule, error)
	RemoveRule(id string) error
	Rules(deviceID string) []models.Rule
	Timeline(deviceID string) [constants.HoursPerDay][]schedule.Segment
	Active(at models.TimeOfDay) map[string]schedule.OutputState
	Sync(ctx context.Context, deviceID string) error
	SetChannel(ctx context.Context, deviceID string, channel models.Channel, level int) error
	SyncTime(ctx context.Context, deviceID string) (time.Time, error)
	DeviceStatus(ctx context.Context, deviceID string) (models.DeviceStatus, error)
}

type deviceLister interface {
	List(ctx context.Context) ([]models.Device, error)
}

type timeResolver interface {
	Resolve(pattern string, baseDate time.Time) (models.TimeOfDay, error)
}

// API is the http surface of the daemon
type API struct {
	logger    *log.Logger
	planner   planner
	devices   deviceLister
	resolver  timeResolver
	hourWidth int
	clock     func() time.Time
}

func NewAPI(logger *log.Logger, planner planner, devices deviceLister, resolver timeResolver, hourWidth int) *API {
	return &API{
		logger:    logger,
		planner:   planner,
		devices:   devices,
		resolver:  resolver,
		hourWidth: hourWidth,
		clock:     time.Now,
	}
}

func (a *API) SetClock(clock func() time.Time) {
	a.clock = clock
}

func (a *API) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(a.requestLogger)
	router.Use(middleware.Recoverer)

	a.Routes(router)
	return router
}

func (a *API) Routes(r chi.Router) {
	r.Route("/rules", func(r chi.Router) {
		r.Get("/", a.handleRulesList)
		r.Post("/", a.handleRulesCreate)
		r.Delete("/{ruleID}", a.handleRulesDelete)
	})
	r.Get("/timeline", a.handleTimeline)
	r.Get("/active", a.handleActive)
	r.Route("/devices", func(r chi.Router) {
		r.Get("/", a.handleDevicesList)
		r.Post("/{deviceID}/sync", a.handleDeviceSync)
		r.Get("/{deviceID}/status", a.handleDeviceStatus)
		r.Post("/{deviceID}/time/sync", a.handleDeviceTimeSync)
		r.Post("/{deviceID}/channels/{channel}", a.handleDeviceChannel)
	})
}

func (a *API) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		a.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"requestID", middleware.GetReqID(r.Context()),
		)
	})
}

func (a *API) handleRulesList(w http.ResponseWriter, r *http.Request) {
	rules := a.planner.Rules(r.URL.Query().Get("deviceId"))
	writeJSON(w, http.StatusOK, lo.Map(rules, func(rule models.Rule, _ int) RuleResponse {
		return newRuleResponse(rule)
	}))
}

func (a *API) handleRulesCreate(w http.ResponseWriter, r *http.Request) {
	var req RuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_json", Message: err.Error()})
		return
	}

	candidate, err := req.Rule(a.resolver, a.clock())
	if err != nil {
		a.writeRuleError(w, err)
		return
	}

	rule, err := a.planner.AddRule(candidate)
	if err != nil {
		a.writeRuleError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newRuleResponse(rule))
}

func (a *API) writeRuleError(w http.ResponseWriter, err error) {
	var validation *rulestore.ValidationError
	var conflict *rulestore.ConflictError
	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "validation", Field: validation.Field, Message: validation.Error()})
	case errors.As(err, &conflict):
		writeError(w, http.StatusConflict, ErrorResponse{
			Error:         "conflict",
			Message:       conflict.Error(),
			Range:         conflict.Range(),
			ConflictingID: conflict.Conflicting.ID,
		})
	default:
		a.logger.Error(err)
		writeError(w, http.StatusInternalServerError, ErrorResponse{Error: "internal", Message: err.Error()})
	}
}

func (a *API) handleRulesDelete(w http.ResponseWriter, r *http.Request) {
	err := a.planner.RemoveRule(chi.URLParam(r, "ruleID"))
	if errors.Is(err, rulestore.ErrNotFound) {
		writeError(w, http.StatusNotFound, ErrorResponse{Error: "not_found"})
		return
	}
	if err != nil {
		a.logger.Error(err)
		writeError(w, http.StatusInternalServerError, ErrorResponse{Error: "internal", Message: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleTimeline(w http.ResponseWriter, r *http.Request) {
	hourWidth := a.hourWidth
	if v := r.URL.Query().Get("hourWidth"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, ErrorResponse{Error: "validation", Field: "hourWidth", Message: "must be a positive integer"})
			return
		}
		hourWidth = n
	}

	now := models.TimeOfDayFromTime(a.clock())
	timeline := a.planner.Timeline(r.URL.Query().Get("deviceId"))

	resp := TimelineResponse{
		HourWidth: hourWidth,
		Now: NowResponse{
			Time:     now.String(),
			Position: schedule.PositionOf(now, float64(hourWidth)),
		},
		Hours: make([]HourResponse, 0, len(timeline)),
	}
	for hour, segments := range timeline {
		resp.Hours = append(resp.Hours, HourResponse{
			Hour:     hour,
			Segments: lo.Map(segments, func(s schedule.Segment, _ int) SegmentResponse { return newSegmentResponse(s) }),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleActive(w http.ResponseWriter, r *http.Request) {
	at := models.TimeOfDayFromTime(a.clock())
	if v := r.URL.Query().Get("at"); v != "" {
		parsed, err := models.ParseTimeOfDay(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrorResponse{Error: "validation", Field: "at", Message: err.Error()})
			return
		}
		at = parsed
	}

	writeJSON(w, http.StatusOK, ActiveResponse{At: at.String(), Devices: a.planner.Active(at)})
}

func (a *API) handleDevicesList(w http.ResponseWriter, r *http.Request) {
	devices, err := a.devices.List(r.Context())
	if err != nil {
		a.logger.Error(err)
		writeError(w, http.StatusBadGateway, ErrorResponse{Error: "directory_unavailable", Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, lo.Map(devices, func(d models.Device, _ int) DeviceResponse {
		return NewDeviceResponse(d, len(a.planner.Rules(d.ID)))
	}))
}

func (a *API) handleDeviceSync(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")
	if err := a.planner.Sync(r.Context(), deviceID); err != nil {
		a.logger.Warn("manual sync failed", "deviceID", deviceID, "err", err)
		writeError(w, http.StatusBadGateway, ErrorResponse{Error: "sync_failed", Message: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleDeviceStatus(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")
	status, err := a.planner.DeviceStatus(r.Context(), deviceID)
	if err != nil {
		a.logger.Warn("device status failed", "deviceID", deviceID, "err", err)
		writeError(w, http.StatusBadGateway, ErrorResponse{Error: "device_unavailable", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (a *API) handleDeviceTimeSync(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")
	synced, err := a.planner.SyncTime(r.Context(), deviceID)
	if err != nil {
		a.logger.Warn("time sync failed", "deviceID", deviceID, "err", err)
		writeError(w, http.StatusBadGateway, ErrorResponse{Error: "time_sync_failed", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, TimeSyncResponse{Clock: synced.Format(constants.DeviceTimeLayout)})
}

func (a *API) handleDeviceChannel(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")
	channel, err := models.ParseChannel(chi.URLParam(r, "channel"))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "validation", Field: "channel", Message: err.Error()})
		return
	}

	var req ChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_json", Message: err.Error()})
		return
	}
	if req.Level == nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "validation", Field: "level", Message: "invalid level: is required"})
		return
	}

	err = a.planner.SetChannel(r.Context(), deviceID, channel, *req.Level)
	var validation *rulestore.ValidationError
	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "validation", Field: validation.Field, Message: validation.Error()})
	case err != nil:
		a.logger.Warn("set channel failed", "deviceID", deviceID, "channel", channel, "err", err)
		writeError(w, http.StatusBadGateway, ErrorResponse{Error: "device_unavailable", Message: err.Error()})
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, resp ErrorResponse) {
	writeJSON(w, status, resp)
}
