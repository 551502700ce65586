package adaptor

import (
	"encoding/json"
	"net/http"

	"cinema-reserve/internal/dto/request"
	"cinema-reserve/internal/usecase"
	"cinema-reserve/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ScheduleHandler struct {
	service usecase.ScheduleService
	log     *zap.Logger
}

func NewScheduleHandler(service usecase.ScheduleService, log *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		service: service,
		log:     log.With(zap.String("handler", "schedule")),
	}
}

// ListSchedules handles GET /api/schedules (public)
func (h *ScheduleHandler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := utils.ParseInt(query.Get("page"), 1)
	perPage := utils.ParseInt(query.Get("per_page"), 20)

	schedules, err := h.service.ListSchedules(r.Context(), page, perPage)
	if err != nil {
		handleServiceError(w, h.log, err, "list schedules")
		return
	}

	utils.ResponseSuccess(w, "success", schedules)
}

// GetSchedule handles GET /api/schedules/{id} (public)
func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "id")
	if scheduleID == "" {
		utils.ResponseBadRequest(w, "Schedule ID is required", nil)
		return
	}

	schedule, err := h.service.GetSchedule(r.Context(), scheduleID)
	if err != nil {
		handleServiceError(w, h.log, err, "get schedule")
		return
	}

	utils.ResponseSuccess(w, "success", schedule)
}

// GetSeatMap handles GET /api/schedules/{id}/seats (public)
func (h *ScheduleHandler) GetSeatMap(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "id")
	if scheduleID == "" {
		utils.ResponseBadRequest(w, "Schedule ID is required", nil)
		return
	}

	seatMap, err := h.service.GetSeatMap(r.Context(), scheduleID)
	if err != nil {
		handleServiceError(w, h.log, err, "get seat map")
		return
	}

	utils.ResponseSuccess(w, "success", seatMap)
}

// CreateSchedule handles POST /api/admin/schedules (admin only)
func (h *ScheduleHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req request.CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	schedule, err := h.service.CreateSchedule(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create schedule")
		return
	}

	utils.ResponseCreated(w, "success", schedule)
}

// UpdateSchedule handles PUT /api/admin/schedules/{id} (admin only)
func (h *ScheduleHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "id")
	if scheduleID == "" {
		utils.ResponseBadRequest(w, "Schedule ID is required", nil)
		return
	}

	var req request.UpdateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	schedule, err := h.service.UpdateSchedule(r.Context(), scheduleID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update schedule")
		return
	}

	utils.ResponseSuccess(w, "success", schedule)
}

// DeleteSchedule handles DELETE /api/admin/schedules/{id} (admin only)
func (h *ScheduleHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "id")
	if scheduleID == "" {
		utils.ResponseBadRequest(w, "Schedule ID is required", nil)
		return
	}

	if err := h.service.DeleteSchedule(r.Context(), scheduleID); err != nil {
		handleServiceError(w, h.log, err, "delete schedule")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
