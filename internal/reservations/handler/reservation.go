package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"fleetbook/internal/availability"
	"fleetbook/internal/reservations/service"
	apperrors "fleetbook/pkg/errors"
	httputil "fleetbook/pkg/http"
	"fleetbook/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type ReservationHandler struct {
	service service.ReservationService
	oracle  availability.Oracle
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, oracle availability.Oracle, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		oracle:  oracle,
		log:     log,
	}
}

// Create accepts a loosely-typed field map; the sanitizer downstream
// owns normalization, so no struct decoding happens here.
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	result, err := h.service.Create(r.Context(), fields)
	if err != nil {
		h.writeBookingFailure(w, "Create", result, err)
		return
	}

	if err := httputil.WriteCreated(w, result); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	reservation, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput(err.Error())); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	reservations, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, reservations, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	result, err := h.service.Update(r.Context(), id, fields)
	if err != nil {
		h.writeBookingFailure(w, "Update", result, err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteNoContent(w); err != nil {
		h.log.Error("failed to write no-content response", "handler", "Delete", "operation", "WriteNoContent", "error", err)
	}
}

func (h *ReservationHandler) CheckAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	vehicleID := query.Get("vehicle_id")
	if vehicleID == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("'vehicle_id' query parameter is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CheckAvailability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	start, end, err := extractInterval(query.Get("start_time"), query.Get("end_time"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CheckAvailability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	result, err := h.oracle.CheckAvailability(r.Context(), vehicleID, start, end, availability.Options{
		ExcludeReservationID: query.Get("exclude_reservation_id"),
	})
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CheckAvailability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "CheckAvailability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) NextAvailableSlot(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	vehicleID := query.Get("vehicle_id")
	if vehicleID == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("'vehicle_id' query parameter is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "NextAvailableSlot", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	start, end, err := extractInterval(query.Get("start_time"), query.Get("end_time"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "NextAvailableSlot", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	slot, err := h.oracle.FindNextAvailableSlot(r.Context(), vehicleID, start, end)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "NextAvailableSlot", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if slot == nil {
		if writeErr := httputil.WriteError(w, apperrors.NotFound("Available slot")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "NextAvailableSlot", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, slot); err != nil {
		h.log.Error("failed to write success response", "handler", "NextAvailableSlot", "operation", "WriteSuccess", "error", err)
	}
}

// writeBookingFailure renders an availability conflict with its conflict
// windows and suggested slot; every other failure goes through the shared
// error writer.
func (h *ReservationHandler) writeBookingFailure(w http.ResponseWriter, handlerName string, result *service.BookingResult, err error) {
	if result != nil && result.Reason != "" {
		appErr := apperrors.AsAppError(err)
		if writeErr := httputil.WriteJSON(w, appErr.StatusCode(), result); writeErr != nil {
			h.log.Error("failed to write conflict response", "handler", handlerName, "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", writeErr)
	}
}

func extractInterval(startStr, endStr string) (time.Time, time.Time, error) {
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, apperrors.InvalidInput("'start_time' and 'end_time' query parameters are required")
	}

	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.InvalidInput("invalid start_time format, must be RFC3339")
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.InvalidInput("invalid end_time format, must be RFC3339")
	}

	return start, end, nil
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Create)
	router.GET("/api/v1/reservations", h.GetAll)
	router.GET("/api/v1/reservations/id/:id", h.GetByID)
	router.PATCH("/api/v1/reservations/id/:id", h.Update)
	router.DELETE("/api/v1/reservations/id/:id", h.Delete)
	router.GET("/api/v1/availability", h.CheckAvailability)
	router.GET("/api/v1/availability/next-slot", h.NextAvailableSlot)
}
